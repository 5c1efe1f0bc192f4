// Package blog stores microblog users, posts and the follower graph, and
// assembles the bounded views served by the microblog API.
package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Sentinel errors returned (wrapped) by Store methods.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicate     = errors.New("already exists")
	ErrAlreadySeeded = errors.New("demo data already present")
	ErrInvalid       = errors.New("invalid input")
)

// Store is the microblog repository.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open SQLite handle. The "sqlite3" driver name only
// selects sqlx's "?" bind style; queries still go through db's driver.
func NewStore(db *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(db, "sqlite3")}
}

// inTx runs fn in a transaction, committing on success and rolling back on
// error or panic.
func inTx[T any](ctx context.Context, db *sqlx.DB, fn func(ctx context.Context, tx *sqlx.Tx) (T, error)) (res T, err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
			return
		}

		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("committing transaction: %w", err)
		}
	}()

	return fn(ctx, tx)
}

func userExists(ctx context.Context, q sqlx.QueryerContext, id int64) (bool, error) {
	var exists bool
	if err := sqlx.GetContext(ctx, q, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, id); err != nil {
		return false, fmt.Errorf("checking user %d: %w", id, err)
	}
	return exists, nil
}
