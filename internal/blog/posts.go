package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const postDetailQuery = `SELECT p.id, p.body, p.timestamp, p.language,
	u.id AS "author.id", u.nickname AS "author.nickname", u.email AS "author.email",
	u.about_me AS "author.about_me", u.last_seen AS "author.last_seen"
	FROM posts p JOIN users u ON u.id = p.user_id`

// CreatePost publishes a post now and marks the author as last seen at that time.
func (s *Store) CreatePost(ctx context.Context, in NewPost) (*PostDetail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	return inTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) (*PostDetail, error) {
		ok, err := userExists(ctx, tx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("user %d: %w", in.UserID, ErrUserNotFound)
		}

		now := time.Now().UTC()
		id, err := insertPost(ctx, tx, in, now)
		if err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET last_seen = ? WHERE id = ?`, now, in.UserID,
		); err != nil {
			return nil, fmt.Errorf("updating last seen: %w", err)
		}

		return getPost(ctx, tx, id)
	})
}

func insertPost(ctx context.Context, e sqlx.ExecerContext, in NewPost, at time.Time) (int64, error) {
	result, err := e.ExecContext(ctx,
		`INSERT INTO posts (body, timestamp, language, user_id) VALUES (?, ?, ?, ?)`,
		in.Body, at, in.Language, in.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("creating post: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting post id: %w", err)
	}
	return id, nil
}

// GetPost returns a post with its author, or nil if it does not exist.
func (s *Store) GetPost(ctx context.Context, id int64) (*PostDetail, error) {
	return getPost(ctx, s.db, id)
}

func getPost(ctx context.Context, q sqlx.QueryerContext, id int64) (*PostDetail, error) {
	var p PostDetail
	err := sqlx.GetContext(ctx, q, &p, postDetailQuery+` WHERE p.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return &p, nil
}

// ListPosts returns every post with its author, oldest first.
func (s *Store) ListPosts(ctx context.Context) ([]PostDetail, error) {
	posts := []PostDetail{}
	if err := s.db.SelectContext(ctx, &posts, postDetailQuery+` ORDER BY p.id`); err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}
