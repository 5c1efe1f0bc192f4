package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	appdb "github.com/erazemk/estoque/internal/db"
)

const userColumns = `u.id, u.nickname, u.email, u.about_me, u.last_seen`

// CreateUser inserts a user and returns it with empty lists.
func (s *Store) CreateUser(ctx context.Context, in NewUser) (*UserDetail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	id, err := insertUser(ctx, s.db, in)
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func insertUser(ctx context.Context, e sqlx.ExecerContext, in NewUser) (int64, error) {
	result, err := e.ExecContext(ctx,
		`INSERT INTO users (nickname, email, about_me) VALUES (?, ?, ?)`,
		in.Nickname, in.Email, in.AboutMe,
	)
	if appdb.IsUniqueViolation(err) {
		return 0, fmt.Errorf("creating user %s: %w", in.Nickname, ErrDuplicate)
	}
	if err != nil {
		return 0, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting user id: %w", err)
	}
	return id, nil
}

// GetUser returns a user with posts, followers and followed users, or nil
// if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id int64) (*UserDetail, error) {
	return inTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) (*UserDetail, error) {
		var u UserSummary
		err := tx.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users u WHERE u.id = ?`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("getting user: %w", err)
		}

		detail := &UserDetail{UserSummary: u}
		if detail.Posts, err = postsByUser(ctx, tx, id); err != nil {
			return nil, err
		}
		if detail.Followers, err = followers(ctx, tx, id); err != nil {
			return nil, err
		}
		if detail.Followed, err = followed(ctx, tx, id); err != nil {
			return nil, err
		}
		return detail, nil
	})
}

type postRow struct {
	PostSummary
	UserID int64 `db:"user_id"`
}

// ListUsers returns every user with their lists. It runs a fixed number of
// queries regardless of the number of users.
func (s *Store) ListUsers(ctx context.Context) ([]UserDetail, error) {
	return inTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) ([]UserDetail, error) {
		var users []UserSummary
		if err := tx.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users u ORDER BY u.id`); err != nil {
			return nil, fmt.Errorf("listing users: %w", err)
		}

		var posts []postRow
		if err := tx.SelectContext(ctx, &posts,
			`SELECT id, body, timestamp, language, user_id FROM posts ORDER BY id`,
		); err != nil {
			return nil, fmt.Errorf("listing posts: %w", err)
		}

		var edges []Edge
		if err := tx.SelectContext(ctx, &edges,
			`SELECT follower_id, followed_id FROM followers ORDER BY follower_id, followed_id`,
		); err != nil {
			return nil, fmt.Errorf("listing edges: %w", err)
		}

		details := make([]UserDetail, len(users))
		index := make(map[int64]int, len(users))
		for i, u := range users {
			details[i] = UserDetail{
				UserSummary: u,
				Posts:       []PostSummary{},
				Followers:   []UserSummary{},
				Followed:    []UserSummary{},
			}
			index[u.ID] = i
		}

		for _, p := range posts {
			if i, ok := index[p.UserID]; ok {
				details[i].Posts = append(details[i].Posts, p.PostSummary)
			}
		}

		for _, e := range edges {
			from, okFrom := index[e.FollowerID]
			to, okTo := index[e.FollowedID]
			if !okFrom || !okTo {
				continue
			}
			details[from].Followed = append(details[from].Followed, users[to])
			details[to].Followers = append(details[to].Followers, users[from])
		}

		return details, nil
	})
}

func postsByUser(ctx context.Context, q sqlx.QueryerContext, userID int64) ([]PostSummary, error) {
	posts := []PostSummary{}
	if err := sqlx.SelectContext(ctx, q, &posts,
		`SELECT id, body, timestamp, language FROM posts WHERE user_id = ? ORDER BY id`, userID,
	); err != nil {
		return nil, fmt.Errorf("listing posts of user %d: %w", userID, err)
	}
	return posts, nil
}
