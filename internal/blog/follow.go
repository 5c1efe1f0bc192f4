package blog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// IsFollowing reports whether a follows b. It is a single primary-key lookup.
func (s *Store) IsFollowing(ctx context.Context, a, b int64) (bool, error) {
	return isFollowing(ctx, s.db, a, b)
}

func isFollowing(ctx context.Context, q sqlx.QueryerContext, a, b int64) (bool, error) {
	var following bool
	err := sqlx.GetContext(ctx, q, &following,
		`SELECT EXISTS (SELECT 1 FROM followers WHERE follower_id = ? AND followed_id = ?)`,
		a, b,
	)
	if err != nil {
		return false, fmt.Errorf("checking follow %d->%d: %w", a, b, err)
	}
	return following, nil
}

// Follow makes a follow b. Self-follows are allowed. Following twice is a
// no-op that reports created=false.
func (s *Store) Follow(ctx context.Context, a, b int64) (Edge, bool, error) {
	created, err := inTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) (bool, error) {
		for _, id := range []int64{a, b} {
			ok, err := userExists(ctx, tx, id)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
			}
		}
		return follow(ctx, tx, a, b)
	})
	if err != nil {
		return Edge{}, false, err
	}
	return Edge{FollowerID: a, FollowedID: b}, created, nil
}

func follow(ctx context.Context, e sqlx.ExecerContext, a, b int64) (bool, error) {
	result, err := e.ExecContext(ctx,
		`INSERT INTO followers (follower_id, followed_id) VALUES (?, ?)
		 ON CONFLICT (follower_id, followed_id) DO NOTHING`,
		a, b,
	)
	if err != nil {
		return false, fmt.Errorf("following %d->%d: %w", a, b, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking affected rows: %w", err)
	}
	return n > 0, nil
}

// Followers returns the users following id.
func (s *Store) Followers(ctx context.Context, id int64) ([]UserSummary, error) {
	return followers(ctx, s.db, id)
}

// Followed returns the users id follows.
func (s *Store) Followed(ctx context.Context, id int64) ([]UserSummary, error) {
	return followed(ctx, s.db, id)
}

func followers(ctx context.Context, q sqlx.QueryerContext, id int64) ([]UserSummary, error) {
	users := []UserSummary{}
	if err := sqlx.SelectContext(ctx, q, &users,
		`SELECT `+userColumns+` FROM users u
		 JOIN followers f ON f.follower_id = u.id
		 WHERE f.followed_id = ? ORDER BY u.id`, id,
	); err != nil {
		return nil, fmt.Errorf("listing followers of %d: %w", id, err)
	}
	return users, nil
}

func followed(ctx context.Context, q sqlx.QueryerContext, id int64) ([]UserSummary, error) {
	users := []UserSummary{}
	if err := sqlx.SelectContext(ctx, q, &users,
		`SELECT `+userColumns+` FROM users u
		 JOIN followers f ON f.followed_id = u.id
		 WHERE f.follower_id = ? ORDER BY u.id`, id,
	); err != nil {
		return nil, fmt.Errorf("listing users followed by %d: %w", id, err)
	}
	return users, nil
}
