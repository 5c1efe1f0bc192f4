package blog

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SeedResult counts the rows created by Populate.
type SeedResult struct {
	Users int `json:"users"`
	Posts int `json:"posts"`
	Edges int `json:"edges"`
}

var demoUsers = []NewUser{
	{Nickname: "john", Email: "john@example.com"},
	{Nickname: "susan", Email: "susan@example.com"},
	{Nickname: "mary", Email: "mary@example.com"},
	{Nickname: "david", Email: "david@example.com"},
}

// demoEdges index into demoUsers.
var demoEdges = [][2]int{
	{0, 0}, {0, 1}, {0, 3},
	{1, 1}, {1, 2},
	{2, 2}, {2, 3},
	{3, 3},
}

// Populate seeds the demo dataset in one transaction: four users, one post
// each at now+1s..now+4s, and eight follow edges including four self-follows.
// It fails with ErrAlreadySeeded if any demo user already exists.
func (s *Store) Populate(ctx context.Context, now time.Time) (*SeedResult, error) {
	return inTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) (*SeedResult, error) {
		nicknames := make([]string, len(demoUsers))
		for i, u := range demoUsers {
			nicknames[i] = u.Nickname
		}
		query, args, err := sqlx.In(`SELECT COUNT(*) FROM users WHERE nickname IN (?)`, nicknames)
		if err != nil {
			return nil, fmt.Errorf("building seed check: %w", err)
		}
		var existing int
		if err := tx.GetContext(ctx, &existing, tx.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("checking seed: %w", err)
		}
		if existing > 0 {
			return nil, ErrAlreadySeeded
		}

		res := &SeedResult{}
		ids := make([]int64, len(demoUsers))
		for i, u := range demoUsers {
			if ids[i], err = insertUser(ctx, tx, u); err != nil {
				return nil, err
			}
			res.Users++
		}

		for i, u := range demoUsers {
			post := NewPost{Body: "post from " + u.Nickname, UserID: ids[i]}
			if _, err := insertPost(ctx, tx, post, now.UTC().Add(time.Duration(i+1)*time.Second)); err != nil {
				return nil, err
			}
			res.Posts++
		}

		for _, e := range demoEdges {
			created, err := follow(ctx, tx, ids[e[0]], ids[e[1]])
			if err != nil {
				return nil, err
			}
			if created {
				res.Edges++
			}
		}

		return res, nil
	})
}
