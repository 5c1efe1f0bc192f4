package blog

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// UserSummary is a user without any related lists. Every nested user in a
// view is a summary, which bounds serialization depth.
type UserSummary struct {
	ID       int64      `db:"id" json:"id"`
	Nickname string     `db:"nickname" json:"nickname"`
	Email    string     `db:"email" json:"email"`
	AboutMe  string     `db:"about_me" json:"about_me"`
	LastSeen *time.Time `db:"last_seen" json:"last_seen"`
}

// UserDetail is a user with their posts and both sides of the follower graph.
type UserDetail struct {
	UserSummary
	Posts     []PostSummary `json:"posts"`
	Followers []UserSummary `json:"followers"`
	Followed  []UserSummary `json:"followed"`
}

// PostSummary is a post without its author.
type PostSummary struct {
	ID        int64     `db:"id" json:"id"`
	Body      string    `db:"body" json:"body"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	Language  string    `db:"language" json:"language"`
}

// PostDetail is a post with its author summary.
type PostDetail struct {
	PostSummary
	Author UserSummary `db:"author" json:"author"`
}

// Edge is one follower relation: FollowerID follows FollowedID.
type Edge struct {
	FollowerID int64 `db:"follower_id" json:"follower_id"`
	FollowedID int64 `db:"followed_id" json:"followed_id"`
}

// NewUser is the input for CreateUser.
type NewUser struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	AboutMe  string `json:"about_me"`
}

// NewPost is the input for CreatePost.
type NewPost struct {
	Body     string `json:"body"`
	Language string `json:"language"`
	UserID   int64  `json:"user_id"`
}

// Column limits.
const (
	MaxNickname = 64
	MaxEmail    = 120
	MaxAboutMe  = 140
	MaxBody     = 140
	MaxLanguage = 5
)

// Validate checks required fields and column limits.
func (u NewUser) Validate() error {
	switch {
	case u.Nickname == "" || u.Email == "":
		return fmt.Errorf("nickname and email are required: %w", ErrInvalid)
	case utf8.RuneCountInString(u.Nickname) > MaxNickname:
		return fmt.Errorf("nickname longer than %d: %w", MaxNickname, ErrInvalid)
	case utf8.RuneCountInString(u.Email) > MaxEmail:
		return fmt.Errorf("email longer than %d: %w", MaxEmail, ErrInvalid)
	case utf8.RuneCountInString(u.AboutMe) > MaxAboutMe:
		return fmt.Errorf("about_me longer than %d: %w", MaxAboutMe, ErrInvalid)
	}
	return nil
}

// Validate checks required fields and column limits.
func (p NewPost) Validate() error {
	switch {
	case p.Body == "":
		return fmt.Errorf("body is required: %w", ErrInvalid)
	case p.UserID == 0:
		return fmt.Errorf("user_id is required: %w", ErrInvalid)
	case utf8.RuneCountInString(p.Body) > MaxBody:
		return fmt.Errorf("body longer than %d: %w", MaxBody, ErrInvalid)
	case utf8.RuneCountInString(p.Language) > MaxLanguage:
		return fmt.Errorf("language longer than %d: %w", MaxLanguage, ErrInvalid)
	}
	return nil
}
