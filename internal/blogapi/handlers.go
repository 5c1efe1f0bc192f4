// Package blogapi serves the microblog REST API.
package blogapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/erazemk/estoque/internal/blog"
)

// Handler serves users, posts and the follower graph.
type Handler struct {
	Store *blog.Store
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		internalError(w, r, "failed to list users", err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"users": users})
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req blog.NewUser
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Store.CreateUser(r.Context(), req)
	switch {
	case errors.Is(err, blog.ErrInvalid):
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, blog.ErrDuplicate):
		jsonError(w, http.StatusConflict, "nickname or email already taken")
		return
	case err != nil:
		internalError(w, r, "failed to create user", err)
		return
	}

	jsonResponse(w, http.StatusCreated, user)
}

// GetUser handles GET /users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		internalError(w, r, "failed to get user", err)
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"user": user})
}

// ListPosts handles GET /posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Store.ListPosts(r.Context())
	if err != nil {
		internalError(w, r, "failed to list posts", err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"posts": posts})
}

// CreatePost handles POST /posts.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req blog.NewPost
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.Store.CreatePost(r.Context(), req)
	switch {
	case errors.Is(err, blog.ErrInvalid):
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, blog.ErrUserNotFound):
		jsonError(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		internalError(w, r, "failed to create post", err)
		return
	}

	jsonResponse(w, http.StatusCreated, post)
}

// GetPost handles GET /posts/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.Store.GetPost(r.Context(), id)
	if err != nil {
		internalError(w, r, "failed to get post", err)
		return
	}
	if post == nil {
		jsonError(w, http.StatusNotFound, "post not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"post": post})
}

// Follow handles POST /users/{id}/follow/{target}.
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	target, okTarget := pathID(r, "target")
	if !ok || !okTarget {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	edge, created, err := h.Store.Follow(r.Context(), id, target)
	if errors.Is(err, blog.ErrUserNotFound) {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		internalError(w, r, "failed to follow user", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	jsonResponse(w, status, map[string]any{"edge": edge})
}

// IsFollowing handles GET /users/{id}/follow/{target}.
func (h *Handler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	target, okTarget := pathID(r, "target")
	if !ok || !okTarget {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	following, err := h.Store.IsFollowing(r.Context(), id, target)
	if err != nil {
		internalError(w, r, "failed to check follow", err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"following": following})
}

// Populate handles GET /populate.
func (h *Handler) Populate(w http.ResponseWriter, r *http.Request) {
	res, err := h.Store.Populate(r.Context(), time.Now())
	if errors.Is(err, blog.ErrAlreadySeeded) {
		jsonError(w, http.StatusConflict, "demo data already populated")
		return
	}
	if err != nil {
		internalError(w, r, "failed to populate", err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Data populated",
		"seeded":  res,
	})
}
