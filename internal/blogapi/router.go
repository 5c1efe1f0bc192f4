package blogapi

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/estoque/internal/blog"
	"github.com/erazemk/estoque/internal/server"
)

// NewRouter creates the microblog router with all endpoints registered and
// the shared request-id, access-log and metrics middleware applied.
func NewRouter(db *sql.DB, metrics *server.Metrics) http.Handler {
	mux := http.NewServeMux()
	h := &Handler{Store: blog.NewStore(db)}

	mux.HandleFunc("GET /users", h.ListUsers)
	mux.HandleFunc("POST /users", h.CreateUser)
	mux.HandleFunc("GET /users/{id}", h.GetUser)
	mux.HandleFunc("POST /users/{id}/follow/{target}", h.Follow)
	mux.HandleFunc("GET /users/{id}/follow/{target}", h.IsFollowing)

	mux.HandleFunc("GET /posts", h.ListPosts)
	mux.HandleFunc("POST /posts", h.CreatePost)
	mux.HandleFunc("GET /posts/{id}", h.GetPost)

	mux.HandleFunc("GET /populate", h.Populate)

	mux.Handle("GET /metrics", metrics.Handler())

	return server.Chain(metrics.Instrument(mux), server.RequestID, server.AccessLog)
}
