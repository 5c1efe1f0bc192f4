package web

import (
	"database/sql"
	"fmt"
	"net/http"

	webembed "github.com/erazemk/estoque/web"
)

// Register adds the admin UI routes under /admin/ to mux.
func Register(mux *http.ServeMux, db *sql.DB, jwtSecret string) error {
	templates, err := LoadTemplates()
	if err != nil {
		return err
	}
	static, err := webembed.StaticFS()
	if err != nil {
		return fmt.Errorf("opening static assets: %w", err)
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		JWTSecret: jwtSecret,
	}
	cookieAuth := CookieAuthMiddleware(jwtSecret, db)

	// Static assets.
	mux.Handle("GET /admin/static/", http.StripPrefix("/admin/static/", http.FileServer(http.FS(static))))

	// Public routes.
	mux.HandleFunc("GET /admin/login", s.LoginPage)
	mux.HandleFunc("POST /admin/login", s.LoginSubmit)
	mux.HandleFunc("POST /admin/logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /admin/{$}", cookieAuth(http.HandlerFunc(s.Dashboard)))
	mux.Handle("GET /admin/{table}", cookieAuth(http.HandlerFunc(s.ModelList)))
	mux.Handle("POST /admin/{table}", cookieAuth(http.HandlerFunc(s.ModelCreate)))
	mux.Handle("POST /admin/{table}/{id}/delete", cookieAuth(http.HandlerFunc(s.ModelDelete)))

	return nil
}

// NewRouter creates the admin UI router.
func NewRouter(db *sql.DB, jwtSecret string) (http.Handler, error) {
	mux := http.NewServeMux()
	if err := Register(mux, db, jwtSecret); err != nil {
		return nil, err
	}
	return mux, nil
}
