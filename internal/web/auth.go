package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/estoque/internal/auth"
	"github.com/erazemk/estoque/internal/store"
)

// LoginPage handles GET /admin/login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, http.StatusOK, "login.html", &PageData{Title: "Sign in"})
}

// LoginSubmit handles POST /admin/login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	fail := func(status int, msg string) {
		s.Templates.Render(w, status, "login.html", &PageData{Title: "Sign in", Error: msg})
	}

	if email == "" || password == "" {
		fail(http.StatusBadRequest, "Enter your email and password.")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), s.DB, email)
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		fail(http.StatusInternalServerError, "Sign in failed.")
		return
	}
	if user == nil || !user.Active || !auth.CheckPassword(user.PasswordHash, password) {
		slog.Warn("admin login failed", "email", email, "remote", r.RemoteAddr)
		fail(http.StatusUnauthorized, "Wrong email or password.")
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, user.ID, user.Email, user.Role)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		fail(http.StatusInternalServerError, "Sign in failed.")
		return
	}

	setAuthCookie(w, token)
	slog.Info("admin login", "user", user.Email, "role", user.Role)
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// Logout handles POST /admin/logout. The session token is revoked so a
// copied cookie stops working too.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.JWTSecret, cookie.Value); err == nil {
			expiresAt := time.Now().Add(auth.TokenExpiry)
			if claims.ExpiresAt != nil {
				expiresAt = claims.ExpiresAt.Time
			}
			if err := store.RevokeToken(r.Context(), s.DB, claims.ID, expiresAt); err != nil {
				slog.Error("failed to revoke session token", "error", err)
			}
		}
	}

	clearAuthCookie(w)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}
