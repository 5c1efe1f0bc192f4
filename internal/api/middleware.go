package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/estoque/internal/auth"
	"github.com/erazemk/estoque/internal/model"
	"github.com/erazemk/estoque/internal/store"
)

type contextKey string

const claimsKey contextKey = "claims"

// AuthMiddleware validates the bearer token, rejects revoked tokens and
// deactivated users, and adds the claims to the request context. The role in
// the context is the user's current role, not the one issued in the token.
func AuthMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				jsonError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}

			claims, err := auth.ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				jsonError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			claims, status, msg := authorize(r.Context(), db, claims)
			if status != http.StatusOK {
				jsonError(w, status, msg)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authorize checks a validated token against the revocation list and the
// users table. It returns the claims with the current role.
func authorize(ctx context.Context, db *sql.DB, claims *auth.Claims) (*auth.Claims, int, string) {
	revoked, err := store.IsTokenRevoked(ctx, db, claims.ID)
	if err != nil {
		slog.ErrorContext(ctx, "checking token revocation", "error", err)
		return nil, http.StatusInternalServerError, "internal error"
	}
	if revoked {
		return nil, http.StatusUnauthorized, "token revoked"
	}

	user, err := store.GetUser(ctx, db, claims.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "loading token user", "error", err)
		return nil, http.StatusInternalServerError, "internal error"
	}
	if user == nil || !user.Active {
		return nil, http.StatusUnauthorized, "user inactive"
	}

	current := *claims
	current.Role = user.Role
	return &current, http.StatusOK, ""
}

// RequireRole returns middleware that checks if the user has at least the given role.
func RequireRole(minimum string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				jsonError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if !model.RoleAtLeast(claims.Role, minimum) {
				jsonError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims retrieves the JWT claims from the context.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}
