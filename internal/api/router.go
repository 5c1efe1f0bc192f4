package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/estoque/internal/model"
)

// resource is the handler set shared by every inventory table.
type resource interface {
	List(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

// Register adds the inventory API routes to mux.
func Register(mux *http.ServeMux, db *sql.DB, jwtSecret string) {
	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	productsHandler := &ProductsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Inventory tables: read and create (all roles), delete (manager+).
	resources := map[string]resource{"product": productsHandler}
	for _, kind := range model.MovementKinds {
		resources[string(kind)] = &MovementsHandler{DB: db, Kind: kind}
	}
	for table, h := range resources {
		base := "/" + table
		mux.Handle("GET "+base, authMW(http.HandlerFunc(h.List)))
		mux.Handle("GET "+base+"/{$}", authMW(http.HandlerFunc(h.List)))
		mux.Handle("POST "+base, authMW(http.HandlerFunc(h.Create)))
		mux.Handle("POST "+base+"/{$}", authMW(http.HandlerFunc(h.Create)))
		mux.Handle("GET "+base+"/{id}", authMW(http.HandlerFunc(h.Get)))
		mux.Handle("PUT "+base+"/{id}", authMW(http.HandlerFunc(h.Update)))
		mux.Handle("DELETE "+base+"/{id}", authMW(requireManager(http.HandlerFunc(h.Delete))))
	}

	// Product extras.
	mux.Handle("GET /product/{id}/balance", authMW(http.HandlerFunc(productsHandler.Balance)))
	mux.Handle("PUT /product/{id}/image", authMW(requireManager(http.HandlerFunc(productsHandler.UploadImage))))
	mux.Handle("GET /product/{id}/image", authMW(http.HandlerFunc(productsHandler.GetImage)))
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()
	Register(mux, db, jwtSecret)
	return mux
}
