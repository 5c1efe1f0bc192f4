package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/erazemk/estoque/internal/api"
	"github.com/erazemk/estoque/internal/auth"
	"github.com/erazemk/estoque/internal/config"
	"github.com/erazemk/estoque/internal/db"
	"github.com/erazemk/estoque/internal/logging"
	"github.com/erazemk/estoque/internal/model"
	"github.com/erazemk/estoque/internal/server"
	"github.com/erazemk/estoque/internal/store"
	"github.com/erazemk/estoque/internal/web"
)

var service = config.Service{
	Name:      "estoque",
	EnvPrefix: "ESTOQUE",
	Defaults: config.Config{
		DBPath:     "estoque.sqlite3",
		Addr:       ":8080",
		AdminEmail: "admin@example.com",
	},
	Admin: true,
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(service, os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cleanup, err := logging.Setup(service.Name, cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := run(context.Background(), cfg); err != nil {
		slog.Error("fatal", "error", err)
		cleanup()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(database, db.Inventory); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	if err := bootstrapAdmin(ctx, database, cfg.AdminEmail); err != nil {
		return err
	}

	secret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return err
	}

	metrics := server.NewMetrics(server.NewRegistry())

	mux := http.NewServeMux()
	api.Register(mux, database, secret)
	if err := web.Register(mux, database, secret); err != nil {
		return fmt.Errorf("setting up admin UI: %w", err)
	}
	mux.Handle("GET /metrics", metrics.Handler())

	handler := server.Chain(metrics.Instrument(mux), server.RequestID, server.AccessLog)

	slog.Info("starting", "db", cfg.DBPath, "addr", cfg.Addr)
	return server.Run(ctx, server.New(cfg.Addr, handler))
}

// bootstrapAdmin creates the first admin account on an empty database and
// prints its generated password once.
func bootstrapAdmin(ctx context.Context, database *sql.DB, email string) error {
	users, err := store.ListUsers(ctx, database)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	password, err := auth.RandomPassword()
	if err != nil {
		return fmt.Errorf("generating admin password: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := store.CreateUser(ctx, database, email, hash, model.RoleAdmin); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("admin account created", "email", email)
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Email:    %s\n", email)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("Change it with PUT /auth/password after logging in.")
	fmt.Println()
	return nil
}
