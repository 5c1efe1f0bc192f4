package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/erazemk/estoque/internal/blogapi"
	"github.com/erazemk/estoque/internal/config"
	"github.com/erazemk/estoque/internal/db"
	"github.com/erazemk/estoque/internal/logging"
	"github.com/erazemk/estoque/internal/server"
)

var service = config.Service{
	Name:      "microblog",
	EnvPrefix: "MICROBLOG",
	Defaults: config.Config{
		DBPath: "microblog.sqlite3",
		Addr:   ":5000",
	},
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

	if err := db.Migrate(database, db.Microblog); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	metrics := server.NewMetrics(server.NewRegistry())
	handler := blogapi.NewRouter(database, metrics)

	slog.Info("starting", "db", cfg.DBPath, "addr", cfg.Addr)
	return server.Run(ctx, server.New(cfg.Addr, handler))
}
