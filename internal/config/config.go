// Package config reads service settings from flags, the environment and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings shared by both services.
type Config struct {
	DBPath     string
	Addr       string
	LogPath    string
	AdminEmail string
}

// Service describes a binary's name, environment prefix and built-in defaults.
type Service struct {
	Name      string
	EnvPrefix string
	Defaults  Config
	// Admin enables the -u/-admin flag for services with user accounts.
	Admin bool
}

// LoadDotEnv loads variables from path into the environment without
// overriding ones that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load parses args into a Config. Flag defaults come from <PREFIX>_DB,
// <PREFIX>_ADDR, <PREFIX>_LOG and <PREFIX>_ADMIN, falling back to the
// service defaults. It returns flag.ErrHelp when -h is given.
func Load(svc Service, args []string, usage io.Writer) (*Config, error) {
	cfg := Config{
		DBPath:     env(svc.EnvPrefix+"_DB", svc.Defaults.DBPath),
		Addr:       env(svc.EnvPrefix+"_ADDR", svc.Defaults.Addr),
		LogPath:    env(svc.EnvPrefix+"_LOG", svc.Defaults.LogPath),
		AdminEmail: env(svc.EnvPrefix+"_ADMIN", svc.Defaults.AdminEmail),
	}

	fset := flag.NewFlagSet(svc.Name, flag.ContinueOnError)
	fset.SetOutput(usage)

	fset.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fset.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")

	fset.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fset.StringVar(&cfg.Addr, "a", cfg.Addr, "")

	fset.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fset.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	if svc.Admin {
		fset.StringVar(&cfg.AdminEmail, "admin", cfg.AdminEmail, "")
		fset.StringVar(&cfg.AdminEmail, "u", cfg.AdminEmail, "")
	}

	fset.Usage = func() { fmt.Fprint(usage, svc.usage(cfg)) }

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if fset.NArg() > 0 {
		fset.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fset.Arg(0))
	}

	return &cfg, nil
}

func (svc Service) usage(cfg Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [flags]\n\nFlags:\n", svc.Name)
	fmt.Fprintf(&b, "  -d, -db <path>          SQLite database path (default: %s, env %s_DB)\n", cfg.DBPath, svc.EnvPrefix)
	fmt.Fprintf(&b, "  -a, -addr <host:port>   listen address (default: %s, env %s_ADDR)\n", cfg.Addr, svc.EnvPrefix)
	if svc.Admin {
		fmt.Fprintf(&b, "  -u, -admin <email>      admin email on first run (default: %s, env %s_ADMIN)\n", cfg.AdminEmail, svc.EnvPrefix)
	}
	fmt.Fprintf(&b, "  -l, -log <path>         log file path (default: stdout/stderr only, env %s_LOG)\n", svc.EnvPrefix)
	fmt.Fprintf(&b, "  -h, -help               show this help and exit\n")
	return b.String()
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
