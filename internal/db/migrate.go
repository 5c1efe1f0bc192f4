package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Schema names one of the embedded migration sets.
type Schema string

// Migration sets, one per service.
const (
	Inventory Schema = "inventory"
	Microblog Schema = "microblog"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies all pending migrations of the given schema. It is idempotent.
func Migrate(db *sql.DB, schema Schema) error {
	src, err := iofs.New(migrations, "migrations/"+string(schema))
	if err != nil {
		return fmt.Errorf("loading %s migrations: %w", schema, err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("preparing migration driver: %w", err)
	}

	// m.Close would close db through the driver, so only the source is released.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		src.Close()
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer src.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running %s migrations: %w", schema, err)
	}
	return nil
}
