package store

import (
	"context"
	"testing"

	"github.com/erazemk/estoque/internal/db"
)

func TestGetJWTSecret_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t, db.Inventory)
	ctx := context.Background()

	secret1, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	// Second call should return the same secret.
	secret2, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestEnsureSettingKeepsFirstValue(t *testing.T) {
	database := db.NewTestDB(t, db.Inventory)
	ctx := context.Background()

	v, err := EnsureSetting(ctx, database, "site_name", "estoque")
	if err != nil {
		t.Fatalf("EnsureSetting: %v", err)
	}
	if v != "estoque" {
		t.Errorf("expected 'estoque', got %q", v)
	}

	v, _ = EnsureSetting(ctx, database, "site_name", "other")
	if v != "estoque" {
		t.Errorf("expected first value to win, got %q", v)
	}
}
