package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/estoque/internal/db"
	"github.com/erazemk/estoque/internal/model"
)

func TestCreateAndListMovements(t *testing.T) {
	database := db.NewTestDB(t, db.Inventory)
	ctx := context.Background()
	user := newTestUser(t, database)
	p := newTestProduct(t, database, user.ID, "Nails", 0, 0)

	for _, kind := range model.MovementKinds {
		m, err := CreateMovement(ctx, database, kind, 4, p.ID, user.ID)
		if err != nil {
			t.Fatalf("CreateMovement(%s): %v", kind, err)
		}
		if m.Kind != kind || m.Amount != 4 || m.Product != p.ID || m.CreatedBy != user.ID {
			t.Errorf("unexpected %s movement: %+v", kind, m)
		}

		list, err := ListMovements(ctx, database, kind)
		if err != nil {
			t.Fatalf("ListMovements(%s): %v", kind, err)
		}
		if len(list) != 1 {
			t.Errorf("expected 1 %s movement, got %d", kind, len(list))
		}

		n, _ := CountMovements(ctx, database, kind)
		if n != 1 {
			t.Errorf("expected count 1 for %s, got %d", kind, n)
		}
	}
}

func TestCreateMovementDoesNotTouchTotal(t *testing.T) {
	database := db.NewTestDB(t, db.Inventory)
	ctx := context.Background()
	user := newTestUser(t, database)
	p := newTestProduct(t, database, user.ID, "Wire", 0, 3)

	CreateMovement(ctx, database, model.KindShopping, 50, p.ID, user.ID)

	got, _ := GetProduct(ctx, database, p.ID)
	if got.AmountTotal != 3 {
		t.Errorf("expected amount_total to stay 3, got %d", got.AmountTotal)
	}
}

func TestCreateMovementValidation(t *testing.T) {
	database := db.NewTestDB(t, db.Inventory)
	ctx := context.Background()
	user := newTestUser(t, database)
	p := newTestProduct(t, database, user.ID, "Pipes", 0, 0)

	if _, err := CreateMovement(ctx, database, model.KindShopping, 0, p.ID, user.ID); err == nil {
		t.Error("expected error for zero purchase")
	}
	if _, err := CreateMovement(ctx, database, model.KindOutput, -2, p.ID, user.ID); err == nil {
		t.Error("expected error for negative withdrawal")
	}
	if _, err := CreateMovement(ctx, database, model.KindScore, 0, p.ID, user.ID); err != nil {
		t.Errorf("expected zero stock count to be accepted, got %v", err)
	}
	if _, err := CreateMovement(ctx, database, model.MovementKind("refund"), 1, p.ID, user.ID); err == nil {
		t.Error("expected error for unknown kind")
	}

	_, err := CreateMovement(ctx, database, model.KindShopping, 1, 999, user.ID)
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference for missing product, got %v", err)
	}
}

func TestGetAndDeleteMovement(t *testing.T) {
	database := db.NewTestDB(t, db.Inventory)
	ctx := context.Background()
	user := newTestUser(t, database)
	p := newTestProduct(t, database, user.ID, "Hinges", 0, 0)

	m, _ := CreateMovement(ctx, database, model.KindOutput, 2, p.ID, user.ID)

	got, err := GetMovement(ctx, database, model.KindOutput, m.ID)
	if err != nil {
		t.Fatalf("GetMovement: %v", err)
	}
	if got == nil || got.Amount != 2 {
		t.Fatalf("unexpected movement: %+v", got)
	}

	// Same ID in another table does not exist.
	other, _ := GetMovement(ctx, database, model.KindShopping, m.ID)
	if other != nil {
		t.Error("expected nil for movement in another table")
	}

	if err := DeleteMovement(ctx, database, model.KindOutput, m.ID); err != nil {
		t.Fatalf("DeleteMovement: %v", err)
	}
	if err := DeleteMovement(ctx, database, model.KindOutput, m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Product can be deleted once its movements are gone.
	if err := DeleteProduct(ctx, database, p.ID); err != nil {
		t.Errorf("DeleteProduct: %v", err)
	}
}
