package store

import (
	"context"
	"database/sql"
	"fmt"

	appdb "github.com/erazemk/estoque/internal/db"
	"github.com/erazemk/estoque/internal/model"
)

const movementColumns = `id, amount, product, created_by, created_at, updated_at`

func movementTable(kind model.MovementKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown movement kind %q", kind)
	}
	return string(kind), nil
}

func scanMovement(s scanner, kind model.MovementKind) (*model.Movement, error) {
	m := &model.Movement{Kind: kind}
	if err := s.Scan(&m.ID, &m.Amount, &m.Product, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

// CreateMovement records a purchase, stock count or withdrawal.
// It does not touch the product's recorded total.
func CreateMovement(ctx context.Context, db *sql.DB, kind model.MovementKind, amount int, productID, createdBy int64) (*model.Movement, error) {
	table, err := movementTable(kind)
	if err != nil {
		return nil, err
	}
	if amount < kind.MinAmount() {
		return nil, fmt.Errorf("%s amount must be at least %d", kind, kind.MinAmount())
	}

	result, err := db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (amount, product, created_by) VALUES (?, ?, ?)`, table),
		amount, productID, createdBy,
	)
	if appdb.IsForeignKeyViolation(err) {
		return nil, fmt.Errorf("creating %s: product %d or created_by %d: %w", kind, productID, createdBy, ErrInvalidReference)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", kind, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting %s id: %w", kind, err)
	}

	return GetMovement(ctx, db, kind, id)
}

// GetMovement returns a movement by ID, or nil if it does not exist.
func GetMovement(ctx context.Context, db *sql.DB, kind model.MovementKind, id int64) (*model.Movement, error) {
	table, err := movementTable(kind)
	if err != nil {
		return nil, err
	}

	m, err := scanMovement(db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, movementColumns, table), id,
	), kind)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", kind, err)
	}
	return m, nil
}

// ListMovements returns every movement of a kind ordered by ID.
func ListMovements(ctx context.Context, db *sql.DB, kind model.MovementKind) ([]model.Movement, error) {
	table, err := movementTable(kind)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, movementColumns, table),
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	defer rows.Close()

	var movements []model.Movement
	for rows.Next() {
		m, err := scanMovement(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
		movements = append(movements, *m)
	}
	return movements, rows.Err()
}

// DeleteMovement physically removes a movement.
func DeleteMovement(ctx context.Context, db *sql.DB, kind model.MovementKind, id int64) error {
	table, err := movementTable(kind)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}
	return requireAffected(result, table, id)
}

// CountMovements returns the number of movements of a kind.
func CountMovements(ctx context.Context, db *sql.DB, kind model.MovementKind) (int, error) {
	table, err := movementTable(kind)
	if err != nil {
		return 0, err
	}

	var n int
	if err := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", kind, err)
	}
	return n, nil
}
