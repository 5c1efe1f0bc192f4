package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	appdb "github.com/erazemk/estoque/internal/db"
	"github.com/erazemk/estoque/internal/model"
)

const productColumns = `id, name, description, amount_min, amount_total, image_mime,
	created_by, created_at, updated_at`

func scanProduct(s scanner) (*model.Product, error) {
	p := &model.Product{}
	var imageMime sql.NullString
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.AmountMin, &p.AmountTotal, &imageMime,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ImageMime = imageMime.String
	return p, nil
}

// CreateProduct inserts a product and returns the stored row.
func CreateProduct(ctx context.Context, db *sql.DB, p *model.Product) (*model.Product, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO product (name, description, amount_min, amount_total, created_by)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.AmountMin, p.AmountTotal, p.CreatedBy,
	)
	if appdb.IsForeignKeyViolation(err) {
		return nil, fmt.Errorf("creating product: created_by %d: %w", p.CreatedBy, ErrInvalidReference)
	}
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting product id: %w", err)
	}

	return GetProduct(ctx, db, id)
}

// GetProduct returns a product by ID, or nil if it does not exist.
func GetProduct(ctx context.Context, db *sql.DB, id int64) (*model.Product, error) {
	p, err := scanProduct(db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM product WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// ListProducts returns every product ordered by ID.
func ListProducts(ctx context.Context, db *sql.DB) ([]model.Product, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM product ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// DeleteProduct removes a product. Fails with ErrInUse while any movement references it.
func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM shopping WHERE product = ?)
		      + (SELECT COUNT(*) FROM score WHERE product = ?)
		      + (SELECT COUNT(*) FROM output WHERE product = ?)`,
		id, id, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking product movements: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("deleting product %d: %d movements: %w", id, count, ErrInUse)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM product WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return requireAffected(result, "product", id)
}

// SetProductImage stores a product's image data.
func SetProductImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE product SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting product image: %w", err)
	}
	return requireAffected(result, "product", id)
}

// GetProductImage returns a product's image data and MIME type.
func GetProductImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM product WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting product image: %w", err)
	}
	return image, mime.String, nil
}

// GetStockBalance computes purchases minus outputs for a product and compares
// the result with its recorded total and latest stock count.
func GetStockBalance(ctx context.Context, db *sql.DB, id int64) (*model.StockBalance, error) {
	b := &model.StockBalance{Product: id}
	err := db.QueryRowContext(ctx,
		`SELECT p.amount_total,
		        (SELECT COALESCE(SUM(amount), 0) FROM shopping WHERE product = p.id),
		        (SELECT COALESCE(SUM(amount), 0) FROM output WHERE product = p.id)
		 FROM product p WHERE p.id = ?`, id,
	).Scan(&b.AmountTotal, &b.Purchased, &b.Withdrawn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("summing movements: %w", err)
	}
	b.Expected = b.Purchased - b.Withdrawn

	var count int
	var countedAt time.Time
	err = db.QueryRowContext(ctx,
		`SELECT amount, created_at FROM score WHERE product = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`, id,
	).Scan(&count, &countedAt)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("getting latest stock count: %w", err)
	default:
		b.LastCount = &count
		b.LastCountAt = &countedAt
	}

	b.Consistent = b.AmountTotal == b.Expected && (b.LastCount == nil || *b.LastCount == b.Expected)
	return b, nil
}

// CountProducts returns the number of products.
func CountProducts(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM product`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return n, nil
}

func requireAffected(result sql.Result, table string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	return nil
}
