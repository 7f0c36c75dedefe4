package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateProduct(ctx context.Context, p *VendorProduct) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vendor_products
		  (id, vendor_id, category_id, name, description, sku, price, currency, is_controlled, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.VendorID, p.CategoryID, p.Name, p.Description, p.SKU,
		p.Price, p.Currency, p.IsControlled, p.Status)
	return err
}

func (r *postgresRepo) GetProductByID(ctx context.Context, id string) (*VendorProduct, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return scanProduct(r.db.QueryRowContext(ctx, selectProduct+` WHERE id = $1`, uid))
}

func (r *postgresRepo) ListProductsByVendor(ctx context.Context, vendorID string, status string) ([]*VendorProduct, error) {
	query := selectProduct + ` WHERE vendor_id = $1`
	args := []interface{}{vendorID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryProducts(ctx, query, args...)
}

func (r *postgresRepo) ListPublishedByCategory(ctx context.Context, categoryID string) ([]*VendorProduct, error) {
	return r.queryProducts(ctx,
		selectProduct+` WHERE category_id = $1 AND status = $2 ORDER BY created_at DESC`,
		categoryID, StatusPublished)
}

func (r *postgresRepo) UpdateProduct(ctx context.Context, p *VendorProduct) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE vendor_products
		SET name = $1, description = $2, sku = $3, price = $4, currency = $5,
		    status = $6, status_reason = $7, updated_at = $8
		WHERE id = $9`,
		p.Name, p.Description, p.SKU, p.Price, p.Currency,
		p.Status, p.StatusReason, time.Now(), p.ID)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

const selectProduct = `
	SELECT id, vendor_id, category_id, name, description, sku, price, currency,
	       is_controlled, status, status_reason, created_at, updated_at
	FROM vendor_products`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*VendorProduct, error) {
	p := &VendorProduct{}
	var statusReason sql.NullString
	err := row.Scan(
		&p.ID, &p.VendorID, &p.CategoryID, &p.Name, &p.Description, &p.SKU,
		&p.Price, &p.Currency, &p.IsControlled, &p.Status, &statusReason,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.StatusReason = statusReason.String
	return p, nil
}

func (r *postgresRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*VendorProduct, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*VendorProduct
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
