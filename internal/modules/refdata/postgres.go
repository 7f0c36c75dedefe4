package refdata

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL reference-data repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// ── Categories ───────────────────────────────────────────────────────────────

func (r *postgresRepo) CreateCategory(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description, is_controlled, is_active)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Description, c.IsControlled, c.IsActive)
	return err
}

func (r *postgresRepo) GetCategoryByID(ctx context.Context, id string) (*Category, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	c := &Category{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, name, description, is_controlled, is_active, created_at, updated_at
		FROM categories WHERE id = $1`, uid).Scan(
		&c.ID, &c.Name, &c.Description, &c.IsControlled, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, is_controlled, is_active, created_at, updated_at
		FROM categories WHERE is_active ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsControlled,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ── Fee matrix ───────────────────────────────────────────────────────────────

func (r *postgresRepo) UpsertFeeRule(ctx context.Context, f *FeeRule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fee_rules (id, category_id, commission_percent, min_fee, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (category_id) DO UPDATE
		SET commission_percent = EXCLUDED.commission_percent,
		    min_fee = EXCLUDED.min_fee,
		    is_active = EXCLUDED.is_active,
		    updated_at = $6`,
		f.ID, f.CategoryID, f.CommissionPercent, f.MinFee, f.IsActive, time.Now())
	return err
}

func (r *postgresRepo) GetFeeRuleByCategory(ctx context.Context, categoryID string) (*FeeRule, error) {
	f := &FeeRule{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, category_id, commission_percent, min_fee, is_active, created_at, updated_at
		FROM fee_rules WHERE category_id = $1 AND is_active`, categoryID).Scan(
		&f.ID, &f.CategoryID, &f.CommissionPercent, &f.MinFee, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *postgresRepo) ListFeeRules(ctx context.Context) ([]*FeeRule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category_id, commission_percent, min_fee, is_active, created_at, updated_at
		FROM fee_rules WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*FeeRule
	for rows.Next() {
		f := &FeeRule{}
		if err := rows.Scan(&f.ID, &f.CategoryID, &f.CommissionPercent, &f.MinFee,
			&f.IsActive, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, f)
	}
	return rules, rows.Err()
}

// ── VAT rules ────────────────────────────────────────────────────────────────

func (r *postgresRepo) UpsertVATRule(ctx context.Context, v *VATRule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vat_rules (id, category_id, rate_percent, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (category_id) DO UPDATE
		SET rate_percent = EXCLUDED.rate_percent,
		    is_active = EXCLUDED.is_active,
		    updated_at = $5`,
		v.ID, v.CategoryID, v.RatePercent, v.IsActive, time.Now())
	return err
}

func (r *postgresRepo) GetVATRuleByCategory(ctx context.Context, categoryID string) (*VATRule, error) {
	v := &VATRule{}
	var row *sql.Row
	if categoryID == "" {
		row = r.db.QueryRowContext(ctx, `
			SELECT id, category_id, rate_percent, is_active, created_at, updated_at
			FROM vat_rules WHERE category_id IS NULL AND is_active`)
	} else {
		row = r.db.QueryRowContext(ctx, `
			SELECT id, category_id, rate_percent, is_active, created_at, updated_at
			FROM vat_rules WHERE category_id = $1 AND is_active`, categoryID)
	}
	err := row.Scan(&v.ID, &v.CategoryID, &v.RatePercent, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *postgresRepo) ListVATRules(ctx context.Context) ([]*VATRule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category_id, rate_percent, is_active, created_at, updated_at
		FROM vat_rules WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*VATRule
	for rows.Next() {
		v := &VATRule{}
		if err := rows.Scan(&v.ID, &v.CategoryID, &v.RatePercent,
			&v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, v)
	}
	return rules, rows.Err()
}
