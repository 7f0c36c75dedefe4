package payout

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL payout repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreatePayout(ctx context.Context, p *PayoutRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payout_requests
		  (id, vendor_id, amount, currency, status, bank_details)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.VendorID, p.Amount, p.Currency, p.Status, p.BankDetails)
	return err
}

func (r *postgresRepo) GetPayoutByID(ctx context.Context, id string) (*PayoutRequest, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return scanPayout(r.db.QueryRowContext(ctx, selectPayout+` WHERE id = $1`, uid))
}

func (r *postgresRepo) ListPayoutsByVendor(ctx context.Context, vendorID string) ([]*PayoutRequest, error) {
	return r.queryPayouts(ctx, selectPayout+` WHERE vendor_id = $1 ORDER BY created_at DESC`, vendorID)
}

func (r *postgresRepo) ListPayoutsByStatus(ctx context.Context, status string) ([]*PayoutRequest, error) {
	if status == "" {
		return r.queryPayouts(ctx, selectPayout+` ORDER BY created_at DESC`)
	}
	return r.queryPayouts(ctx, selectPayout+` WHERE status = $1 ORDER BY created_at DESC`, status)
}

func (r *postgresRepo) UpdatePayout(ctx context.Context, p *PayoutRequest) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payout_requests
		SET status = $1, admin_note = $2, transaction_reference = $3, receipt_url = $4,
		    reviewed_at = $5, reviewed_by = $6, updated_at = $7
		WHERE id = $8`,
		p.Status, p.AdminNote, p.TransactionReference, p.ReceiptURL,
		p.ReviewedAt, p.ReviewedBy, time.Now(), p.ID)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

const selectPayout = `
	SELECT id, vendor_id, amount, currency, status, bank_details,
	       admin_note, transaction_reference, receipt_url,
	       reviewed_at, reviewed_by, created_at, updated_at
	FROM payout_requests`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayout(row rowScanner) (*PayoutRequest, error) {
	p := &PayoutRequest{}
	var reviewedBy, adminNote, txRef, receiptURL sql.NullString
	err := row.Scan(
		&p.ID, &p.VendorID, &p.Amount, &p.Currency, &p.Status, &p.BankDetails,
		&adminNote, &txRef, &receiptURL,
		&p.ReviewedAt, &reviewedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if reviewedBy.Valid {
		if uid, err := uuid.Parse(reviewedBy.String); err == nil {
			p.ReviewedBy = &uid
		}
	}
	p.AdminNote = adminNote.String
	p.TransactionReference = txRef.String
	p.ReceiptURL = receiptURL.String
	return p, nil
}

func (r *postgresRepo) queryPayouts(ctx context.Context, query string, args ...interface{}) ([]*PayoutRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payouts []*PayoutRequest
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}
