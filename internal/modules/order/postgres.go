package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, order_number, vendor_id, customer_id, status, fulfilment_method,
		   subtotal, vat, commission, total, currency, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		o.ID, o.OrderNumber, o.VendorID, o.CustomerID, o.Status, o.FulfilmentMethod,
		o.Subtotal, o.VAT, o.Commission, o.Total, o.Currency, o.Notes)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, line_total)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			item.ID, o.ID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+` WHERE id = $1`, uid))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID.String())
	return o, err
}

func (r *postgresRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+` WHERE order_number = $1`, orderNumber))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID.String())
	return o, err
}

func (r *postgresRepo) ListOrdersByVendor(ctx context.Context, vendorID string, status string) ([]*Order, error) {
	query := selectOrder + ` WHERE vendor_id = $1`
	args := []interface{}{vendorID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, args...)
}

func (r *postgresRepo) ListOrdersByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	return r.queryOrders(ctx, selectOrder+` WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (r *postgresRepo) UpdateOrder(ctx context.Context, o *Order) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, tracking_reference = $2, pickup_date = $3, pickup_slot = $4, updated_at = $5
		WHERE id = $6`,
		o.Status, o.TrackingReference, o.PickupDate, o.PickupSlot, time.Now(), o.ID)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

const selectOrder = `
	SELECT id, order_number, vendor_id, customer_id, status, fulfilment_method,
	       subtotal, vat, commission, total, currency,
	       tracking_reference, pickup_date, pickup_slot, notes, created_at, updated_at
	FROM orders`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*Order, error) {
	o := &Order{}
	var trackingRef, pickupSlot, notes sql.NullString
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.VendorID, &o.CustomerID, &o.Status, &o.FulfilmentMethod,
		&o.Subtotal, &o.VAT, &o.Commission, &o.Total, &o.Currency,
		&trackingRef, &o.PickupDate, &pickupSlot, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.TrackingReference = trackingRef.String
	o.PickupSlot = pickupSlot.String
	o.Notes = notes.String
	return o, nil
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) listItems(ctx context.Context, orderID string) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, line_total, created_at
		FROM order_items WHERE order_id = $1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
