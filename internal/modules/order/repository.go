package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and its items atomically in a transaction.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items by UUID.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable order number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListOrdersByVendor returns all orders for a vendor, optionally by status.
	ListOrdersByVendor(ctx context.Context, vendorID string, status string) ([]*Order, error)

	// ListOrdersByCustomer returns all orders placed by a customer.
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]*Order, error)

	// UpdateOrder overwrites the stored order's mutable fields (status,
	// tracking, pickup slot). Items are immutable after creation.
	UpdateOrder(ctx context.Context, o *Order) error
}
