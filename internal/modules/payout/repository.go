package payout

import "context"

// Repository defines data access for payout requests.
type Repository interface {
	// CreatePayout persists a new payout request.
	CreatePayout(ctx context.Context, p *PayoutRequest) error

	// GetPayoutByID retrieves a payout request by UUID.
	GetPayoutByID(ctx context.Context, id string) (*PayoutRequest, error)

	// ListPayoutsByVendor returns all payout requests for a vendor, newest first.
	ListPayoutsByVendor(ctx context.Context, vendorID string) ([]*PayoutRequest, error)

	// ListPayoutsByStatus returns payout requests filtered by status;
	// an empty status returns all.
	ListPayoutsByStatus(ctx context.Context, status string) ([]*PayoutRequest, error)

	// UpdatePayout overwrites the stored payout with the given value.
	// Last write wins; there is no version check.
	UpdatePayout(ctx context.Context, p *PayoutRequest) error
}
