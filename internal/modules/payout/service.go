package payout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/armoredmart/armoredmart-backend/internal/modules/vendor"
	"github.com/armoredmart/armoredmart-backend/internal/transition"
)

// ErrNotFound means no payout request exists for the given identifier.
var ErrNotFound = errors.New("payout request not found")

// ErrVendorNotEligible means the vendor is not approved/active enough to
// request a payout.
var ErrVendorNotEligible = errors.New("vendor not eligible for payouts")

// Service defines payout business logic.
type Service interface {
	// RequestPayout creates a PENDING payout request for an approved, active vendor.
	RequestPayout(ctx context.Context, req CreatePayoutRequest) (*PayoutRequest, error)

	// GetPayout retrieves a payout request by UUID.
	GetPayout(ctx context.Context, id string) (*PayoutRequest, error)

	// ListByVendor returns all payout requests for a vendor.
	ListByVendor(ctx context.Context, vendorID string) ([]*PayoutRequest, error)

	// ListByStatus returns payout requests, optionally filtered by status.
	ListByStatus(ctx context.Context, status string) ([]*PayoutRequest, error)

	// Review applies one finance decision (approve, paid, reject) to a payout.
	Review(ctx context.Context, id string, caller transition.Caller, req ReviewPayoutRequest) (*PayoutRequest, error)
}

type service struct {
	repo       Repository
	vendorRepo vendor.Repository
}

// NewService creates a new payout service.
func NewService(repo Repository, vendorRepo vendor.Repository) Service {
	return &service{repo: repo, vendorRepo: vendorRepo}
}

func (s *service) RequestPayout(ctx context.Context, req CreatePayoutRequest) (*PayoutRequest, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than 0")
	}
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("invalid vendor_id: %w", err)
	}

	acc, err := s.vendorRepo.GetAccountByID(ctx, req.VendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: vendor %s", ErrNotFound, req.VendorID)
		}
		return nil, err
	}
	if acc.AccountStatus != vendor.AccountActive {
		return nil, fmt.Errorf("%w: account is %s", ErrVendorNotEligible, acc.AccountStatus)
	}
	switch acc.OnboardingStatus {
	case vendor.OnboardingApprovedGeneral, vendor.OnboardingApprovedControlled:
	default:
		return nil, fmt.Errorf("%w: onboarding status is %s", ErrVendorNotEligible, acc.OnboardingStatus)
	}

	currency := req.Currency
	if currency == "" {
		currency = "ZMW"
	}

	p := &PayoutRequest{
		ID:          uuid.New(),
		VendorID:    vendorID,
		Amount:      req.Amount,
		Currency:    currency,
		Status:      StatusPending,
		BankDetails: req.BankDetails,
	}

	if err := s.repo.CreatePayout(ctx, p); err != nil {
		return nil, fmt.Errorf("persist payout request: %w", err)
	}
	return p, nil
}

func (s *service) GetPayout(ctx context.Context, id string) (*PayoutRequest, error) {
	return s.lookup(ctx, id)
}

func (s *service) ListByVendor(ctx context.Context, vendorID string) ([]*PayoutRequest, error) {
	return s.repo.ListPayoutsByVendor(ctx, vendorID)
}

func (s *service) ListByStatus(ctx context.Context, status string) ([]*PayoutRequest, error) {
	return s.repo.ListPayoutsByStatus(ctx, strings.ToUpper(status))
}

func (s *service) Review(ctx context.Context, id string, caller transition.Caller, req ReviewPayoutRequest) (*PayoutRequest, error) {
	p, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	rule, err := statusRegistry.Apply(p.Status, caller, req.Action, map[string]string{
		"transaction_reference": req.TransactionReference,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updated := *p
	updated.Status = rule.Target
	updated.ReviewedAt = &now
	updated.ReviewedBy = &caller.ID
	updated.AdminNote = req.Note
	if rule.Target == StatusPaid {
		updated.TransactionReference = strings.TrimSpace(req.TransactionReference)
		updated.ReceiptURL = req.ReceiptURL
	}

	if err := s.repo.UpdatePayout(ctx, &updated); err != nil {
		return nil, fmt.Errorf("persist payout request: %w", err)
	}
	return &updated, nil
}

func (s *service) lookup(ctx context.Context, id string) (*PayoutRequest, error) {
	p, err := s.repo.GetPayoutByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return p, nil
}
