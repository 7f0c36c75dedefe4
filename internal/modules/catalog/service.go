package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/armoredmart/armoredmart-backend/internal/modules/refdata"
	"github.com/armoredmart/armoredmart-backend/internal/modules/vendor"
	"github.com/armoredmart/armoredmart-backend/internal/transition"
)

// ErrNotFound means no vendor product exists for the given identifier.
var ErrNotFound = errors.New("vendor product not found")

// ErrVendorNotEligible means the vendor's account or onboarding status does
// not permit the requested catalog operation.
var ErrVendorNotEligible = errors.New("vendor not eligible")

// Service defines catalog business logic.
type Service interface {
	// CreateProduct creates a DRAFT listing. The category's controlled flag is
	// snapshotted onto the product.
	CreateProduct(ctx context.Context, req CreateProductRequest) (*VendorProduct, error)

	// GetProduct retrieves a vendor product by UUID.
	GetProduct(ctx context.Context, id string) (*VendorProduct, error)

	// ListVendorProducts returns a vendor's products, optionally by status.
	ListVendorProducts(ctx context.Context, vendorID string, status string) ([]*VendorProduct, error)

	// ListPublished returns published products in a category.
	ListPublished(ctx context.Context, categoryID string) ([]*VendorProduct, error)

	// ApplyAction moves a listing through its lifecycle. Publishing checks the
	// vendor's onboarding status: any publish needs a general approval and an
	// active account; controlled products need the controlled approval.
	ApplyAction(ctx context.Context, id string, caller transition.Caller, req ProductActionRequest) (*VendorProduct, error)
}

type service struct {
	repo       Repository
	vendorRepo vendor.Repository
	categories refdata.Service
}

// NewService creates a new catalog service.
func NewService(repo Repository, vendorRepo vendor.Repository, categories refdata.Service) Service {
	return &service{repo: repo, vendorRepo: vendorRepo, categories: categories}
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*VendorProduct, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("price must be greater than 0")
	}
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("invalid vendor_id: %w", err)
	}

	if _, err := s.lookupVendor(ctx, req.VendorID); err != nil {
		return nil, err
	}

	category, err := s.categories.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "ZMW"
	}

	p := &VendorProduct{
		ID:           uuid.New(),
		VendorID:     vendorID,
		CategoryID:   category.ID,
		Name:         req.Name,
		Description:  req.Description,
		SKU:          req.SKU,
		Price:        req.Price,
		Currency:     currency,
		IsControlled: category.IsControlled,
		Status:       StatusDraft,
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("persist vendor product: %w", err)
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*VendorProduct, error) {
	return s.lookup(ctx, id)
}

func (s *service) ListVendorProducts(ctx context.Context, vendorID string, status string) ([]*VendorProduct, error) {
	return s.repo.ListProductsByVendor(ctx, vendorID, strings.ToUpper(status))
}

func (s *service) ListPublished(ctx context.Context, categoryID string) ([]*VendorProduct, error) {
	return s.repo.ListPublishedByCategory(ctx, categoryID)
}

func (s *service) ApplyAction(ctx context.Context, id string, caller transition.Caller, req ProductActionRequest) (*VendorProduct, error) {
	p, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	rule, err := statusRegistry.Apply(p.Status, caller, req.Action, map[string]string{
		"reason": req.Reason,
	})
	if err != nil {
		return nil, err
	}

	if rule.Target == StatusPublished {
		if err := s.checkPublishEligibility(ctx, p); err != nil {
			return nil, err
		}
	}

	updated := *p
	updated.Status = rule.Target
	if rule.RequiredField == "reason" {
		updated.StatusReason = strings.TrimSpace(req.Reason)
	} else {
		updated.StatusReason = ""
	}

	if err := s.repo.UpdateProduct(ctx, &updated); err != nil {
		return nil, fmt.Errorf("persist vendor product: %w", err)
	}
	return &updated, nil
}

// checkPublishEligibility enforces the onboarding gate: a listing only goes
// live for an active, approved vendor, and controlled products only for
// vendors holding the controlled approval.
func (s *service) checkPublishEligibility(ctx context.Context, p *VendorProduct) error {
	acc, err := s.lookupVendor(ctx, p.VendorID.String())
	if err != nil {
		return err
	}
	if acc.AccountStatus != vendor.AccountActive {
		return fmt.Errorf("%w: account is %s", ErrVendorNotEligible, acc.AccountStatus)
	}
	if p.IsControlled {
		if acc.OnboardingStatus != vendor.OnboardingApprovedControlled {
			return fmt.Errorf("%w: controlled products require controlled approval (current: %s)",
				ErrVendorNotEligible, acc.OnboardingStatus)
		}
		return nil
	}
	switch acc.OnboardingStatus {
	case vendor.OnboardingApprovedGeneral, vendor.OnboardingApprovedControlled:
		return nil
	default:
		return fmt.Errorf("%w: onboarding status is %s", ErrVendorNotEligible, acc.OnboardingStatus)
	}
}

func (s *service) lookup(ctx context.Context, id string) (*VendorProduct, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return p, nil
}

func (s *service) lookupVendor(ctx context.Context, vendorID string) (*vendor.VendorAccount, error) {
	acc, err := s.vendorRepo.GetAccountByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: vendor %s", ErrNotFound, vendorID)
		}
		return nil, err
	}
	return acc, nil
}
