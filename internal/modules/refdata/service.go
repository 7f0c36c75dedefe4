package refdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound means the requested reference record does not exist.
var ErrNotFound = errors.New("reference data not found")

// DefaultVATRate applies when no VAT rule matches. 16% standard rate.
const DefaultVATRate = 0.16

// Resolver is the read-side consumed by the order module when computing totals.
type Resolver interface {
	// ResolveCommission returns the platform commission fraction for a category.
	ResolveCommission(ctx context.Context, categoryID string) (float64, error)

	// ResolveVATRate returns the VAT fraction for a category, falling back to
	// the default rule and then DefaultVATRate.
	ResolveVATRate(ctx context.Context, categoryID string) (float64, error)
}

// Service defines reference-data business logic.
type Service interface {
	Resolver

	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)

	UpsertFeeRule(ctx context.Context, req UpsertFeeRuleRequest) (*FeeRule, error)
	ListFeeRules(ctx context.Context) ([]*FeeRule, error)

	UpsertVATRule(ctx context.Context, req UpsertVATRuleRequest) (*VATRule, error)
	ListVATRules(ctx context.Context) ([]*VATRule, error)
}

type service struct{ repo Repository }

// NewService creates a new reference-data service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	c := &Category{
		ID:           uuid.New(),
		Name:         req.Name,
		Description:  req.Description,
		IsControlled: req.IsControlled,
		IsActive:     true,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("persist category: %w", err)
	}
	return c, nil
}

func (s *service) GetCategory(ctx context.Context, id string) (*Category, error) {
	c, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		return nil, err
	}
	return c, nil
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) UpsertFeeRule(ctx context.Context, req UpsertFeeRuleRequest) (*FeeRule, error) {
	if req.CommissionPercent < 0 || req.CommissionPercent >= 1 {
		return nil, fmt.Errorf("commission_percent must be a fraction in [0, 1)")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category_id: %w", err)
	}
	if _, err := s.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	f := &FeeRule{
		ID:                uuid.New(),
		CategoryID:        categoryID,
		CommissionPercent: req.CommissionPercent,
		MinFee:            req.MinFee,
		IsActive:          true,
	}
	if err := s.repo.UpsertFeeRule(ctx, f); err != nil {
		return nil, fmt.Errorf("persist fee rule: %w", err)
	}
	return f, nil
}

func (s *service) ListFeeRules(ctx context.Context) ([]*FeeRule, error) {
	return s.repo.ListFeeRules(ctx)
}

func (s *service) UpsertVATRule(ctx context.Context, req UpsertVATRuleRequest) (*VATRule, error) {
	if req.RatePercent < 0 || req.RatePercent >= 1 {
		return nil, fmt.Errorf("rate_percent must be a fraction in [0, 1)")
	}

	v := &VATRule{
		ID:          uuid.New(),
		RatePercent: req.RatePercent,
		IsActive:    true,
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %w", err)
		}
		if _, err := s.GetCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		v.CategoryID = &categoryID
	}

	if err := s.repo.UpsertVATRule(ctx, v); err != nil {
		return nil, fmt.Errorf("persist vat rule: %w", err)
	}
	return v, nil
}

func (s *service) ListVATRules(ctx context.Context) ([]*VATRule, error) {
	return s.repo.ListVATRules(ctx)
}

func (s *service) ResolveCommission(ctx context.Context, categoryID string) (float64, error) {
	f, err := s.repo.GetFeeRuleByCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil // no fee rule configured means no commission
		}
		return 0, err
	}
	return f.CommissionPercent, nil
}

func (s *service) ResolveVATRate(ctx context.Context, categoryID string) (float64, error) {
	v, err := s.repo.GetVATRuleByCategory(ctx, categoryID)
	if err == nil {
		return v.RatePercent, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// Fall back to the platform default rule.
	v, err = s.repo.GetVATRuleByCategory(ctx, "")
	if err == nil {
		return v.RatePercent, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return DefaultVATRate, nil
}
