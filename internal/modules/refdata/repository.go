package refdata

import "context"

// Repository defines data access for reference data.
type Repository interface {
	// CreateCategory persists a new category.
	CreateCategory(ctx context.Context, c *Category) error

	// GetCategoryByID retrieves a category by UUID.
	GetCategoryByID(ctx context.Context, id string) (*Category, error)

	// ListCategories returns all active categories.
	ListCategories(ctx context.Context) ([]*Category, error)

	// UpsertFeeRule inserts or replaces the fee rule for a category.
	UpsertFeeRule(ctx context.Context, f *FeeRule) error

	// GetFeeRuleByCategory returns the active fee rule for a category.
	GetFeeRuleByCategory(ctx context.Context, categoryID string) (*FeeRule, error)

	// ListFeeRules returns all active fee rules.
	ListFeeRules(ctx context.Context) ([]*FeeRule, error)

	// UpsertVATRule inserts or replaces a VAT rule. A nil category is the default.
	UpsertVATRule(ctx context.Context, v *VATRule) error

	// GetVATRuleByCategory returns the active VAT rule for a category; pass an
	// empty categoryID for the default rule.
	GetVATRuleByCategory(ctx context.Context, categoryID string) (*VATRule, error)

	// ListVATRules returns all active VAT rules.
	ListVATRules(ctx context.Context) ([]*VATRule, error)
}
