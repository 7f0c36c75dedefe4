package refdata

import (
	"time"

	"github.com/google/uuid"
)

// Category is a product category in the marketplace taxonomy. Controlled
// categories require the vendor to hold a controlled-items approval.
type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	IsControlled bool      `json:"is_controlled"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FeeRule is one row of the fee matrix: the platform commission charged on
// sales in a category.
type FeeRule struct {
	ID                uuid.UUID `json:"id"`
	CategoryID        uuid.UUID `json:"category_id"`
	CommissionPercent float64   `json:"commission_percent"` // 0.08 = 8%
	MinFee            float64   `json:"min_fee,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// VATRule maps a category to its VAT rate. A rule with a nil category is the
// platform default.
type VATRule struct {
	ID          uuid.UUID  `json:"id"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	RatePercent float64    `json:"rate_percent"` // 0.16 = 16%
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	IsControlled bool   `json:"is_controlled,omitempty"`
}

// UpsertFeeRuleRequest is the payload for setting a category's commission.
type UpsertFeeRuleRequest struct {
	CategoryID        string  `json:"category_id"`
	CommissionPercent float64 `json:"commission_percent"`
	MinFee            float64 `json:"min_fee,omitempty"`
}

// UpsertVATRuleRequest is the payload for setting a VAT rate. Omit category_id
// to set the platform default.
type UpsertVATRuleRequest struct {
	CategoryID  string  `json:"category_id,omitempty"`
	RatePercent float64 `json:"rate_percent"`
}
