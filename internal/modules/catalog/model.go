package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/armoredmart/armoredmart-backend/internal/transition"
)

// ProductStatus represents the lifecycle state of a vendor product listing.
type ProductStatus string

const (
	StatusDraft         ProductStatus = "DRAFT"
	StatusPendingReview ProductStatus = "PENDING_REVIEW"
	StatusPublished     ProductStatus = "PUBLISHED"
	StatusDelisted      ProductStatus = "DELISTED"
)

// Listing actions.
const (
	ActionSubmit  = "submit"
	ActionPublish = "publish"
	ActionReject  = "reject"
	ActionDelist  = "delist"
	ActionRelist  = "relist"
)

// statusRegistry governs the product listing state machine.
var statusRegistry = transition.Registry[ProductStatus]{
	StatusDraft: {
		{Action: ActionSubmit, Target: StatusPendingReview},
	},
	StatusPendingReview: {
		{Action: ActionPublish, Target: StatusPublished},
		{Action: ActionReject, Target: StatusDraft, RequiredField: "reason"},
	},
	StatusPublished: {
		{Action: ActionDelist, Target: StatusDelisted, RequiredField: "reason"},
	},
	StatusDelisted: {
		{Action: ActionRelist, Target: StatusPublished},
	},
}

// VendorProduct is a product listed by a vendor in the marketplace catalog.
type VendorProduct struct {
	ID           uuid.UUID     `json:"id"`
	VendorID     uuid.UUID     `json:"vendor_id"`
	CategoryID   uuid.UUID     `json:"category_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	SKU          string        `json:"sku,omitempty"`
	Price        float64       `json:"price"`
	Currency     string        `json:"currency"`
	IsControlled bool          `json:"is_controlled"` // snapshot of the category's controlled flag
	Status       ProductStatus `json:"status"`
	StatusReason string        `json:"status_reason,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// CreateProductRequest holds the data for creating a vendor product.
type CreateProductRequest struct {
	VendorID    string  `json:"vendor_id"`
	CategoryID  string  `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	SKU         string  `json:"sku,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency,omitempty"` // defaults to ZMW
}

// ProductActionRequest is the payload for moving a listing through its lifecycle.
type ProductActionRequest struct {
	Action string `json:"action"` // submit | publish | reject | delist | relist
	Reason string `json:"reason,omitempty"`
}
