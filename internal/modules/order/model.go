package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/armoredmart/armoredmart-backend/internal/transition"
)

// OrderStatus represents the lifecycle state of a marketplace order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusProcessing     OrderStatus = "PROCESSING"
	StatusShipped        OrderStatus = "SHIPPED"
	StatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCollected      OrderStatus = "COLLECTED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

// FulfilmentMethod indicates how the order reaches the customer.
type FulfilmentMethod string

const (
	FulfilDelivery FulfilmentMethod = "DELIVERY"
	FulfilPickup   FulfilmentMethod = "PICKUP"
)

// Order lifecycle actions.
const (
	ActionConfirm = "confirm"
	ActionProcess = "process"
	ActionShip    = "ship"
	ActionReady   = "ready"
	ActionDeliver = "deliver"
	ActionCollect = "collect"
	ActionCancel  = "cancel"
)

// statusRegistry governs the order state machine. Shipping requires a tracking
// reference; DELIVERED, COLLECTED and CANCELLED are terminal.
var statusRegistry = transition.Registry[OrderStatus]{
	StatusPending: {
		{Action: ActionConfirm, Target: StatusConfirmed},
		{Action: ActionCancel, Target: StatusCancelled},
	},
	StatusConfirmed: {
		{Action: ActionProcess, Target: StatusProcessing},
		{Action: ActionCancel, Target: StatusCancelled},
	},
	StatusProcessing: {
		{Action: ActionShip, Target: StatusShipped, RequiredField: "tracking_reference"},
		{Action: ActionReady, Target: StatusReadyForPickup},
	},
	StatusShipped: {
		{Action: ActionDeliver, Target: StatusDelivered},
	},
	StatusReadyForPickup: {
		{Action: ActionCollect, Target: StatusCollected},
	},
	StatusDelivered: {},
	StatusCollected: {},
	StatusCancelled: {},
}

// Order represents a customer's order against a single vendor.
type Order struct {
	ID                uuid.UUID        `json:"id"`
	OrderNumber       string           `json:"order_number"`
	VendorID          uuid.UUID        `json:"vendor_id"`
	CustomerID        uuid.UUID        `json:"customer_id"`
	Status            OrderStatus      `json:"status"`
	FulfilmentMethod  FulfilmentMethod `json:"fulfilment_method"`
	Subtotal          float64          `json:"subtotal"`
	VAT               float64          `json:"vat"`
	Commission        float64          `json:"commission"` // platform fee owed by the vendor
	Total             float64          `json:"total"`
	Currency          string           `json:"currency"`
	TrackingReference string           `json:"tracking_reference,omitempty"`
	PickupDate        *time.Time       `json:"pickup_date,omitempty"`
	PickupSlot        string           `json:"pickup_slot,omitempty"` // e.g. "09:00-12:00"
	Notes             string           `json:"notes,omitempty"`
	Items             []*OrderItem     `json:"items,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// OrderItem is a single line item within an order.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	LineTotal float64   `json:"line_total"`
	CreatedAt time.Time `json:"created_at"`
}

// CartItem is a transient struct describing what a customer wants at checkout.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest is the payload for creating a new order.
type PlaceOrderRequest struct {
	CustomerID       string     `json:"customer_id"`
	FulfilmentMethod string     `json:"fulfilment_method,omitempty"` // defaults to DELIVERY
	Items            []CartItem `json:"items"`
	Notes            string     `json:"notes,omitempty"`
}

// OrderActionRequest is the payload for advancing an order's status.
type OrderActionRequest struct {
	Action            string `json:"action"`
	TrackingReference string `json:"tracking_reference,omitempty"`
}

// SchedulePickupRequest is the payload for booking a pickup slot.
type SchedulePickupRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
	Slot string `json:"slot"` // e.g. "09:00-12:00"
}
