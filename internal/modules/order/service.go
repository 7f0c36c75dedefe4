package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/armoredmart/armoredmart-backend/internal/modules/catalog"
	"github.com/armoredmart/armoredmart-backend/internal/modules/refdata"
	"github.com/armoredmart/armoredmart-backend/internal/transition"
)

// ErrNotFound means no order exists for the given identifier.
var ErrNotFound = errors.New("order not found")

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder validates the cart against the catalog, computes totals with
	// VAT and commission from reference data, and persists the order.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	// GetOrder retrieves a full order with its items by UUID.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListVendorOrders returns all orders for a vendor, optionally by status.
	ListVendorOrders(ctx context.Context, vendorID string, status string) ([]*Order, error)

	// ListCustomerOrders returns all orders placed by a customer.
	ListCustomerOrders(ctx context.Context, customerID string) ([]*Order, error)

	// ApplyAction advances an order through its lifecycle. Marking a pickup
	// order ready requires a scheduled pickup slot.
	ApplyAction(ctx context.Context, id string, caller transition.Caller, req OrderActionRequest) (*Order, error)

	// SchedulePickup books a pickup date and slot on a PICKUP order. Allowed
	// while the order is confirmed or processing.
	SchedulePickup(ctx context.Context, id string, req SchedulePickupRequest) (*Order, error)
}

type service struct {
	repo     Repository
	products catalog.Repository
	rates    refdata.Resolver
}

// NewService creates a new order service.
func NewService(repo Repository, products catalog.Repository, rates refdata.Resolver) Service {
	return &service{repo: repo, products: products, rates: rates}
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer_id: %w", err)
	}

	method := FulfilmentMethod(strings.ToUpper(req.FulfilmentMethod))
	switch method {
	case FulfilDelivery, FulfilPickup:
	case "":
		method = FulfilDelivery
	default:
		return nil, fmt.Errorf("unknown fulfilment_method: %s", req.FulfilmentMethod)
	}

	// ── Build items from published listings; all must share one vendor ────────
	var items []*OrderItem
	var vendorID uuid.UUID
	var subtotal, vat, commission float64
	currency := ""

	for _, ci := range req.Items {
		if ci.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be > 0 for product %s", ci.ProductID)
		}
		p, err := s.products.GetProductByID(ctx, ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", ci.ProductID)
		}
		if p.Status != catalog.StatusPublished {
			return nil, fmt.Errorf("product %s is not available", ci.ProductID)
		}
		if vendorID == (uuid.UUID{}) {
			vendorID = p.VendorID
			currency = p.Currency
		} else if p.VendorID != vendorID {
			return nil, fmt.Errorf("all items must belong to the same vendor")
		}

		lineTotal := p.Price * float64(ci.Quantity)
		subtotal += lineTotal

		vatRate, err := s.rates.ResolveVATRate(ctx, p.CategoryID.String())
		if err != nil {
			return nil, fmt.Errorf("resolve vat rate: %w", err)
		}
		vat += lineTotal * vatRate

		feeRate, err := s.rates.ResolveCommission(ctx, p.CategoryID.String())
		if err != nil {
			return nil, fmt.Errorf("resolve commission: %w", err)
		}
		commission += lineTotal * feeRate

		items = append(items, &OrderItem{
			ID:        uuid.New(),
			ProductID: p.ID,
			Quantity:  ci.Quantity,
			UnitPrice: p.Price,
			LineTotal: lineTotal,
		})
	}

	o := &Order{
		ID:               uuid.New(),
		OrderNumber:      generateOrderNumber(),
		VendorID:         vendorID,
		CustomerID:       customerID,
		Status:           StatusPending,
		FulfilmentMethod: method,
		Subtotal:         round2(subtotal),
		VAT:              round2(vat),
		Commission:       round2(commission),
		Total:            round2(subtotal + vat),
		Currency:         currency,
		Notes:            req.Notes,
		Items:            items,
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.lookup(ctx, id)
}

func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := s.repo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, orderNumber)
		}
		return nil, err
	}
	return o, nil
}

func (s *service) ListVendorOrders(ctx context.Context, vendorID string, status string) ([]*Order, error) {
	return s.repo.ListOrdersByVendor(ctx, vendorID, strings.ToUpper(status))
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID string) ([]*Order, error) {
	return s.repo.ListOrdersByCustomer(ctx, customerID)
}

func (s *service) ApplyAction(ctx context.Context, id string, caller transition.Caller, req OrderActionRequest) (*Order, error) {
	o, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	rule, err := statusRegistry.Apply(o.Status, caller, req.Action, map[string]string{
		"tracking_reference": req.TrackingReference,
	})
	if err != nil {
		return nil, err
	}

	// Method-specific guards the registry cannot express.
	if rule.Target == StatusShipped && o.FulfilmentMethod != FulfilDelivery {
		return nil, fmt.Errorf("%w: cannot ship a %s order", transition.ErrInvalidTransition, o.FulfilmentMethod)
	}
	if rule.Target == StatusReadyForPickup {
		if o.FulfilmentMethod != FulfilPickup {
			return nil, fmt.Errorf("%w: cannot mark a %s order ready for pickup", transition.ErrInvalidTransition, o.FulfilmentMethod)
		}
		if o.PickupDate == nil || o.PickupSlot == "" {
			return nil, &transition.MissingFieldError{Field: "pickup_slot"}
		}
	}

	updated := *o
	updated.Status = rule.Target
	if rule.Target == StatusShipped {
		updated.TrackingReference = strings.TrimSpace(req.TrackingReference)
	}

	if err := s.repo.UpdateOrder(ctx, &updated); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	return &updated, nil
}

func (s *service) SchedulePickup(ctx context.Context, id string, req SchedulePickupRequest) (*Order, error) {
	o, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.FulfilmentMethod != FulfilPickup {
		return nil, fmt.Errorf("pickup can only be scheduled on a PICKUP order")
	}
	if o.Status != StatusConfirmed && o.Status != StatusProcessing {
		return nil, fmt.Errorf("%w: cannot schedule pickup from %s", transition.ErrInvalidTransition, o.Status)
	}
	if strings.TrimSpace(req.Slot) == "" {
		return nil, &transition.MissingFieldError{Field: "slot"}
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date (want YYYY-MM-DD): %w", err)
	}
	if date.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, fmt.Errorf("pickup date must not be in the past")
	}

	updated := *o
	updated.PickupDate = &date
	updated.PickupSlot = req.Slot

	if err := s.repo.UpdateOrder(ctx, &updated); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	return &updated, nil
}

func (s *service) lookup(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return o, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// generateOrderNumber creates a human-readable order number: AM-YYYYMMDD-XXXX
func generateOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("AM-%s-%s", date, suffix)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
