package order

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armoredmart/armoredmart-backend/internal/modules/catalog"
	"github.com/armoredmart/armoredmart-backend/internal/transition"
)

type fakeRepo struct {
	orders map[string]*Order
}

func newFakeRepo() *fakeRepo { return &fakeRepo{orders: map[string]*Order{}} }

func (f *fakeRepo) CreateOrder(_ context.Context, o *Order) error {
	f.orders[o.ID.String()] = o
	return nil
}

func (f *fakeRepo) GetOrderByID(_ context.Context, id string) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *o
	return &copied, nil
}

func (f *fakeRepo) GetOrderByNumber(_ context.Context, orderNumber string) (*Order, error) {
	for _, o := range f.orders {
		if o.OrderNumber == orderNumber {
			copied := *o
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) ListOrdersByVendor(_ context.Context, vendorID string, status string) ([]*Order, error) {
	var out []*Order
	for _, o := range f.orders {
		if o.VendorID.String() == vendorID && (status == "" || string(o.Status) == status) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListOrdersByCustomer(_ context.Context, customerID string) ([]*Order, error) {
	var out []*Order
	for _, o := range f.orders {
		if o.CustomerID.String() == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateOrder(_ context.Context, o *Order) error {
	copied := *o
	f.orders[o.ID.String()] = &copied
	return nil
}

type fakeProductRepo struct {
	products map[string]*catalog.VendorProduct
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*catalog.VendorProduct{}}
}

func (f *fakeProductRepo) CreateProduct(_ context.Context, p *catalog.VendorProduct) error {
	f.products[p.ID.String()] = p
	return nil
}

func (f *fakeProductRepo) GetProductByID(_ context.Context, id string) (*catalog.VendorProduct, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeProductRepo) ListProductsByVendor(context.Context, string, string) ([]*catalog.VendorProduct, error) {
	return nil, nil
}

func (f *fakeProductRepo) ListPublishedByCategory(context.Context, string) ([]*catalog.VendorProduct, error) {
	return nil, nil
}

func (f *fakeProductRepo) UpdateProduct(context.Context, *catalog.VendorProduct) error { return nil }

// fixedRates resolves every category to the same VAT and commission fractions.
type fixedRates struct {
	vat        float64
	commission float64
}

func (r fixedRates) ResolveCommission(context.Context, string) (float64, error) {
	return r.commission, nil
}

func (r fixedRates) ResolveVATRate(context.Context, string) (float64, error) {
	return r.vat, nil
}

func seedProduct(repo *fakeProductRepo, vendorID uuid.UUID, price float64, status catalog.ProductStatus) *catalog.VendorProduct {
	p := &catalog.VendorProduct{
		ID:         uuid.New(),
		VendorID:   vendorID,
		CategoryID: uuid.New(),
		Name:       "Plate Carrier",
		Price:      price,
		Currency:   "ZMW",
		Status:     status,
	}
	repo.products[p.ID.String()] = p
	return p
}

func newTestService(repo *fakeRepo, products *fakeProductRepo) Service {
	return NewService(repo, products, fixedRates{vat: 0.16, commission: 0.08})
}

func placeTestOrder(t *testing.T, svc Service, productID string, method string) *Order {
	t.Helper()
	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerID:       uuid.New().String(),
		FulfilmentMethod: method,
		Items:            []CartItem{{ProductID: productID, Quantity: 2}},
	})
	require.NoError(t, err)
	return o
}

func caller() transition.Caller {
	return transition.Caller{ID: uuid.New()}
}

func TestPlaceOrder_ComputesTotals(t *testing.T) {
	repo := newFakeRepo()
	products := newFakeProductRepo()
	p := seedProduct(products, uuid.New(), 100, catalog.StatusPublished)
	svc := newTestService(repo, products)

	o := placeTestOrder(t, svc, p.ID.String(), "")

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, FulfilDelivery, o.FulfilmentMethod, "delivery is the default")
	assert.InDelta(t, 200, o.Subtotal, 1e-9)
	assert.InDelta(t, 32, o.VAT, 1e-9)        // 16% of 200
	assert.InDelta(t, 16, o.Commission, 1e-9) // 8% of 200
	assert.InDelta(t, 232, o.Total, 1e-9)
	assert.Regexp(t, `^AM-\d{8}-[0-9A-F]{4}$`, o.OrderNumber)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Quantity)
}

func TestPlaceOrder_RejectsUnpublishedProduct(t *testing.T) {
	repo := newFakeRepo()
	products := newFakeProductRepo()
	p := seedProduct(products, uuid.New(), 100, catalog.StatusDraft)
	svc := newTestService(repo, products)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerID: uuid.New().String(),
		Items:      []CartItem{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.Error(t, err)
}

func TestPlaceOrder_RejectsMixedVendors(t *testing.T) {
	repo := newFakeRepo()
	products := newFakeProductRepo()
	p1 := seedProduct(products, uuid.New(), 100, catalog.StatusPublished)
	p2 := seedProduct(products, uuid.New(), 50, catalog.StatusPublished)
	svc := newTestService(repo, products)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerID: uuid.New().String(),
		Items: []CartItem{
			{ProductID: p1.ID.String(), Quantity: 1},
			{ProductID: p2.ID.String(), Quantity: 1},
		},
	})
	require.Error(t, err)
}

func TestPlaceOrder_RejectsEmptyCart(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeProductRepo())

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerID: uuid.New().String(),
	})
	require.Error(t, err)
}

func TestApplyAction_DeliveryLifecycle(t *testing.T) {
	repo := newFakeRepo()
	products := newFakeProductRepo()
	p := seedProduct(products, uuid.New(), 100, catalog.StatusPublished)
	svc := newTestService(repo, products)
	o := placeTestOrder(t, svc, p.ID.String(), "DELIVERY")

	for _, step := range []struct {
		action string
		want   OrderStatus
		req    OrderActionRequest
	}{
		{ActionConfirm, StatusConfirmed, OrderActionRequest{Action: ActionConfirm}},
		{ActionProcess, StatusProcessing, OrderActionRequest{Action: ActionProcess}},
		{ActionShip, StatusShipped, OrderActionRequest{Action: ActionShip, TrackingReference: "ZP-4411"}},
		{ActionDeliver, StatusDelivered, OrderActionRequest{Action: ActionDeliver}},
	} {
		updated, err := svc.ApplyAction(context.Background(), o.ID.String(), caller(), step.req)
		require.NoError(t, err, "action %s", step.action)
		assert.Equal(t, step.want, updated.Status)
	}

	stored, _ := repo.GetOrderByID(context.Background(), o.ID.String())
	assert.Equal(t, "ZP-4411", stored.TrackingReference)
}

func TestApplyAction_ShipRequiresTracking(t *testing.T) {
	repo := newFakeRepo()
	products := newFakeProductRepo()
	p := seedProduct(products, uuid.New(), 100, catalog.StatusPublished)
	svc := newTestService(repo, products)
	o := placeTestOrder(t, svc, p.ID.String(), "DELIVERY")

	for _, a := range []string{ActionConfirm, ActionProcess} {
		_, err := svc.ApplyAction(context.Background(), o.ID.String(), caller(), OrderActionRequest{Action: a})
		require.NoError(t, err)
	}

	_, err := svc.ApplyAction(context.Background(), o.ID.String(), caller(), OrderActionRequest{Action: ActionShip})
	require.Error(t, err)
	var mf *transition.MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "tracking_reference", mf.Field)
}

func TestApplyAction_CannotShipPickupOrder(t *testing.T) {
	repo := newFakeRepo()
	products := newFakeProductRepo()
	p := seedProduct(products, uuid.New(), 100, catalog.StatusPublished)
	svc := newTestService(repo, products)
	o := placeTestOrder(t, svc, p.ID.String(), "PICKUP")

	for _, a := range []string{ActionConfirm, ActionProcess} {
		_, err := svc.ApplyAction(context.Background(), o.ID.String(), caller(), OrderActionRequest{Action: a})
		require.NoError(t, err)
	}

	_, err := svc.ApplyAction(context.Background(), o.ID.String(), caller(),
		OrderActionRequest{Action: ActionShip, TrackingReference: "ZP-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, transition.ErrInvalidTransition)
}

func TestApplyAction_ReadyNeedsScheduledPickup(t *testing.T) {
	repo := newFakeRepo()
	products := newFakeProductRepo()
	p := seedProduct(products, uuid.New(), 100, catalog.StatusPublished)
	svc := newTestService(repo, products)
	o := placeTestOrder(t, svc, p.ID.String(), "PICKUP")

	for _, a := range []string{ActionConfirm, ActionProcess} {
		_, err := svc.ApplyAction(context.Background(), o.ID.String(), caller(), OrderActionRequest{Action: a})
		require.NoError(t, err)
	}

	_, err := svc.ApplyAction(context.Background(), o.ID.String(), caller(), OrderActionRequest{Action: ActionReady})
	require.Error(t, err)
	var mf *transition.MissingFieldError
	require.ErrorAs(t, err, &mf)

	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	_, err = svc.SchedulePickup(context.Background(), o.ID.String(), SchedulePickupRequest{
		Date: date,
		Slot: "09:00-12:00",
	})
	require.NoError(t, err)

	ready, err := svc.ApplyAction(context.Background(), o.ID.String(), caller(), OrderActionRequest{Action: ActionReady})
	require.NoError(t, err)
	assert.Equal(t, StatusReadyForPickup, ready.Status)

	collected, err := svc.ApplyAction(context.Background(), o.ID.String(), caller(), OrderActionRequest{Action: ActionCollect})
	require.NoError(t, err)
	assert.Equal(t, StatusCollected, collected.Status)
}

func TestSchedulePickup_Validation(t *testing.T) {
	repo := newFakeRepo()
	products := newFakeProductRepo()
	p := seedProduct(products, uuid.New(), 100, catalog.StatusPublished)
	svc := newTestService(repo, products)

	delivery := placeTestOrder(t, svc, p.ID.String(), "DELIVERY")
	_, err := svc.SchedulePickup(context.Background(), delivery.ID.String(), SchedulePickupRequest{
		Date: "2030-01-01", Slot: "09:00-12:00",
	})
	require.Error(t, err, "delivery orders have no pickup slot")

	pickup := placeTestOrder(t, svc, p.ID.String(), "PICKUP")
	_, err = svc.SchedulePickup(context.Background(), pickup.ID.String(), SchedulePickupRequest{
		Date: "2030-01-01", Slot: "09:00-12:00",
	})
	require.Error(t, err, "pending orders cannot be scheduled yet")
	assert.ErrorIs(t, err, transition.ErrInvalidTransition)

	_, err = svc.ApplyAction(context.Background(), pickup.ID.String(), caller(), OrderActionRequest{Action: ActionConfirm})
	require.NoError(t, err)

	_, err = svc.SchedulePickup(context.Background(), pickup.ID.String(), SchedulePickupRequest{
		Date: "2020-01-01", Slot: "09:00-12:00",
	})
	require.Error(t, err, "past dates are rejected")

	_, err = svc.SchedulePickup(context.Background(), pickup.ID.String(), SchedulePickupRequest{
		Date: "2030-01-01",
	})
	require.Error(t, err, "slot is required")
}

func TestApplyAction_CancelOnlyBeforeProcessing(t *testing.T) {
	repo := newFakeRepo()
	products := newFakeProductRepo()
	p := seedProduct(products, uuid.New(), 100, catalog.StatusPublished)
	svc := newTestService(repo, products)
	o := placeTestOrder(t, svc, p.ID.String(), "DELIVERY")

	cancelled, err := svc.ApplyAction(context.Background(), o.ID.String(), caller(), OrderActionRequest{Action: ActionCancel})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = svc.ApplyAction(context.Background(), o.ID.String(), caller(), OrderActionRequest{Action: ActionConfirm})
	require.Error(t, err)
	assert.ErrorIs(t, err, transition.ErrInvalidTransition)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeProductRepo())

	_, err := svc.GetOrder(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
