package payout

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armoredmart/armoredmart-backend/internal/modules/vendor"
	"github.com/armoredmart/armoredmart-backend/internal/transition"
)

type fakeRepo struct {
	payouts map[string]*PayoutRequest
}

func newFakeRepo() *fakeRepo { return &fakeRepo{payouts: map[string]*PayoutRequest{}} }

func (f *fakeRepo) CreatePayout(_ context.Context, p *PayoutRequest) error {
	f.payouts[p.ID.String()] = p
	return nil
}

func (f *fakeRepo) GetPayoutByID(_ context.Context, id string) (*PayoutRequest, error) {
	p, ok := f.payouts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (f *fakeRepo) ListPayoutsByVendor(_ context.Context, vendorID string) ([]*PayoutRequest, error) {
	var out []*PayoutRequest
	for _, p := range f.payouts {
		if p.VendorID.String() == vendorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListPayoutsByStatus(_ context.Context, status string) ([]*PayoutRequest, error) {
	var out []*PayoutRequest
	for _, p := range f.payouts {
		if status == "" || string(p.Status) == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdatePayout(_ context.Context, p *PayoutRequest) error {
	copied := *p
	f.payouts[p.ID.String()] = &copied
	return nil
}

// fakeVendorRepo serves GetAccountByID; the rest of the interface is unused here.
type fakeVendorRepo struct {
	accounts map[string]*vendor.VendorAccount
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{accounts: map[string]*vendor.VendorAccount{}}
}

func (f *fakeVendorRepo) CreateAccount(_ context.Context, acc *vendor.VendorAccount) error {
	f.accounts[acc.ID.String()] = acc
	return nil
}

func (f *fakeVendorRepo) GetAccountByID(_ context.Context, id string) (*vendor.VendorAccount, error) {
	acc, ok := f.accounts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return acc, nil
}

func (f *fakeVendorRepo) GetAccountByOwnerID(context.Context, string) (*vendor.VendorAccount, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeVendorRepo) ListAccountsByStatus(context.Context, string) ([]*vendor.VendorAccount, error) {
	return nil, nil
}

func (f *fakeVendorRepo) UpdateAccount(context.Context, *vendor.VendorAccount) error { return nil }

func (f *fakeVendorRepo) CreateReviewRecord(context.Context, *vendor.ReviewRecord) error { return nil }

func (f *fakeVendorRepo) ListReviewRecords(context.Context, string) ([]*vendor.ReviewRecord, error) {
	return nil, nil
}

func seedVendor(repo *fakeVendorRepo, onboarding vendor.OnboardingStatus, account vendor.AccountStatus) *vendor.VendorAccount {
	acc := &vendor.VendorAccount{
		ID:               uuid.New(),
		OwnerID:          uuid.New(),
		BusinessName:     "Ndola Traders",
		AccountStatus:    account,
		OnboardingStatus: onboarding,
	}
	repo.accounts[acc.ID.String()] = acc
	return acc
}

func seedPayout(t *testing.T, repo *fakeRepo, vendorID uuid.UUID, status Status) *PayoutRequest {
	t.Helper()
	p := &PayoutRequest{
		ID:       uuid.New(),
		VendorID: vendorID,
		Amount:   1500,
		Currency: "ZMW",
		Status:   status,
	}
	require.NoError(t, repo.CreatePayout(context.Background(), p))
	return p
}

func financeCaller() transition.Caller {
	return transition.Caller{ID: uuid.New()}
}

func TestRequestPayout_ApprovedActiveVendor(t *testing.T) {
	repo := newFakeRepo()
	vendors := newFakeVendorRepo()
	acc := seedVendor(vendors, vendor.OnboardingApprovedGeneral, vendor.AccountActive)
	svc := NewService(repo, vendors)

	p, err := svc.RequestPayout(context.Background(), CreatePayoutRequest{
		VendorID: acc.ID.String(),
		Amount:   2500.50,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, "ZMW", p.Currency)
}

func TestRequestPayout_RejectsUnapprovedVendor(t *testing.T) {
	repo := newFakeRepo()
	vendors := newFakeVendorRepo()
	acc := seedVendor(vendors, vendor.OnboardingPendingVerification, vendor.AccountActive)
	svc := NewService(repo, vendors)

	_, err := svc.RequestPayout(context.Background(), CreatePayoutRequest{
		VendorID: acc.ID.String(),
		Amount:   100,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVendorNotEligible)
}

func TestRequestPayout_RejectsSuspendedVendor(t *testing.T) {
	repo := newFakeRepo()
	vendors := newFakeVendorRepo()
	acc := seedVendor(vendors, vendor.OnboardingApprovedControlled, vendor.AccountSuspended)
	svc := NewService(repo, vendors)

	_, err := svc.RequestPayout(context.Background(), CreatePayoutRequest{
		VendorID: acc.ID.String(),
		Amount:   100,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVendorNotEligible)
}

func TestRequestPayout_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newFakeRepo(), newFakeVendorRepo())

	for _, amount := range []float64{0, -50} {
		_, err := svc.RequestPayout(context.Background(), CreatePayoutRequest{
			VendorID: uuid.New().String(),
			Amount:   amount,
		})
		require.Error(t, err)
	}
}

func TestReview_ApproveThenPay(t *testing.T) {
	repo := newFakeRepo()
	vendors := newFakeVendorRepo()
	acc := seedVendor(vendors, vendor.OnboardingApprovedGeneral, vendor.AccountActive)
	p := seedPayout(t, repo, acc.ID, StatusPending)
	svc := NewService(repo, vendors)
	caller := financeCaller()

	approved, err := svc.Review(context.Background(), p.ID.String(), caller, ReviewPayoutRequest{
		Action: ActionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, caller.ID, *approved.ReviewedBy)

	paid, err := svc.Review(context.Background(), p.ID.String(), caller, ReviewPayoutRequest{
		Action:               ActionMarkPaid,
		TransactionReference: "TRX-001",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	assert.Equal(t, "TRX-001", paid.TransactionReference)
}

func TestReview_PayWithoutReference(t *testing.T) {
	repo := newFakeRepo()
	vendors := newFakeVendorRepo()
	acc := seedVendor(vendors, vendor.OnboardingApprovedGeneral, vendor.AccountActive)
	svc := NewService(repo, vendors)

	for _, status := range []Status{StatusPending, StatusApproved} {
		p := seedPayout(t, repo, acc.ID, status)
		_, err := svc.Review(context.Background(), p.ID.String(), financeCaller(), ReviewPayoutRequest{
			Action:               ActionMarkPaid,
			TransactionReference: "   ",
		})
		require.Error(t, err)
		var mf *transition.MissingFieldError
		require.ErrorAs(t, err, &mf)
		assert.Equal(t, "transaction_reference", mf.Field)

		stored, _ := repo.GetPayoutByID(context.Background(), p.ID.String())
		assert.Equal(t, status, stored.Status)
	}
}

func TestReview_DirectPayFromPending(t *testing.T) {
	repo := newFakeRepo()
	vendors := newFakeVendorRepo()
	acc := seedVendor(vendors, vendor.OnboardingApprovedGeneral, vendor.AccountActive)
	p := seedPayout(t, repo, acc.ID, StatusPending)
	svc := NewService(repo, vendors)

	paid, err := svc.Review(context.Background(), p.ID.String(), financeCaller(), ReviewPayoutRequest{
		Action:               ActionMarkPaid,
		TransactionReference: "TRX-777",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
}

func TestReview_TerminalStatusesRejectFurtherActions(t *testing.T) {
	repo := newFakeRepo()
	vendors := newFakeVendorRepo()
	acc := seedVendor(vendors, vendor.OnboardingApprovedGeneral, vendor.AccountActive)
	svc := NewService(repo, vendors)

	for _, status := range []Status{StatusPaid, StatusRejected} {
		p := seedPayout(t, repo, acc.ID, status)
		_, err := svc.Review(context.Background(), p.ID.String(), financeCaller(), ReviewPayoutRequest{
			Action: ActionApprove,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, transition.ErrInvalidTransition)
	}
}

func TestReview_RejectIsOptionalOnNote(t *testing.T) {
	repo := newFakeRepo()
	vendors := newFakeVendorRepo()
	acc := seedVendor(vendors, vendor.OnboardingApprovedGeneral, vendor.AccountActive)
	p := seedPayout(t, repo, acc.ID, StatusPending)
	svc := NewService(repo, vendors)

	rejected, err := svc.Review(context.Background(), p.ID.String(), financeCaller(), ReviewPayoutRequest{
		Action: ActionReject,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
}

func TestGetPayout_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), newFakeVendorRepo())

	_, err := svc.GetPayout(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAllowedActions(t *testing.T) {
	assert.ElementsMatch(t, []string{ActionApprove, ActionMarkPaid, ActionReject}, AllowedActions(StatusPending))
	assert.ElementsMatch(t, []string{ActionMarkPaid}, AllowedActions(StatusApproved))
	assert.Empty(t, AllowedActions(StatusPaid))
	assert.Empty(t, AllowedActions(StatusRejected))
}
