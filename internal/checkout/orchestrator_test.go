package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmzseverr/bazaarx-client/internal/api"
	"github.com/gmzseverr/bazaarx-client/internal/errs"
	"github.com/gmzseverr/bazaarx-client/internal/model"
)

type fakeAuth struct{ authed bool }

func (f *fakeAuth) IsAuthenticated() bool { return f.authed }

type fakeCart struct {
	items  []model.CartItem
	resets int
}

var _ CartSource = (*fakeCart)(nil)

func (f *fakeCart) Refresh(context.Context) error { return nil }
func (f *fakeCart) Items() []model.CartItem       { return f.items }
func (f *fakeCart) Reset()                        { f.resets++; f.items = nil }

type fakeGateway struct {
	addresses []model.Address
	payments  []model.PaymentMethod

	orderCalls  int
	orderErr    error
	orderHook   func()
	createCalls int

	listErr error
}

var _ Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) Addresses(context.Context) ([]model.Address, error) {
	return f.addresses, f.listErr
}

func (f *fakeGateway) Payments(context.Context) ([]model.PaymentMethod, error) {
	return f.payments, f.listErr
}

func (f *fakeGateway) CreateAddress(_ context.Context, a model.NewAddress) ([]model.Address, error) {
	f.createCalls++
	next := int64(len(f.addresses) + 100)
	f.addresses = append(f.addresses, model.Address{ID: next, Title: a.Title})
	return f.addresses, nil
}

func (f *fakeGateway) CreatePayment(_ context.Context, p model.NewPayment) ([]model.PaymentMethod, error) {
	f.createCalls++
	next := int64(len(f.payments) + 200)
	f.payments = append(f.payments, model.PaymentMethod{ID: next, CardholderName: p.CardholderName})
	return f.payments, nil
}

func (f *fakeGateway) PlaceOrder(context.Context, int64, int64) (model.Order, error) {
	f.orderCalls++
	if f.orderHook != nil {
		f.orderHook()
	}
	if f.orderErr != nil {
		return model.Order{}, f.orderErr
	}
	return model.Order{ID: 42}, nil
}

func cartWith(total float64) *fakeCart {
	return &fakeCart{items: []model.CartItem{
		{Product: model.Product{ID: 1, Name: "boots", Price: total}, Quantity: 1},
	}}
}

func readyOrchestrator(t *testing.T, gw *fakeGateway, fc *fakeCart) *Orchestrator {
	t.Helper()
	o := New(gw, fc, &fakeAuth{authed: true}, nil)
	require.NoError(t, o.Load(context.Background()))
	require.Equal(t, StateReady, o.State())
	return o
}

func defaultGateway() *fakeGateway {
	return &fakeGateway{
		addresses: []model.Address{{ID: 10, Title: "home"}, {ID: 11, Title: "work"}},
		payments:  []model.PaymentMethod{{ID: 20, CardholderName: "A B"}},
	}
}

func TestOrchestrator_LoadDefaultsToFirstOfEach(t *testing.T) {
	t.Parallel()

	o := readyOrchestrator(t, defaultGateway(), cartWith(45))
	addr, pay := o.Selection()
	assert.Equal(t, int64(10), addr)
	assert.Equal(t, int64(20), pay)
}

func TestOrchestrator_EmptyCartShortCircuits(t *testing.T) {
	t.Parallel()

	o := New(defaultGateway(), &fakeCart{}, &fakeAuth{authed: true}, nil)
	require.NoError(t, o.Load(context.Background()))
	assert.Equal(t, StateEmptyCart, o.State())

	_, err := o.PlaceOrder(context.Background())
	require.Error(t, err)
}

func TestOrchestrator_LoadRequiresSession(t *testing.T) {
	t.Parallel()

	o := New(defaultGateway(), cartWith(45), &fakeAuth{authed: false}, nil)
	assert.ErrorIs(t, o.Load(context.Background()), errs.ErrUnauthenticated)
}

func TestOrchestrator_InlineCreationRequiresSession(t *testing.T) {
	t.Parallel()

	gw := defaultGateway()
	o := New(gw, cartWith(45), &fakeAuth{authed: false}, nil)
	ctx := context.Background()

	assert.ErrorIs(t, o.AddAddress(ctx, model.NewAddress{Title: "home"}), errs.ErrUnauthenticated)
	assert.ErrorIs(t, o.AddPayment(ctx, model.NewPayment{CardholderName: "A B"}), errs.ErrUnauthenticated)
	assert.Zero(t, gw.createCalls, "no request goes out without a session")
}

func TestOrchestrator_RejectsWithoutAddressBeforeAnyRequest(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{payments: []model.PaymentMethod{{ID: 20}}} // no addresses saved
	o := readyOrchestrator(t, gw, cartWith(45))

	_, err := o.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Zero(t, gw.orderCalls, "rejected client-side, nothing sent")

	// Creating an address inline unblocks the submission.
	require.NoError(t, o.AddAddress(context.Background(), model.NewAddress{Title: "home"}))
	_, err = o.PlaceOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, gw.orderCalls)
}

func TestOrchestrator_SelectionMustBeLoaded(t *testing.T) {
	t.Parallel()

	o := readyOrchestrator(t, defaultGateway(), cartWith(45))
	assert.ErrorIs(t, o.SelectAddress(999), errs.ErrNotFound)
	assert.ErrorIs(t, o.SelectPayment(999), errs.ErrNotFound)
	require.NoError(t, o.SelectAddress(11))
	addr, _ := o.Selection()
	assert.Equal(t, int64(11), addr)
}

func TestOrchestrator_InlineCreationAppendsAndSelects(t *testing.T) {
	t.Parallel()

	o := readyOrchestrator(t, defaultGateway(), cartWith(45))

	require.NoError(t, o.AddAddress(context.Background(), model.NewAddress{Title: "summer house"}))
	require.NoError(t, o.AddPayment(context.Background(), model.NewPayment{CardholderName: "A B"}))

	addr, pay := o.Selection()
	assert.Equal(t, int64(102), addr, "newly created address becomes the selection")
	assert.Equal(t, int64(201), pay)
	assert.Len(t, o.Addresses(), 3)
	assert.Len(t, o.Payments(), 2)
}

func TestOrchestrator_SuccessBuildsClientSideSummary(t *testing.T) {
	t.Parallel()

	gw := defaultGateway()
	fc := cartWith(45)
	o := readyOrchestrator(t, gw, fc)

	summary, err := o.PlaceOrder(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateSucceeded, o.State())
	assert.Equal(t, int64(42), summary.OrderID)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "boots", summary.Items[0].ProductName)
	assert.Equal(t, 45.0, summary.Subtotal)
	assert.Equal(t, 10.0, summary.Shipping, "same threshold rule as the cart page")
	assert.Equal(t, 55.0, summary.Total)
	assert.Equal(t, 1, fc.resets, "cart cache dropped after a placed order")

	got, ok := o.Result()
	require.True(t, ok)
	assert.Equal(t, summary, got)
}

func TestOrchestrator_FreeShippingAtThreshold(t *testing.T) {
	t.Parallel()

	o := readyOrchestrator(t, defaultGateway(), cartWith(50))
	summary, err := o.PlaceOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.Shipping)
	assert.Equal(t, 50.0, summary.Total)
}

func TestOrchestrator_NoDoubleSubmission(t *testing.T) {
	t.Parallel()

	gw := defaultGateway()
	fc := cartWith(45)
	o := readyOrchestrator(t, gw, fc)

	// Re-entry while the first submission is still in flight.
	var reentryErr error
	gw.orderHook = func() {
		_, reentryErr = o.PlaceOrder(context.Background())
	}

	_, err := o.PlaceOrder(context.Background())
	require.NoError(t, err)
	require.Error(t, reentryErr)
	assert.Contains(t, reentryErr.Error(), "in progress")
	assert.Equal(t, 1, gw.orderCalls)
}

func TestOrchestrator_FailureKeepsSelectionsAndAllowsResubmit(t *testing.T) {
	t.Parallel()

	gw := defaultGateway()
	gw.orderErr = &api.APIError{Status: 500, Message: "stock ran out"}
	fc := cartWith(45)
	o := readyOrchestrator(t, gw, fc)

	_, err := o.PlaceOrder(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, o.State())
	assert.Equal(t, "stock ran out", o.FailureMessage())
	assert.Zero(t, fc.resets, "failed order must not clear the cart")

	addr, pay := o.Selection()
	assert.Equal(t, int64(10), addr)
	assert.Equal(t, int64(20), pay)

	// Backend recovers; resubmission from Failed succeeds.
	gw.orderErr = nil
	summary, err := o.PlaceOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), summary.OrderID)
	assert.Equal(t, StateSucceeded, o.State())
}

func TestOrchestrator_GenericFailureMessage(t *testing.T) {
	t.Parallel()

	gw := defaultGateway()
	gw.orderErr = errors.New("connection reset")
	o := readyOrchestrator(t, gw, cartWith(45))

	_, err := o.PlaceOrder(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, o.State())
	assert.NotEmpty(t, o.FailureMessage())
}

func TestOrchestrator_LoadFailureIsRetryable(t *testing.T) {
	t.Parallel()

	gw := defaultGateway()
	gw.listErr = errors.New("connection refused")
	o := New(gw, cartWith(45), &fakeAuth{authed: true}, nil)

	require.Error(t, o.Load(context.Background()))
	assert.Equal(t, StateFailed, o.State())

	gw.listErr = nil
	require.NoError(t, o.Load(context.Background()))
	assert.Equal(t, StateReady, o.State())
}
