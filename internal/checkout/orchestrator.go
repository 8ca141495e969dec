// Package checkout drives the multi-step order flow: load everything the
// order form needs, pick an address and a payment method, submit once.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gmzseverr/bazaarx-client/internal/api"
	"github.com/gmzseverr/bazaarx-client/internal/errs"
	"github.com/gmzseverr/bazaarx-client/internal/model"
	"github.com/gmzseverr/bazaarx-client/internal/pricing"
)

// State is the orchestrator's lifecycle position.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitting
	StateSucceeded
	StateFailed
	// StateEmptyCart is terminal: there is nothing to check out, the user is
	// sent back to the cart.
	StateEmptyCart
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateEmptyCart:
		return "empty cart"
	default:
		return "unknown"
	}
}

// Gateway is the slice of the API client checkout needs.
type Gateway interface {
	Addresses(ctx context.Context) ([]model.Address, error)
	Payments(ctx context.Context) ([]model.PaymentMethod, error)
	CreateAddress(ctx context.Context, a model.NewAddress) ([]model.Address, error)
	CreatePayment(ctx context.Context, p model.NewPayment) ([]model.PaymentMethod, error)
	PlaceOrder(ctx context.Context, addressID, paymentMethodID int64) (model.Order, error)
}

// CartSource is the cart service surface the orchestrator composes.
type CartSource interface {
	Refresh(ctx context.Context) error
	Items() []model.CartItem
	Reset()
}

// AuthState answers whether a session is active.
type AuthState interface {
	IsAuthenticated() bool
}

// Orchestrator aggregates cart lines, addresses and payment methods into one
// order submission. One instance per checkout attempt.
type Orchestrator struct {
	gw   Gateway
	cart CartSource
	auth AuthState
	log  *zap.Logger

	mu        sync.Mutex
	state     State
	items     []model.CartItem
	addresses []model.Address
	payments  []model.PaymentMethod

	selectedAddress int64
	selectedPayment int64

	result  model.OrderSummary
	failure string
}

// New constructs an orchestrator in the Loading state.
func New(gw Gateway, cart CartSource, auth AuthState, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{gw: gw, cart: cart, auth: auth, log: log, state: StateLoading}
}

// Load concurrently fetches cart contents, addresses and payment methods.
// An empty cart short-circuits to the terminal EmptyCart state before the form
// ever becomes Ready. Defaults: first address, first payment method.
func (o *Orchestrator) Load(ctx context.Context) error {
	if !o.auth.IsAuthenticated() {
		return errs.ErrUnauthenticated
	}

	var (
		addresses []model.Address
		payments  []model.PaymentMethod
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return o.cart.Refresh(gctx) })
	g.Go(func() (err error) {
		addresses, err = o.gw.Addresses(gctx)
		return err
	})
	g.Go(func() (err error) {
		payments, err = o.gw.Payments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		o.setFailure(err)
		return fmt.Errorf("load checkout data: %w", err)
	}

	items := o.cart.Items()

	o.mu.Lock()
	defer o.mu.Unlock()
	if len(items) == 0 {
		o.state = StateEmptyCart
		return nil
	}
	o.items = items
	o.addresses = addresses
	o.payments = payments
	if len(addresses) > 0 {
		o.selectedAddress = addresses[0].ID
	}
	if len(payments) > 0 {
		o.selectedPayment = payments[0].ID
	}
	o.state = StateReady
	return nil
}

// SelectAddress picks a loaded address by ID.
func (o *Orchestrator) SelectAddress(id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, a := range o.addresses {
		if a.ID == id {
			o.selectedAddress = id
			return nil
		}
	}
	return fmt.Errorf("address %d: %w", id, errs.ErrNotFound)
}

// SelectPayment picks a loaded payment method by ID.
func (o *Orchestrator) SelectPayment(id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, p := range o.payments {
		if p.ID == id {
			o.selectedPayment = id
			return nil
		}
	}
	return fmt.Errorf("payment method %d: %w", id, errs.ErrNotFound)
}

// AddAddress creates an address inline. The backend answers with the full
// updated list; the newly appended entry becomes the selection.
func (o *Orchestrator) AddAddress(ctx context.Context, a model.NewAddress) error {
	if !o.auth.IsAuthenticated() {
		return errs.ErrUnauthenticated
	}
	list, err := o.gw.CreateAddress(ctx, a)
	if err != nil {
		return fmt.Errorf("add address: %w", err)
	}
	o.mu.Lock()
	o.addresses = list
	if len(list) > 0 {
		o.selectedAddress = list[len(list)-1].ID
	}
	o.mu.Unlock()
	return nil
}

// AddPayment creates a payment method inline, same protocol as AddAddress.
func (o *Orchestrator) AddPayment(ctx context.Context, p model.NewPayment) error {
	if !o.auth.IsAuthenticated() {
		return errs.ErrUnauthenticated
	}
	list, err := o.gw.CreatePayment(ctx, p)
	if err != nil {
		return fmt.Errorf("add payment method: %w", err)
	}
	o.mu.Lock()
	o.payments = list
	if len(list) > 0 {
		o.selectedPayment = list[len(list)-1].ID
	}
	o.mu.Unlock()
	return nil
}

// PlaceOrder submits the order. Client-side guards reject without a request:
// missing selections, empty cart, wrong state, or a submission already in
// flight. On success the cached cart is dropped and the confirmation summary
// is built from the lines submitted, priced the same way the cart page prices
// them. On failure selections are kept so the user can resubmit.
func (o *Orchestrator) PlaceOrder(ctx context.Context) (model.OrderSummary, error) {
	if !o.auth.IsAuthenticated() {
		return model.OrderSummary{}, errs.ErrUnauthenticated
	}

	o.mu.Lock()
	switch o.state {
	case StateReady, StateFailed:
		// allowed; Failed permits resubmission
	case StateSubmitting:
		o.mu.Unlock()
		return model.OrderSummary{}, errors.New("order submission already in progress")
	default:
		o.mu.Unlock()
		return model.OrderSummary{}, fmt.Errorf("checkout not ready (state %s)", o.state)
	}
	if len(o.items) == 0 {
		o.mu.Unlock()
		return model.OrderSummary{}, errs.ErrEmptyCart
	}
	if o.selectedAddress == 0 {
		o.mu.Unlock()
		return model.OrderSummary{}, fmt.Errorf("no shipping address selected: %w", errs.ErrValidation)
	}
	if o.selectedPayment == 0 {
		o.mu.Unlock()
		return model.OrderSummary{}, fmt.Errorf("no payment method selected: %w", errs.ErrValidation)
	}
	addressID, paymentID := o.selectedAddress, o.selectedPayment
	items := make([]model.CartItem, len(o.items))
	copy(items, o.items)
	o.state = StateSubmitting
	o.mu.Unlock()

	order, err := o.gw.PlaceOrder(ctx, addressID, paymentID)
	if err != nil {
		o.setFailure(err)
		return model.OrderSummary{}, fmt.Errorf("place order: %w", err)
	}

	subtotal := pricing.Subtotal(items)
	summary := model.OrderSummary{
		OrderID:  order.ID,
		Items:    toOrderItems(items),
		Subtotal: subtotal,
		Shipping: pricing.Shipping(subtotal),
		Total:    subtotal + pricing.Shipping(subtotal),
	}

	o.mu.Lock()
	o.state = StateSucceeded
	o.result = summary
	o.failure = ""
	o.mu.Unlock()

	// The backend consumed the cart; drop the local copy so every observer
	// converges without waiting for a refetch.
	o.cart.Reset()
	o.log.Info("order placed", zap.Int64("orderID", order.ID), zap.Float64("total", summary.Total))
	return summary, nil
}

// State returns the current lifecycle position.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Items returns the cart snapshot taken at load time.
func (o *Orchestrator) Items() []model.CartItem {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]model.CartItem, len(o.items))
	copy(out, o.items)
	return out
}

// Addresses returns the loaded address list.
func (o *Orchestrator) Addresses() []model.Address {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]model.Address, len(o.addresses))
	copy(out, o.addresses)
	return out
}

// Payments returns the loaded payment method list.
func (o *Orchestrator) Payments() []model.PaymentMethod {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]model.PaymentMethod, len(o.payments))
	copy(out, o.payments)
	return out
}

// Selection returns the currently selected address and payment method IDs
// (zero means nothing selected).
func (o *Orchestrator) Selection() (addressID, paymentMethodID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selectedAddress, o.selectedPayment
}

// Summary prices the loaded cart snapshot with the shared rules.
func (o *Orchestrator) Summary() (subtotal, shipping, total float64) {
	o.mu.Lock()
	items := o.items
	subtotal = pricing.Subtotal(items)
	o.mu.Unlock()
	shipping = pricing.Shipping(subtotal)
	return subtotal, shipping, subtotal + shipping
}

// Result returns the confirmation summary once Succeeded.
func (o *Orchestrator) Result() (model.OrderSummary, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result, o.state == StateSucceeded
}

// FailureMessage returns the backend's structured message for the last
// failure, or a generic retry prompt.
func (o *Orchestrator) FailureMessage() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failure != "" {
		return o.failure
	}
	return "Something went wrong. Please try again."
}

func (o *Orchestrator) setFailure(err error) {
	msg := ""
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	o.mu.Lock()
	o.state = StateFailed
	o.failure = msg
	o.mu.Unlock()
}

func toOrderItems(items []model.CartItem) []model.OrderItem {
	out := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		oi := model.OrderItem{
			ProductID:   it.ID,
			ProductName: it.Name,
			Quantity:    it.Quantity,
			Price:       it.Price,
		}
		if len(it.Images) > 0 {
			oi.ImageURL = it.Images[0]
		}
		out = append(out, oi)
	}
	return out
}
