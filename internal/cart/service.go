// Package cart keeps a single cached copy of the server-side cart and pushes
// every change to all observers, so the badge, the modal and the cart page can
// never disagree about what is in the cart.
package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/gmzseverr/bazaarx-client/internal/errs"
	"github.com/gmzseverr/bazaarx-client/internal/model"
	"github.com/gmzseverr/bazaarx-client/internal/pricing"
)

// Gateway is the slice of the API client the cart needs.
type Gateway interface {
	Cart(ctx context.Context) ([]model.Product, error)
	CartCount(ctx context.Context) (int, error)
	AddToCart(ctx context.Context, productID int64) (bool, error)
	RemoveFromCart(ctx context.Context, productID int64) (bool, error)
	ClearCart(ctx context.Context) (bool, error)
}

// AuthState answers whether a session is active; mutations short-circuit
// locally when it is not. The session store implements it.
type AuthState interface {
	IsAuthenticated() bool
}

// Summary is the cart page's order summary box.
type Summary struct {
	Subtotal float64
	Shipping float64
	Total    float64
}

// Service is the single source of truth for cart state on this client.
// All mutations follow dispatch → confirm → reconcile: local state changes
// only after the backend's explicit confirmation field, never before.
type Service struct {
	gw   Gateway
	auth AuthState
	log  *zap.Logger

	mu    sync.Mutex
	items []model.CartItem
	count int
	// gen invalidates in-flight reads: a response started under an older
	// generation is discarded instead of resurrecting replaced state.
	gen  uint64
	subs []func()
}

// NewService constructs an empty cart bound to the gateway and session state.
func NewService(gw Gateway, auth AuthState, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gw: gw, auth: auth, log: log}
}

// Subscribe registers fn to run after every reconciled change.
func (s *Service) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Items returns a copy of the cached cart lines.
func (s *Service) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Count returns the cached badge count.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Summary computes the totals from the cached lines using the shared rules.
func (s *Service) Summary() Summary {
	s.mu.Lock()
	items := s.items
	sub := pricing.Subtotal(items)
	s.mu.Unlock()
	return Summary{Subtotal: sub, Shipping: pricing.Shipping(sub), Total: sub + pricing.Shipping(sub)}
}

// Refresh replaces the cache from a fresh fetch. Anonymous users get an empty
// cart without a network call.
func (s *Service) Refresh(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		s.Reset()
		return nil
	}

	gen := s.generation()
	products, err := s.gw.Cart(ctx)
	if err != nil {
		return fmt.Errorf("fetch cart: %w", err)
	}

	items := make([]model.CartItem, 0, len(products))
	for _, p := range products {
		items = append(items, model.CartItem{Product: p, Quantity: 1})
	}
	s.applyFetch(gen, items)
	return nil
}

// RefreshCount reconciles the badge via the cheap count endpoint.
func (s *Service) RefreshCount(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		s.Reset()
		return nil
	}

	gen := s.generation()
	n, err := s.gw.CartCount(ctx)
	if err != nil {
		return fmt.Errorf("fetch cart count: %w", err)
	}

	s.mu.Lock()
	if s.gen == gen {
		s.count = n
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Add puts a product in the server-side cart. added=false means the backend
// reported it was already there; cached state is left untouched in that case.
// Reconciliation is a full refetch because the client does not hold the
// product record for an ID it has never listed.
func (s *Service) Add(ctx context.Context, productID int64) (added bool, err error) {
	if !s.auth.IsAuthenticated() {
		return false, errs.ErrUnauthenticated
	}

	added, err = s.gw.AddToCart(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("add product %d: %w", productID, err)
	}
	if !added {
		s.log.Debug("product already in cart", zap.Int64("productID", productID))
		return false, nil
	}

	if err := s.Refresh(ctx); err != nil {
		// The mutation is confirmed; a failed refetch only delays convergence.
		s.log.Warn("cart refetch after add failed", zap.Error(err))
	}
	return true, nil
}

// Remove deletes a product. The backend answering removed=false is a failure
// (the item was not there) and must not change displayed state.
func (s *Service) Remove(ctx context.Context, productID int64) error {
	if !s.auth.IsAuthenticated() {
		return errs.ErrUnauthenticated
	}

	removed, err := s.gw.RemoveFromCart(ctx, productID)
	if err != nil {
		return fmt.Errorf("remove product %d: %w", productID, err)
	}
	if !removed {
		return fmt.Errorf("remove product %d: %w", productID, errs.ErrNotFound)
	}

	// Confirmed delta: drop the one line locally, same result as a refetch.
	s.mu.Lock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != productID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	if s.count > 0 {
		s.count--
	}
	s.gen++
	s.mu.Unlock()
	s.notify()
	return nil
}

// Clear empties the cart after backend confirmation.
func (s *Service) Clear(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		return errs.ErrUnauthenticated
	}

	cleared, err := s.gw.ClearCart(ctx)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if !cleared {
		return fmt.Errorf("clear cart: %w", errs.ErrServer)
	}
	s.Reset()
	return nil
}

// SetQuantity adjusts a line's quantity locally. The request contract has no
// quantity endpoint, so this never reaches the backend and a refetch resets
// every line to 1.
func (s *Service) SetQuantity(productID int64, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items[i].Quantity = qty
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Reset drops all cached state. Called on logout and session invalidation.
func (s *Service) Reset() {
	s.mu.Lock()
	s.items = nil
	s.count = 0
	s.gen++
	s.mu.Unlock()
	s.notify()
}

func (s *Service) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Service) applyFetch(gen uint64, items []model.CartItem) {
	s.mu.Lock()
	if s.gen != gen {
		// A logout or a newer mutation won the race; this response is stale.
		s.mu.Unlock()
		return
	}
	s.items = items
	s.count = len(items)
	s.mu.Unlock()
	s.notify()
}

func (s *Service) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
