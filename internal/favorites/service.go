// Package favorites mirrors the user's liked products. The backend is the
// source of truth; the cache only exists so toggles and listings agree.
package favorites

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/gmzseverr/bazaarx-client/internal/errs"
	"github.com/gmzseverr/bazaarx-client/internal/model"
)

// Gateway is the slice of the API client the favorites feature needs.
type Gateway interface {
	Favorites(ctx context.Context) ([]model.Product, error)
	FavoriteStatus(ctx context.Context, productID int64) (bool, error)
	AddFavorite(ctx context.Context, productID int64) error
	RemoveFavorite(ctx context.Context, productID int64) error
}

// AuthState answers whether a session is active.
type AuthState interface {
	IsAuthenticated() bool
}

// Service caches the favorites list and per-product liked flags.
type Service struct {
	gw   Gateway
	auth AuthState
	log  *zap.Logger

	mu    sync.Mutex
	items []model.Product
	liked map[int64]bool
	gen   uint64
	subs  []func()
}

// NewService constructs an empty favorites cache.
func NewService(gw Gateway, auth AuthState, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gw: gw, auth: auth, log: log, liked: map[int64]bool{}}
}

// Subscribe registers fn to run after every reconciled change.
func (s *Service) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Items returns a copy of the cached favorites.
func (s *Service) Items() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, len(s.items))
	copy(out, s.items)
	return out
}

// Refresh replaces the cache from a fresh fetch; anonymous users silently get
// an empty list without a network call.
func (s *Service) Refresh(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		s.Reset()
		return nil
	}

	gen := s.generation()
	items, err := s.gw.Favorites(ctx)
	if err != nil {
		return fmt.Errorf("fetch favorites: %w", err)
	}

	s.mu.Lock()
	if s.gen == gen {
		s.items = items
		s.liked = make(map[int64]bool, len(items))
		for _, p := range items {
			s.liked[p.ID] = true
		}
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Status reports whether the product is liked, asking the backend when the
// answer is not cached. Anonymous users get false without a network call.
func (s *Service) Status(ctx context.Context, productID int64) (bool, error) {
	if !s.auth.IsAuthenticated() {
		return false, nil
	}

	s.mu.Lock()
	v, ok := s.liked[productID]
	s.mu.Unlock()
	if ok {
		return v, nil
	}

	liked, err := s.gw.FavoriteStatus(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("favorite status %d: %w", productID, err)
	}
	s.mu.Lock()
	s.liked[productID] = liked
	s.mu.Unlock()
	return liked, nil
}

// Toggle flips the liked state of a product: POST when unliked, DELETE when
// liked. Cached state changes only after the request succeeds.
func (s *Service) Toggle(ctx context.Context, productID int64) (liked bool, err error) {
	if !s.auth.IsAuthenticated() {
		return false, errs.ErrUnauthenticated
	}

	current, err := s.Status(ctx, productID)
	if err != nil {
		return false, err
	}

	if current {
		if err := s.gw.RemoveFavorite(ctx, productID); err != nil {
			return current, fmt.Errorf("unlike product %d: %w", productID, err)
		}
	} else {
		if err := s.gw.AddFavorite(ctx, productID); err != nil {
			return current, fmt.Errorf("like product %d: %w", productID, err)
		}
	}

	s.mu.Lock()
	s.liked[productID] = !current
	if current {
		kept := s.items[:0]
		for _, p := range s.items {
			if p.ID != productID {
				kept = append(kept, p)
			}
		}
		s.items = kept
	} else {
		// A stub entry keeps the listing consistent until the next Refresh
		// fills in the full product.
		s.items = append(s.items, model.Product{ID: productID})
	}
	s.gen++
	s.mu.Unlock()
	s.notify()
	return !current, nil
}

// Reset drops all cached state. Called on logout and session invalidation.
func (s *Service) Reset() {
	s.mu.Lock()
	s.items = nil
	s.liked = map[int64]bool{}
	s.gen++
	s.mu.Unlock()
	s.notify()
}

func (s *Service) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
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
