// Package session holds the client's authentication state: the bearer token
// and the user record, cached in memory and mirrored to persistent storage.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/gmzseverr/bazaarx-client/internal/model"
)

// Storage keys. Token and user record are always set and cleared together.
const (
	keyToken = "token"
	keyUser  = "user"
)

// Subscriber is notified synchronously after every session transition.
type Subscriber func(sess model.Session, authenticated bool)

// Store is the single source of truth for authentication state. Every reader
// goes through it; login, logout and 401 invalidation are the only writers.
type Store struct {
	mu      sync.Mutex
	storage Storage
	log     *zap.Logger

	sess   model.Session
	authed bool
	subs   []Subscriber
}

// NewStore creates an anonymous store backed by the given storage.
func NewStore(storage Storage, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{storage: storage, log: log}
}

// Restore loads the persisted session. Both entries must be present and the
// user record parseable; anything less clears storage and leaves the store
// anonymous. Fail-safe, never fail-open.
func (s *Store) Restore() {
	token, okT, errT := s.storage.Get(keyToken)
	raw, okU, errU := s.storage.Get(keyUser)
	if errT != nil || errU != nil || !okT || !okU || token == "" {
		s.reset()
		return
	}

	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn("persisted user record unreadable, resetting session", zap.Error(err))
		s.reset()
		return
	}

	s.mu.Lock()
	s.sess = model.Session{User: u, Token: token, ExpiresAt: tokenExpiry(token)}
	s.authed = true
	s.mu.Unlock()
	s.notify()
}

// Login persists the credential pair and flips the in-memory state before
// returning, so dependent readers observe the new session immediately.
func (s *Store) Login(u model.User, token string) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.storage.Set(keyToken, token); err != nil {
		return err
	}
	if err := s.storage.Set(keyUser, string(raw)); err != nil {
		return err
	}

	s.mu.Lock()
	s.sess = model.Session{User: u, Token: token, ExpiresAt: tokenExpiry(token)}
	s.authed = true
	s.mu.Unlock()
	s.notify()
	return nil
}

// Logout clears persisted and in-memory state unconditionally. Idempotent.
func (s *Store) Logout() {
	s.reset()
}

// Invalidate is the 401 path: same transition as Logout, logged for diagnosis.
func (s *Store) Invalidate() {
	s.log.Info("session invalidated by backend, returning to anonymous")
	s.reset()
}

// Current returns the cached session and whether it is authenticated.
func (s *Store) Current() (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess, s.authed
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed
}

// Token yields the bearer credential, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Token
}

// Subscribe registers fn for synchronous notification on every transition.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) reset() {
	// Best effort: memory state is authoritative even if storage removal fails.
	_ = s.storage.Remove(keyToken)
	_ = s.storage.Remove(keyUser)

	s.mu.Lock()
	s.sess = model.Session{}
	s.authed = false
	s.mu.Unlock()
	s.notify()
}

func (s *Store) notify() {
	s.mu.Lock()
	sess, authed := s.sess, s.authed
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(sess, authed)
	}
}

// tokenExpiry extracts the exp claim without validating the signature; the
// backend is the verifier, the client only uses it for diagnostics.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return time.Time{}
}
