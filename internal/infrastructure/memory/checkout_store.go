package memory

import (
	"sync"
	"time"

	"github.com/amelia-salon/storefront/internal/domain/checkout"
)

// CheckoutStore holds checkout sessions keyed by cart id. Sessions share
// the cart's lifetime model: in-memory only, expired on inactivity.
type CheckoutStore struct {
	mu       sync.Mutex
	sessions map[string]*checkout.Session
	ttl      time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewCheckoutStore(ttl time.Duration) *CheckoutStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	s := &CheckoutStore{
		sessions: make(map[string]*checkout.Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *CheckoutStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(cartCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expire()
		case <-s.stop:
			return
		}
	}
}

func (s *CheckoutStore) expire() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// GetOrCreate returns the session for the cart, starting a fresh one at
// collecting-shipping if none exists or the previous one terminated.
func (s *CheckoutStore) GetOrCreate(cartID string) *checkout.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[cartID]; ok && !sess.State.Terminal() {
		return sess
	}
	sess := checkout.NewSession(cartID)
	s.sessions[cartID] = sess
	return sess
}

// Get returns the current session for the cart, if any.
func (s *CheckoutStore) Get(cartID string) (*checkout.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[cartID]
	if !ok {
		return nil, checkout.ErrSessionNotFound
	}
	return sess, nil
}

// Mutate runs fn on the session under the store lock.
func (s *CheckoutStore) Mutate(cartID string, fn func(sess *checkout.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[cartID]
	if !ok {
		return checkout.ErrSessionNotFound
	}
	return fn(sess)
}

// Drop removes the session after a terminal state has been observed.
func (s *CheckoutStore) Drop(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, cartID)
}

// Close stops the background cleanup and waits for it to finish.
func (s *CheckoutStore) Close() error {
	close(s.stop)
	s.wg.Wait()
	return nil
}
