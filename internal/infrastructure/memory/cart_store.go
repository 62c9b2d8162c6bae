package memory

import (
	"sync"
	"time"

	"github.com/amelia-salon/storefront/internal/domain/cart"
)

const cartCleanupInterval = time.Minute

// CartStore keeps session carts in process memory. Carts expire after
// the configured TTL of inactivity; an abandoned checkout leaves no
// persisted trace.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]*cart.Cart
	ttl   time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewCartStore(ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	s := &CartStore{
		carts: make(map[string]*cart.Cart),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *CartStore) cleanupLoop() {
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

func (s *CartStore) expire() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.carts {
		if c.UpdatedAt.Before(cutoff) {
			delete(s.carts, id)
		}
	}
}

// GetOrCreate returns the cart for the session, creating an empty one on
// first touch.
func (s *CartStore) GetOrCreate(id string) *cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[id]; ok {
		return c
	}
	c := cart.New(id)
	s.carts[id] = c
	return c
}

// Get returns the cart or nil when the session has none.
func (s *CartStore) Get(id string) *cart.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.carts[id]
}

// Mutate runs fn while holding the store lock, so cart operations from
// the same session do not interleave.
func (s *CartStore) Mutate(id string, fn func(c *cart.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		c = cart.New(id)
		s.carts[id] = c
	}
	return fn(c)
}

// Close stops the background cleanup and waits for it to finish.
func (s *CartStore) Close() error {
	close(s.stop)
	s.wg.Wait()
	return nil
}
