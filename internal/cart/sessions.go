package cart

import (
	"context"
	"sync"
	"time"
)

// DefaultSessionTTL is how long an untouched cart is kept.
const DefaultSessionTTL = 24 * time.Hour

type entry struct {
	store    *Store
	lastSeen time.Time
}

// Sessions holds one Store per visitor session. Carts live in memory only.
type Sessions struct {
	mu      sync.RWMutex
	entries map[string]*entry

	idleTTL time.Duration
	opts    []Option
	now     func() time.Time
}

func NewSessions(idleTTL time.Duration, opts ...Option) *Sessions {
	if idleTTL <= 0 {
		idleTTL = DefaultSessionTTL
	}
	return &Sessions{
		entries: make(map[string]*entry),
		idleTTL: idleTTL,
		opts:    opts,
		now:     time.Now,
	}
}

// Get returns the store for id, creating an empty one on first use. The
// lookup and the lastSeen touch happen under one lock so a concurrent Sweep
// cannot evict the store between them.
func (s *Sessions) Get(id string) *Store {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		e = &entry{store: NewStore(s.opts...)}
		s.entries[id] = e
	}
	e.lastSeen = now
	return e.store
}

func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if ok {
		e.store.Close()
	}
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Sessions) Sweep(now time.Time) int {
	var evicted []*Store

	s.mu.Lock()
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.idleTTL {
			evicted = append(evicted, e.store)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, st := range evicted {
		st.Close()
	}
	return len(evicted)
}

// Run sweeps on every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration, onSweep func(evicted int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n := s.Sweep(s.now())
			if onSweep != nil && n > 0 {
				onSweep(n)
			}
		}
	}
}
