package cart

import (
	"sync"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

// DefaultNotificationTTL is how long a cart notification stays visible.
const DefaultNotificationTTL = 2 * time.Second

type Option func(*Store)

func WithNotificationTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is one visitor's cart. Items are unique by price ID and the total is
// kept in minor units, adjusted on every mutation.
type Store struct {
	mu sync.Mutex

	items []catalog.Price
	total int64

	note  *Notification
	gen   uint64
	timer *time.Timer

	ttl time.Duration
	now func() time.Time
}

func NewStore(opts ...Option) *Store {
	s := &Store{ttl: DefaultNotificationTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends p unless an item with the same ID is already present. Either
// way a notification is raised and returned.
func (s *Store) Add(p catalog.Price) Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ID == p.ID {
			return s.notifyLocked(KindInfo)
		}
	}

	s.items = append(s.items, p)
	s.total += p.UnitAmount
	return s.notifyLocked(KindSuccess)
}

// Remove drops the item with the given ID. It reports whether anything was
// removed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			s.total -= it.UnitAmount
			return true
		}
	}
	return false
}

// RemoveAll empties the cart. No notification is raised.
func (s *Store) RemoveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.total = 0
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Snapshot is a copy of the cart suitable for rendering.
type Snapshot struct {
	Items        []catalog.Price `json:"items"`
	Total        int64           `json:"total"`
	Notification *Notification   `json:"notification,omitempty"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]catalog.Price, len(s.items))
	copy(items, s.items)

	snap := Snapshot{Items: items, Total: s.total}
	if s.note != nil && s.now().Before(s.note.ExpiresAt) {
		n := *s.note
		snap.Notification = &n
	}
	return snap
}

// Notification returns the live notification, if any.
func (s *Store) Notification() (Notification, bool) {
	snap := s.Snapshot()
	if snap.Notification == nil {
		return Notification{}, false
	}
	return *snap.Notification, true
}

// Close stops a pending notification timer.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
