package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

const DefaultTTL = 2 * time.Hour

// Session is one browser's cart and shop filter. All access goes through With,
// which serializes operations on the same session.
type Session struct {
	ID string

	mu       sync.Mutex
	cart     *cart.Store
	criteria catalog.FilterCriteria
	lastSeen time.Time
}

// State is what With exposes to the callback.
type State struct {
	Cart     *cart.Store
	Criteria *catalog.FilterCriteria
}

// With runs fn while holding the session lock. fn must not retain State.
func (s *Session) With(fn func(st State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(State{Cart: s.cart, Criteria: &s.criteria})
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *log.Logger
}

func NewManager(ttl time.Duration, logger *log.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Resolve returns the live session for id, or a fresh one when id is empty,
// unknown or expired. created reports whether a new session was made.
func (m *Manager) Resolve(id string) (s *Session, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if s, ok := m.sessions[id]; ok && now.Sub(s.lastSeen) < m.ttl {
		s.lastSeen = now
		return s, false
	}
	delete(m.sessions, id)

	s = &Session{
		ID:       uuid.NewString(),
		cart:     cart.NewStore(),
		criteria: catalog.DefaultCriteria(),
		lastSeen: now,
	}
	m.sessions[s.ID] = s
	return s, true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many went.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) >= m.ttl {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.ttl / 4
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 && m.logger != nil {
				m.logger.Printf("sessions: expired %d, %d active", n, m.Len())
			}
		}
	}
}
