package cart

import "sync"

// Manager hands each session its own cart store. The session lookup is
// guarded here; the stores themselves carry their own locks.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager() *Manager {
	return &Manager{stores: make(map[string]*Store)}
}

// For returns the cart for sessionID, creating it on first use.
func (m *Manager) For(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[sessionID]
	if !ok {
		s = NewStore()
		m.stores[sessionID] = s
	}
	return s
}

// Drop discards a session's cart.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}
