package auth

import "sync"

// Gate holds the current identity state and notifies subscribers when it
// changes. A nil identity means signed out. The mirror's subscription
// lifecycle is driven entirely by this gate.
type Gate struct {
	mu      sync.Mutex
	current *Identity
	subs    map[int]chan *Identity
	next    int
}

func NewGate() *Gate {
	return &Gate{subs: make(map[int]chan *Identity)}
}

// Current returns the identity last published, or nil when signed out.
func (g *Gate) Current() *Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Set publishes a new identity state. Subscribers that have not drained the
// previous notification only see the latest one.
func (g *Gate) Set(id *Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = id
	for _, ch := range g.subs {
		select {
		case <-ch:
		default:
		}
		ch <- id
	}
}

// Changes subscribes to identity state changes. The returned stop function is
// idempotent; after it returns no further notifications are delivered.
func (g *Gate) Changes() (<-chan *Identity, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch := make(chan *Identity, 1)
	key := g.next
	g.next++
	g.subs[key] = ch
	var once sync.Once
	stop := func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			delete(g.subs, key)
		})
	}
	return ch, stop
}
