package remote

import "sync"

// InFlight tracks writes that have been issued but not yet resolved, so a
// second write against the same entity can be refused until the first one
// settles.
type InFlight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{keys: make(map[string]struct{})}
}

// Begin claims key for a write. It returns ErrInFlight if the key is already
// held.
func (f *InFlight) Begin(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, held := f.keys[key]; held {
		return ErrInFlight
	}
	f.keys[key] = struct{}{}
	return nil
}

// End releases key. Releasing an unclaimed key is a no-op.
func (f *InFlight) End(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, key)
}
