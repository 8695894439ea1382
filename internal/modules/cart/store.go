package cart

import (
	"sync"

	"github.com/georgemunganga/pulse-backend/internal/modules/catalog"
)

// Item is a product snapshot held in a cart, with the originating outlet's
// name denormalized for display. The snapshot is frozen at add time: later
// catalog changes do not refresh it.
type Item struct {
	catalog.Product
	Quantity   int    `json:"quantity"`
	OutletName string `json:"outletName"`
}

// Store holds one session's cart, in per-session memory only. Parallel
// requests from the same session serialize on the store's lock.
type Store struct {
	mu    sync.Mutex
	items []Item
}

func NewStore() *Store { return &Store{} }

// Add inserts the product with quantity 1, or increments the existing entry.
// There is at most one entry per product id.
func (s *Store) Add(p catalog.Product, outletName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i].Quantity++
			return
		}
	}
	s.items = append(s.items, Item{Product: p, Quantity: 1, OutletName: outletName})
}

// UpdateQuantity applies delta, clamping at zero. An entry reaching zero is
// removed outright, so a stored quantity is never observed as zero or
// negative.
func (s *Store) UpdateQuantity(id string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		q := s.items[i].Quantity + delta
		if q <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity = q
		}
		return
	}
}

// Items returns a copy of the cart contents in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// Total sums price × quantity over all items. No tax, discount, or delivery
// fee is applied at this layer.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Count is the total quantity across all items, for the cart badge.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Clear empties the cart. Used after checkout completes.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}
