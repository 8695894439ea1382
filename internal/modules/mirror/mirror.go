package mirror

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/georgemunganga/pulse-backend/internal/modules/auth"
	"github.com/georgemunganga/pulse-backend/internal/modules/catalog"
	"github.com/georgemunganga/pulse-backend/internal/modules/printing"
	"github.com/georgemunganga/pulse-backend/internal/modules/remote"
)

// Mirror is the exclusive owner of the last-known-good snapshots of the three
// remote collections. All other components get read-only copies. Subscriptions
// run only while the auth gate reports an authenticated and verified identity;
// writes elsewhere are reflected here only once the change stream delivers
// them (eventual consistency, never a local pre-apply).
type Mirror struct {
	source Source
	gate   *auth.Gate
	log    *zap.Logger

	mu       sync.RWMutex
	outlets  []catalog.Outlet
	products []catalog.Product
	orders   []printing.Order

	subMu      sync.Mutex
	outletSub  *Stream[Emission[catalog.Outlet]]
	productSub *Stream[Emission[catalog.Product]]
	orderSub   *Stream[Emission[printing.Order]]
}

func New(source Source, gate *auth.Gate, log *zap.Logger) *Mirror {
	return &Mirror{source: source, gate: gate, log: log}
}

// Run drives the subscription lifecycle from the auth gate until ctx is
// cancelled. It reacts to the gate's current state immediately, then to every
// change notification.
func (m *Mirror) Run(ctx context.Context) error {
	changes, stop := m.gate.Changes()
	defer stop()

	m.applyGate(ctx, m.gate.Current())
	for {
		select {
		case <-ctx.Done():
			m.StopAll()
			return nil
		case id := <-changes:
			m.applyGate(ctx, id)
		}
	}
}

func (m *Mirror) applyGate(ctx context.Context, id *auth.Identity) {
	if id.Verified() {
		m.StartOutlets(ctx)
		m.StartProducts(ctx)
		m.StartPrintOrders(ctx)
		return
	}
	// Signed out or unverified: stop everything and clear to empty.
	m.StopAll()
	m.Reset()
}

// StartOutlets begins the outlets subscription if it is not already running.
func (m *Mirror) StartOutlets(ctx context.Context) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	if m.outletSub != nil {
		return
	}
	m.outletSub = m.source.WatchOutlets(ctx)
	go consume(m.outletSub, m.log, "outlets", m.setOutlets)
}

func (m *Mirror) StartProducts(ctx context.Context) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	if m.productSub != nil {
		return
	}
	m.productSub = m.source.WatchProducts(ctx)
	go consume(m.productSub, m.log, "products", m.setProducts)
}

func (m *Mirror) StartPrintOrders(ctx context.Context) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	if m.orderSub != nil {
		return
	}
	m.orderSub = m.source.WatchPrintOrders(ctx)
	go consume(m.orderSub, m.log, "print_orders", m.setOrders)
}

// StopOutlets ends the outlets subscription. Idempotent; after it returns no
// further emission reaches the snapshot.
func (m *Mirror) StopOutlets() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	if m.outletSub != nil {
		m.outletSub.Stop()
		m.outletSub = nil
	}
}

func (m *Mirror) StopProducts() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	if m.productSub != nil {
		m.productSub.Stop()
		m.productSub = nil
	}
}

func (m *Mirror) StopPrintOrders() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	if m.orderSub != nil {
		m.orderSub.Stop()
		m.orderSub = nil
	}
}

// StopAll ends all three subscriptions.
func (m *Mirror) StopAll() {
	m.StopOutlets()
	m.StopProducts()
	m.StopPrintOrders()
}

// consume applies each emission to the snapshot. An authorization failure
// clears the snapshot but keeps the stream running so it recovers on its own
// if authorization is restored; any other failure keeps the stale snapshot,
// which beats an empty one.
func consume[T any](st *Stream[Emission[T]], log *zap.Logger, collection string, set func([]T)) {
	for {
		select {
		case <-st.Done():
			return
		case em := <-st.C():
			switch {
			case em.Err == nil:
				set(em.Items)
			case remote.IsPermissionDenied(em.Err):
				set(nil)
				log.Warn("subscription lost authorization, snapshot cleared",
					zap.String("collection", collection), zap.Error(em.Err))
			default:
				log.Warn("subscription error, keeping stale snapshot",
					zap.String("collection", collection), zap.Error(em.Err))
			}
		}
	}
}

// Reset clears all three snapshots to empty.
func (m *Mirror) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outlets, m.products, m.orders = nil, nil, nil
}

// Outlets returns a copy of the outlets snapshot.
func (m *Mirror) Outlets() []catalog.Outlet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]catalog.Outlet, len(m.outlets))
	copy(out, m.outlets)
	return out
}

// Products returns a copy of the products snapshot.
func (m *Mirror) Products() []catalog.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]catalog.Product, len(m.products))
	copy(out, m.products)
	return out
}

// PrintOrders returns a copy of the print-orders snapshot, most recent first.
func (m *Mirror) PrintOrders() []printing.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]printing.Order, len(m.orders))
	copy(out, m.orders)
	return out
}

func (m *Mirror) setOutlets(outlets []catalog.Outlet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outlets = outlets
}

func (m *Mirror) setProducts(products []catalog.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = products
}

func (m *Mirror) setOrders(orders []printing.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = orders
}
