package mirror

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/georgemunganga/pulse-backend/internal/modules/auth"
	"github.com/georgemunganga/pulse-backend/internal/modules/catalog"
	"github.com/georgemunganga/pulse-backend/internal/modules/printing"
	"github.com/georgemunganga/pulse-backend/internal/modules/remote"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSource hands out fresh streams on every watch call and remembers the
// most recent one per collection so tests can drive emissions.
type fakeSource struct {
	mu      sync.Mutex
	outlets *Stream[Emission[catalog.Outlet]]
	prods   *Stream[Emission[catalog.Product]]
	orders  *Stream[Emission[printing.Order]]
	watched chan string
}

func newFakeSource() *fakeSource {
	return &fakeSource{watched: make(chan string, 9)}
}

func (f *fakeSource) WatchOutlets(ctx context.Context) *Stream[Emission[catalog.Outlet]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outlets = NewStream[Emission[catalog.Outlet]]()
	f.watched <- "outlets"
	return f.outlets
}

func (f *fakeSource) WatchProducts(ctx context.Context) *Stream[Emission[catalog.Product]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prods = NewStream[Emission[catalog.Product]]()
	f.watched <- "products"
	return f.prods
}

func (f *fakeSource) WatchPrintOrders(ctx context.Context) *Stream[Emission[printing.Order]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = NewStream[Emission[printing.Order]]()
	f.watched <- "print_orders"
	return f.orders
}

func (f *fakeSource) outletStream() *Stream[Emission[catalog.Outlet]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outlets
}

func awaitWatches(t *testing.T, f *fakeSource, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.watched:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for subscriptions to start")
		}
	}
}

var verified = &auth.Identity{ID: "u1", Email: "u1@campus.edu", EmailVerified: true}

func startMirror(t *testing.T, source Source, gate *auth.Gate) *Mirror {
	t.Helper()
	m := New(source, gate, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return m
}

func TestGateDrivesSubscriptionLifecycle(t *testing.T) {
	source := newFakeSource()
	gate := auth.NewGate()
	m := startMirror(t, source, gate)

	// Signed out: nothing runs, snapshots empty.
	assert.Empty(t, m.Outlets())

	gate.Set(verified)
	awaitWatches(t, source, 3)

	require.True(t, source.outletStream().Emit(Emission[catalog.Outlet]{
		Items: []catalog.Outlet{{ID: "o1", Name: "Spice Route", Type: catalog.TypeFood}},
	}))
	require.Eventually(t, func() bool { return len(m.Outlets()) == 1 }, time.Second, time.Millisecond)

	// Signing out stops all subscriptions and clears every snapshot.
	gate.Set(nil)
	require.Eventually(t, func() bool { return len(m.Outlets()) == 0 }, time.Second, time.Millisecond)
	assert.False(t, source.outletStream().Emit(Emission[catalog.Outlet]{
		Items: []catalog.Outlet{{ID: "o2"}},
	}), "no emission may land after stop")
	assert.Empty(t, m.Outlets())
}

func TestUnverifiedIdentityGetsNoData(t *testing.T) {
	source := newFakeSource()
	gate := auth.NewGate()
	m := startMirror(t, source, gate)

	gate.Set(&auth.Identity{ID: "u2", Email: "u2@campus.edu", EmailVerified: false})

	// Give the run loop a chance to (incorrectly) subscribe.
	time.Sleep(20 * time.Millisecond)
	select {
	case name := <-source.watched:
		t.Fatalf("subscription %q started for unverified identity", name)
	default:
	}
	assert.Empty(t, m.Outlets())
}

func TestAuthFailureClearsSnapshotAndRecovers(t *testing.T) {
	source := newFakeSource()
	gate := auth.NewGate()
	gate.Set(verified)
	m := startMirror(t, source, gate)
	awaitWatches(t, source, 3)

	st := source.outletStream()
	require.True(t, st.Emit(Emission[catalog.Outlet]{Items: []catalog.Outlet{{ID: "o1"}}}))
	require.Eventually(t, func() bool { return len(m.Outlets()) == 1 }, time.Second, time.Millisecond)

	// Authorization lost mid-stream: snapshot clears, stream keeps running.
	denied := &pq.Error{Code: "42501"}
	require.True(t, st.Emit(Emission[catalog.Outlet]{Err: denied}))
	require.Eventually(t, func() bool { return len(m.Outlets()) == 0 }, time.Second, time.Millisecond)

	// Authorization restored: the same stream delivers again.
	require.True(t, st.Emit(Emission[catalog.Outlet]{Items: []catalog.Outlet{{ID: "o1"}, {ID: "o2"}}}))
	require.Eventually(t, func() bool { return len(m.Outlets()) == 2 }, time.Second, time.Millisecond)
}

func TestTransientFailureKeepsStaleSnapshot(t *testing.T) {
	source := newFakeSource()
	gate := auth.NewGate()
	gate.Set(verified)
	m := startMirror(t, source, gate)
	awaitWatches(t, source, 3)

	st := source.outletStream()
	require.True(t, st.Emit(Emission[catalog.Outlet]{Items: []catalog.Outlet{{ID: "o1"}}}))
	require.Eventually(t, func() bool { return len(m.Outlets()) == 1 }, time.Second, time.Millisecond)

	require.True(t, st.Emit(Emission[catalog.Outlet]{
		Err: remote.WrapKind(remote.KindUnavailable, errors.New("connection reset")),
	}))
	require.True(t, st.Emit(Emission[catalog.Outlet]{Err: errors.New("unclassified")}))

	// Stale beats empty for non-auth failures.
	assert.Len(t, m.Outlets(), 1)
}

func TestStopIsIdempotentAndRestartable(t *testing.T) {
	source := newFakeSource()
	gate := auth.NewGate()
	gate.Set(verified)
	m := startMirror(t, source, gate)
	awaitWatches(t, source, 3)

	m.StopOutlets()
	m.StopOutlets()
	m.StopAll()
	m.StopAll()

	// Restart hands out a fresh stream.
	m.StartOutlets(context.Background())
	awaitWatches(t, source, 1)
	require.True(t, source.outletStream().Emit(Emission[catalog.Outlet]{Items: []catalog.Outlet{{ID: "o9"}}}))
	require.Eventually(t, func() bool { return len(m.Outlets()) == 1 }, time.Second, time.Millisecond)
	m.StopOutlets()
}

func TestPrintOrderSnapshotKeepsSourceOrder(t *testing.T) {
	source := newFakeSource()
	gate := auth.NewGate()
	gate.Set(verified)
	m := startMirror(t, source, gate)
	awaitWatches(t, source, 3)

	source.mu.Lock()
	st := source.orders
	source.mu.Unlock()

	// The source owes most-recent-first ordering; the mirror must not reorder.
	require.True(t, st.Emit(Emission[printing.Order]{Items: []printing.Order{
		{ID: "print-3", Timestamp: 3},
		{ID: "print-2", Timestamp: 2},
		{ID: "print-1", Timestamp: 1},
	}}))
	require.Eventually(t, func() bool { return len(m.PrintOrders()) == 3 }, time.Second, time.Millisecond)
	orders := m.PrintOrders()
	assert.Equal(t, "print-3", orders[0].ID)
	assert.Equal(t, "print-1", orders[2].ID)
}

func TestStreamStopSuppressesInFlightEmission(t *testing.T) {
	st := NewStream[int]()
	st.Stop()
	st.Stop()
	assert.False(t, st.Emit(1))

	st2 := NewStream[int]()
	delivered := make(chan bool, 1)
	go func() { delivered <- st2.Emit(42) }()
	// The emission is blocked waiting for a consumer; stopping must release
	// it without delivery.
	st2.Stop()
	assert.False(t, <-delivered)
}
