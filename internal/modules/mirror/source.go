package mirror

import (
	"context"

	"github.com/georgemunganga/pulse-backend/internal/modules/catalog"
	"github.com/georgemunganga/pulse-backend/internal/modules/printing"
)

// Emission is one delivery from a collection subscription: either a full
// authoritative snapshot replacement, or a classified failure. Emissions are
// never diffs.
type Emission[T any] struct {
	Items []T
	Err   error
}

// Source produces the three collection subscriptions from the remote store.
// Implementations own the transport; the mirror stays decoupled from it.
// Print-order emissions must arrive sorted by submission timestamp
// descending; that ordering is owed by the source, not recomputed
// downstream.
type Source interface {
	WatchOutlets(ctx context.Context) *Stream[Emission[catalog.Outlet]]
	WatchProducts(ctx context.Context) *Stream[Emission[catalog.Product]]
	WatchPrintOrders(ctx context.Context) *Stream[Emission[printing.Order]]
}
