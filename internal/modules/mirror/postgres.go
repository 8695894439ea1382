package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/georgemunganga/pulse-backend/internal/modules/catalog"
	"github.com/georgemunganga/pulse-backend/internal/modules/printing"
)

// Notification channels. A trigger on each collection table issues
// pg_notify on its channel after every insert, update, or delete.
const (
	channelOutlets     = "outlets_changed"
	channelProducts    = "products_changed"
	channelPrintOrders = "print_orders_changed"
)

const (
	minReconnect = time.Second
	maxReconnect = 30 * time.Second
	pingEvery    = 90 * time.Second
)

// PostgresSource renders the store's change streams with LISTEN/NOTIFY. A
// notification carries no payload; it only marks the collection dirty, and the
// full collection is re-read and emitted as an authoritative replacement. The
// listener reconnecting also triggers a re-read, which covers notifications
// missed while disconnected.
type PostgresSource struct {
	conninfo string
	catalog  catalog.Repository
	printing printing.Repository
	log      *zap.Logger
}

func NewPostgresSource(conninfo string, catalogRepo catalog.Repository, printRepo printing.Repository, log *zap.Logger) *PostgresSource {
	return &PostgresSource{conninfo: conninfo, catalog: catalogRepo, printing: printRepo, log: log}
}

func (s *PostgresSource) WatchOutlets(ctx context.Context) *Stream[Emission[catalog.Outlet]] {
	return watch(ctx, s, channelOutlets, s.catalog.ListOutlets)
}

func (s *PostgresSource) WatchProducts(ctx context.Context) *Stream[Emission[catalog.Product]] {
	return watch(ctx, s, channelProducts, s.catalog.ListProducts)
}

func (s *PostgresSource) WatchPrintOrders(ctx context.Context) *Stream[Emission[printing.Order]] {
	// Repository.List returns orders newest first, which is the ordering this
	// subscription owes its consumers.
	return watch(ctx, s, channelPrintOrders, s.printing.List)
}

func watch[T any](ctx context.Context, s *PostgresSource, channel string, fetch func(context.Context) ([]T, error)) *Stream[Emission[T]] {
	st := NewStream[Emission[T]]()
	listener := pq.NewListener(s.conninfo, minReconnect, maxReconnect, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			s.log.Warn("listener event", zap.String("channel", channel), zap.Error(err))
		}
	})

	go func() {
		defer listener.Close()
		if err := listener.Listen(channel); err != nil {
			st.Emit(Emission[T]{Err: fmt.Errorf("listen %s: %w", channel, err)})
			return
		}
		if !refresh(ctx, st, fetch) {
			return
		}
		ticker := time.NewTicker(pingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				st.Stop()
				return
			case <-st.Done():
				return
			case <-listener.Notify:
				// A nil notification marks a reconnect; either way the
				// collection is re-read in full.
				if !refresh(ctx, st, fetch) {
					return
				}
			case <-ticker.C:
				go listener.Ping()
			}
		}
	}()
	return st
}

// refresh re-reads the collection and emits it, or emits the classified
// failure. It reports false once the stream has stopped.
func refresh[T any](ctx context.Context, st *Stream[Emission[T]], fetch func(context.Context) ([]T, error)) bool {
	items, err := fetch(ctx)
	if err != nil {
		return st.Emit(Emission[T]{Err: err})
	}
	return st.Emit(Emission[T]{Items: items})
}
