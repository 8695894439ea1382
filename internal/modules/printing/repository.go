package printing

import "context"

// Repository defines the interface for print-order storage in the remote
// store. Create refuses an id that already exists. List returns orders sorted
// by submission timestamp descending; that ordering is a contract of this
// layer, downstream code never re-sorts.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
