package catalog

import "context"

// Repository defines the interface for outlet and product storage in the
// remote document store. Upserts carry put semantics: writing an existing id
// silently overwrites it.
type Repository interface {
	UpsertOutlet(ctx context.Context, o *Outlet) error
	DeleteOutlet(ctx context.Context, id string) error
	ListOutlets(ctx context.Context) ([]Outlet, error)

	UpsertProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]Product, error)
}
