package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) UpsertOutlet(ctx context.Context, o *Outlet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO outlets (id, name, location, type, tags, image_url)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET
		  name=EXCLUDED.name, location=EXCLUDED.location, type=EXCLUDED.type,
		  tags=EXCLUDED.tags, image_url=EXCLUDED.image_url`,
		o.ID, o.Name, o.Location, o.Type, pq.Array(o.Tags), o.ImageURL)
	if err != nil {
		return fmt.Errorf("upsert outlet: %w", err)
	}
	return nil
}

// DeleteOutlet removes only the outlet row. Dependent products are left
// orphaned; OrphanedProducts surfaces them for admin cleanup.
func (r *postgresRepo) DeleteOutlet(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM outlets WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete outlet: %w", err)
	}
	return nil
}

func (r *postgresRepo) ListOutlets(ctx context.Context) ([]Outlet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, location, type, tags, image_url FROM outlets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list outlets: %w", err)
	}
	defer rows.Close()
	var outlets []Outlet
	for rows.Next() {
		var o Outlet
		var tags pq.StringArray
		var imageURL sql.NullString
		if err := rows.Scan(&o.ID, &o.Name, &o.Location, &o.Type, &tags, &imageURL); err != nil {
			return nil, err
		}
		o.Tags = tags
		o.ImageURL = imageURL.String
		outlets = append(outlets, o)
	}
	return outlets, rows.Err()
}

func (r *postgresRepo) UpsertProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, outlet_id, name, description, price, category, image_url, is_available)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
		  outlet_id=EXCLUDED.outlet_id, name=EXCLUDED.name, description=EXCLUDED.description,
		  price=EXCLUDED.price, category=EXCLUDED.category, image_url=EXCLUDED.image_url,
		  is_available=EXCLUDED.is_available`,
		p.ID, p.OutletID, p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.IsAvailable)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

func (r *postgresRepo) DeleteProduct(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *postgresRepo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, outlet_id, name, description, price, category, image_url, is_available
		FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var products []Product
	for rows.Next() {
		var p Product
		var category, imageURL sql.NullString
		if err := rows.Scan(&p.ID, &p.OutletID, &p.Name, &p.Description, &p.Price,
			&category, &imageURL, &p.IsAvailable); err != nil {
			return nil, err
		}
		p.Category = category.String
		p.ImageURL = imageURL.String
		products = append(products, p)
	}
	return products, rows.Err()
}
