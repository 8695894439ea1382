package printing

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// Create is a plain insert. Order ids are derived from the submission
// millisecond, so a colliding id means two submissions raced; the second is
// refused rather than silently replacing the first user's order.
func (r *postgresRepo) Create(ctx context.Context, o *Order) error {
	options, err := json.Marshal(o.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO print_orders
		  (id, user_id, user_email, file_name, file_type, file_base64,
		   options, total_price, status, ts, delivery_location)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		o.ID, o.UserID, o.UserEmail, o.FileName, o.FileType, o.FileBase64,
		options, o.TotalPrice, o.Status, o.Timestamp, o.DeliveryLocation)
	if err != nil {
		return fmt.Errorf("insert print order: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, user_email, file_name, file_type, file_base64,
		       options, total_price, status, ts, delivery_location
		FROM print_orders WHERE id=$1`, id)
	o, err := scanOrder(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("get print order: %w", err)
	}
	return o, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, user_email, file_name, file_type, file_base64,
		       options, total_price, status, ts, delivery_location
		FROM print_orders ORDER BY ts DESC`)
	if err != nil {
		return nil, fmt.Errorf("list print orders: %w", err)
	}
	defer rows.Close()
	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE print_orders SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return fmt.Errorf("update print order status: %w", err)
	}
	return nil
}

func scanOrder(scan func(dest ...interface{}) error) (*Order, error) {
	o := &Order{}
	var options []byte
	var deliveryLocation sql.NullString
	if err := scan(&o.ID, &o.UserID, &o.UserEmail, &o.FileName, &o.FileType,
		&o.FileBase64, &options, &o.TotalPrice, &o.Status, &o.Timestamp,
		&deliveryLocation); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(options, &o.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	o.DeliveryLocation = deliveryLocation.String
	return o, nil
}
