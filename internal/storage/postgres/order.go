package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opryshko/bakehouse/internal/domain/cart"
	"github.com/opryshko/bakehouse/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Order
// line snapshots are serialized to JSON for storage in a JSONB column; the
// id sequence provides the strictly increasing identifiers.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order and assigns the generated identifier back to o.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return errors.Wrap(err, "marshal order items")
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO orders (user_id, items, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		o.UserID, itemsJSON, o.TotalAmount, string(o.Status), o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}
	return nil
}

const orderColumns = `id, user_id, items, total_amount, status, created_at`

func scanOrder(row pgx.Row) (order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
		status    string
	)
	if err := row.Scan(&o.ID, &o.UserID, &itemsJSON, &o.TotalAmount, &status, &o.CreatedAt); err != nil {
		return o, err
	}
	o.Status = order.Status(status)

	var items []cart.Line
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return o, errors.Wrap(err, "unmarshal order items")
	}
	o.Items = items
	return o, nil
}

// GetByID returns a single order by identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	return &o, nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id DESC`)
}

// ListForUser returns the orders belonging to userID, newest first.
func (r *OrderRepository) ListForUser(ctx context.Context, userID int64) ([]order.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY id DESC`, userID)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateStatus overwrites the status of the given order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return errors.Wrapf(err, "update order %d status", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}
