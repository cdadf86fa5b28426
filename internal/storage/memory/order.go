package memory

import (
	"context"
	"sync"

	"github.com/opryshko/bakehouse/internal/domain/cart"
	"github.com/opryshko/bakehouse/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository is an in-memory order.Repository. Orders are append-only;
// only the status field changes after creation. Safe for concurrent use.
type OrderRepository struct {
	mu     sync.RWMutex
	orders []order.Order
}

// NewOrderRepository creates an empty OrderRepository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var max int64
	for _, existing := range r.orders {
		if existing.ID > max {
			max = existing.ID
		}
	}
	o.ID = max + 1
	r.orders = append(r.orders, copyOrder(*o))
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id int64) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.orders {
		if r.orders[i].ID == id {
			cp := copyOrder(r.orders[i])
			return &cp, nil
		}
	}
	return nil, order.ErrNotFound
}

// List returns all orders, newest first.
func (r *OrderRepository) List(_ context.Context) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]order.Order, 0, len(r.orders))
	for i := len(r.orders) - 1; i >= 0; i-- {
		out = append(out, copyOrder(r.orders[i]))
	}
	return out, nil
}

// ListForUser returns the orders belonging to userID, newest first.
func (r *OrderRepository) ListForUser(_ context.Context, userID int64) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []order.Order
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, copyOrder(r.orders[i]))
		}
	}
	return out, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id int64, status order.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].Status = status
			return nil
		}
	}
	return order.ErrNotFound
}

// copyOrder deep-copies the order so callers cannot mutate stored state
// without going through UpdateStatus.
func copyOrder(o order.Order) order.Order {
	items := make([]cart.Line, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
