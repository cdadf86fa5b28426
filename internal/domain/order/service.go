package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/opryshko/bakehouse/internal/domain/cart"
)

// Service manages the order lifecycle: creating orders from cart snapshots
// and driving status transitions.
//
// Create takes the line snapshot and total from the caller instead of
// consulting the cart itself, which keeps the service decoupled from cart
// internals. Clearing the cart after a successful checkout is likewise the
// caller's job. The caller is also expected to reject empty carts before
// calling Create; the service does not re-validate.
type Service struct {
	orders Repository
	events EventPublisher
	now    func() time.Time
}

// NewService creates an order Service. events may be nil to disable
// lifecycle notifications.
func NewService(orders Repository, events EventPublisher) *Service {
	return &Service{
		orders: orders,
		events: events,
		now:    time.Now,
	}
}

// Create persists a new pending order for userID from the given lines and
// total. The lines are copied, so later mutation of the source slice cannot
// alter the stored order.
func (s *Service) Create(ctx context.Context, userID int64, lines []cart.Line, total decimal.Decimal) (*Order, error) {
	items := make([]cart.Line, len(lines))
	copy(items, lines)

	o := &Order{
		UserID:      userID,
		Items:       items,
		TotalAmount: total,
		Status:      StatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	if s.events != nil {
		s.events.OrderCreated(ctx, o)
	}
	return o, nil
}

// UpdateStatus overwrites the status of an existing order. Any recognized
// status may replace any other; unknown order IDs yield ErrNotFound.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	if s.events != nil {
		s.events.OrderStatusChanged(ctx, id, status)
	}
	return nil
}

// List returns all orders.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// GetByID returns a single order.
func (s *Service) GetByID(ctx context.Context, id int64) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListForUser returns the orders belonging to userID.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Order, error) {
	return s.orders.ListForUser(ctx, userID)
}
