package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/opryshko/bakehouse/internal/domain/cart"
)

// Sentinel errors for order operations.
var (
	// ErrNotFound is returned when no order matches the given ID.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidStatus is returned when a status string is not one of the
	// four recognized values.
	ErrInvalidStatus = errors.New("invalid order status")
)

// Status is the lifecycle state of an order.
//
// The intended flow is pending -> confirmed -> completed, with cancelled as
// the failure exit, but transitions are administrator-driven and deliberately
// unconstrained: any status may be overwritten with any other, including
// reopening a completed order. Nothing guards terminal states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", errors.Wrapf(ErrInvalidStatus, "%q", s)
}

// Order is a persisted checkout snapshot. Items and TotalAmount are frozen
// at creation time: later catalog price changes or cart mutations never
// affect a stored order. Status is the only field that changes after
// creation; there is no audit trail of prior statuses.
type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Items       []cart.Line     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Repository defines persistence operations for orders.
//
// Create assigns the next identifier (strictly greater than any existing
// one) and writes it back to o. Read accessors return copies, never live
// references into the store. UpdateStatus and GetByID return ErrNotFound
// for unknown IDs. Orders are never deleted.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListForUser(ctx context.Context, userID int64) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

// EventPublisher receives order lifecycle notifications. Implementations
// must not block order processing; a nil publisher disables events.
type EventPublisher interface {
	OrderCreated(ctx context.Context, o *Order)
	OrderStatusChanged(ctx context.Context, id int64, status Status)
}
