// Package events publishes order lifecycle notifications to NATS so other
// systems (kitchen displays, notification senders) can react to checkouts
// and status changes. Publishing is strictly best-effort: a missing broker
// or a failed publish never affects order processing.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/opryshko/bakehouse/internal/domain/order"
)

// Subjects for order lifecycle events.
const (
	SubjectOrderCreated       = "orders.created"
	SubjectOrderStatusChanged = "orders.status_changed"
)

var _ order.EventPublisher = (*Publisher)(nil)

// OrderCreatedEvent is the payload published on SubjectOrderCreated.
type OrderCreatedEvent struct {
	OrderID     int64     `json:"orderId"`
	UserID      int64     `json:"userId"`
	TotalAmount string    `json:"totalAmount"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OrderStatusChangedEvent is the payload published on SubjectOrderStatusChanged.
type OrderStatusChangedEvent struct {
	OrderID int64     `json:"orderId"`
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
}

// Publisher publishes order events to NATS. A Publisher with a nil
// connection silently drops events, so callers can wire it unconditionally
// and let configuration decide whether events flow.
type Publisher struct {
	nc *nats.Conn
}

// NewPublisher creates a Publisher. nc may be nil to disable publishing.
func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

// OrderCreated publishes an OrderCreatedEvent. Failures are logged, never
// returned: order placement must not depend on the broker.
func (p *Publisher) OrderCreated(ctx context.Context, o *order.Order) {
	if p.nc == nil {
		return
	}

	count := 0
	for _, l := range o.Items {
		count += l.Quantity
	}
	p.publish(ctx, SubjectOrderCreated, OrderCreatedEvent{
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount.StringFixed(2),
		ItemCount:   count,
		CreatedAt:   o.CreatedAt,
	})
}

// OrderStatusChanged publishes an OrderStatusChangedEvent.
func (p *Publisher) OrderStatusChanged(ctx context.Context, id int64, status order.Status) {
	if p.nc == nil {
		return
	}
	p.publish(ctx, SubjectOrderStatusChanged, OrderStatusChangedEvent{
		OrderID: id,
		Status:  string(status),
		At:      time.Now(),
	})
}

func (p *Publisher) publish(ctx context.Context, subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		zctx.From(ctx).Error("Marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}
	if err := p.nc.Publish(subject, data); err != nil {
		zctx.From(ctx).Warn("Publish event", zap.String("subject", subject), zap.Error(err))
	}
}
