// Package events publishes admin-service events to NATS JetStream for
// the external notification sender to fan out as push notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"

	"admin-service/internal/models"
)

const (
	streamName      = "ADMIN_EVENTS"
	subjectOrders   = "admin.order.status_changed"
	subjectLowStock = "admin.stock.low"
	subjectRestock  = "admin.stock.restocked"
)

// OrderStatusEvent notifies a customer their order moved to a new status.
type OrderStatusEvent struct {
	EventID        string    `json:"eventId"`
	OrderID        string    `json:"orderId"`
	OrderNumber    string    `json:"orderNumber"`
	CustomerID     string    `json:"customerId"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Timestamp      time.Time `json:"timestamp"`
}

// StockEvent covers low-stock alerts and restock notifications.
type StockEvent struct {
	EventID     string    `json:"eventId"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Stock       int       `json:"stock"`
	CustomerIDs []string  `json:"customerIds,omitempty"` // restock: waitlisted customers to notify
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher publishes events to JetStream. A nil *Publisher is safe to
// call; every method becomes a no-op so the service runs without NATS.
type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the admin events stream.
func NewPublisher(logger *logrus.Logger) (*Publisher, error) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	nc, err := nats.Connect(natsURL,
		nats.Name("admin-service"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Infof("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.WithError(err).Warn("NATS disconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{"admin.>"},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    24 * time.Hour * 7,
		Storage:   jetstream.FileStorage,
		Replicas:  1,
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to ensure admin events stream (may already exist)")
	}

	return &Publisher{
		nc:     nc,
		js:     js,
		logger: logger.WithField("component", "admin-events"),
	}, nil
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	p.nc.Close()
}

// PublishOrderStatusChanged publishes an order status transition.
func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, order *models.Order, previousStatus, newStatus models.OrderStatus) {
	if p == nil {
		return
	}
	p.publish(subjectOrders, OrderStatusEvent{
		EventID:        uuid.New().String(),
		OrderID:        order.ID.String(),
		OrderNumber:    order.OrderNumber,
		CustomerID:     order.CustomerID.String(),
		PreviousStatus: string(previousStatus),
		NewStatus:      string(newStatus),
		Timestamp:      time.Now().UTC(),
	})
}

// PublishLowStock publishes a low-stock alert for the admin dashboard.
func (p *Publisher) PublishLowStock(ctx context.Context, product *models.Product) {
	if p == nil {
		return
	}
	p.publish(subjectLowStock, StockEvent{
		EventID:     uuid.New().String(),
		ProductID:   product.ID.String(),
		ProductName: product.Name,
		Stock:       product.Stock,
		Timestamp:   time.Now().UTC(),
	})
}

// PublishRestocked publishes a restock notification carrying the
// waitlisted customers the sender should notify.
func (p *Publisher) PublishRestocked(ctx context.Context, product *models.Product, customerIDs []string) {
	if p == nil {
		return
	}
	p.publish(subjectRestock, StockEvent{
		EventID:     uuid.New().String(),
		ProductID:   product.ID.String(),
		ProductName: product.Name,
		Stock:       product.Stock,
		CustomerIDs: customerIDs,
		Timestamp:   time.Now().UTC(),
	})
}

// publish marshals and publishes asynchronously so event delivery never
// blocks the request path.
func (p *Publisher) publish(subject string, event interface{}) {
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		data, err := json.Marshal(event)
		if err != nil {
			p.logger.WithError(err).WithField("subject", subject).Error("Failed to marshal event")
			return
		}

		if _, err := p.js.Publish(pubCtx, subject, data); err != nil {
			p.logger.WithError(err).WithField("subject", subject).Error("Failed to publish event")
			return
		}
		p.logger.WithField("subject", subject).Debug("Event published")
	}()
}
