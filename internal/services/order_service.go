package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"admin-service/internal/events"
	"admin-service/internal/models"
	"admin-service/internal/repository"
)

// AcceptResult bundles everything the dashboard needs after accepting an
// order: the updated order, the reconciliation outcome and which
// deductions actually committed.
type AcceptResult struct {
	Order   *models.Order          `json:"order"`
	Outcome *ReconciliationOutcome `json:"outcome"`
	Apply   *ApplyResult           `json:"apply"`
}

// OrderService implements the order lifecycle: reconciliation preview,
// acceptance with stock deduction, direct status changes and deletion.
type OrderService struct {
	orders     repository.OrderRepository
	reconciler *ReconcileService
	publisher  *events.Publisher
	logger     *logrus.Entry
}

func NewOrderService(
	orders repository.OrderRepository,
	reconciler *ReconcileService,
	publisher *events.Publisher,
	logger *logrus.Logger,
) *OrderService {
	return &OrderService{
		orders:     orders,
		reconciler: reconciler,
		publisher:  publisher,
		logger:     logger.WithField("component", "order-service"),
	}
}

// GetOrder returns a single order scoped to its customer.
func (s *OrderService) GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	return s.orders.GetByID(ctx, customerID, orderID)
}

// ListOrders returns orders matching the filter.
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, int64, error) {
	return s.orders.List(ctx, filter)
}

// Preview reconciles an order without committing anything. The operator
// uses this to inspect shortfall, restock, and retry before accepting.
func (s *OrderService) Preview(ctx context.Context, customerID, orderID uuid.UUID) (*ReconciliationOutcome, error) {
	order, err := s.orders.GetByID(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	return s.reconciler.Reconcile(ctx, order)
}

// Accept runs the fulfillment pass: reconcile, deduct stock for the
// covered items, then mark the order SHIPPED.
//
// The transition to SHIPPED is unconditional. An order with shortfall
// still ships whatever was covered; the outcome tells the operator what
// could not be fulfilled so they can remediate separately.
func (s *OrderService) Accept(ctx context.Context, customerID, orderID uuid.UUID) (*AcceptResult, error) {
	order, err := s.orders.GetByID(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.reconciler.Reconcile(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("reconciliation failed: %w", err)
	}

	apply := s.reconciler.ApplyDeductions(ctx, outcome.Sufficient)

	previousStatus := order.Status
	now := time.Now()
	updated, err := s.orders.UpdateStatus(ctx, customerID, orderID, map[string]interface{}{
		"status":     models.OrderStatusShipped,
		"shipped_at": now,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishOrderStatusChanged(ctx, updated, previousStatus, models.OrderStatusShipped)
	s.logger.WithFields(logrus.Fields{
		"orderNumber":  updated.OrderNumber,
		"applied":      len(apply.Applied),
		"failed":       len(apply.Failed),
		"insufficient": len(outcome.Insufficient),
	}).Info("Order accepted and shipped")

	return &AcceptResult{Order: updated, Outcome: outcome, Apply: apply}, nil
}

// SetStatus moves an order to any valid status from any current status.
// The operation is idempotent; setting the current status again is a
// successful no-op that leaves the lifecycle timestamps untouched.
// Entering SHIPPED, DELIVERED or CANCELED stamps the matching
// timestamp. No stock is touched on any transition.
func (s *OrderService) SetStatus(ctx context.Context, customerID, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("invalid order status: %s", status)
	}

	order, err := s.orders.GetByID(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	previousStatus := order.Status

	updates := map[string]interface{}{"status": status}
	if previousStatus != status {
		now := time.Now()
		switch status {
		case models.OrderStatusShipped:
			updates["shipped_at"] = now
		case models.OrderStatusDelivered:
			updates["delivered_at"] = now
		case models.OrderStatusCanceled:
			updates["canceled_at"] = now
		}
	}

	updated, err := s.orders.UpdateStatus(ctx, customerID, orderID, updates)
	if err != nil {
		return nil, err
	}

	if previousStatus != status {
		s.publisher.PublishOrderStatusChanged(ctx, updated, previousStatus, status)
	}
	s.logger.WithFields(logrus.Fields{
		"orderNumber": updated.OrderNumber,
		"from":        previousStatus,
		"to":          status,
	}).Info("Order status updated")

	return updated, nil
}

// DeleteOrder removes an order. Stock deducted for it is never restored;
// remediation is an explicit restock.
func (s *OrderService) DeleteOrder(ctx context.Context, customerID, orderID uuid.UUID) error {
	if err := s.orders.Delete(ctx, customerID, orderID); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"customerId": customerID,
		"orderId":    orderID,
	}).Info("Order deleted")
	return nil
}
