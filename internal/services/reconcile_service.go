package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"admin-service/internal/events"
	"admin-service/internal/models"
	"admin-service/internal/repository"
)

// ItemDecision classifies a reconciled line item.
type ItemDecision string

const (
	ItemSufficient   ItemDecision = "SUFFICIENT"
	ItemInsufficient ItemDecision = "INSUFFICIENT"
)

// ItemOutcome is the reconciliation verdict for one line item.
type ItemOutcome struct {
	ProductID         string       `json:"productId"`
	ProductName       string       `json:"productName,omitempty"`
	RequestedQuantity int          `json:"requestedQuantity"`
	AvailableStock    int          `json:"availableStock"`
	Decision          ItemDecision `json:"decision"`
	Reason            string       `json:"reason,omitempty"`
}

// ReconciliationOutcome partitions an order's items by stock coverage.
type ReconciliationOutcome struct {
	Sufficient   []ItemOutcome `json:"sufficient"`
	Insufficient []ItemOutcome `json:"insufficient"`
}

// HasShortfall reports whether any item cannot be fully covered.
func (o *ReconciliationOutcome) HasShortfall() bool {
	return len(o.Insufficient) > 0
}

// ApplyResult reports which deductions committed. Deductions are
// independent: a failure partway leaves earlier deductions in place and
// the remaining items are still attempted.
type ApplyResult struct {
	Applied []ItemOutcome `json:"applied"`
	Failed  []ItemOutcome `json:"failed"`
}

// ReconcileService implements the stock reconciliation pass that runs
// before an order is accepted, the deduction pass that commits it, and
// operator restocks.
type ReconcileService struct {
	products      repository.ProductRepository
	notifications repository.StockNotificationRepository
	publisher     *events.Publisher
	logger        *logrus.Entry
}

func NewReconcileService(
	products repository.ProductRepository,
	notifications repository.StockNotificationRepository,
	publisher *events.Publisher,
	logger *logrus.Logger,
) *ReconcileService {
	return &ReconcileService{
		products:      products,
		notifications: notifications,
		publisher:     publisher,
		logger:        logger.WithField("component", "reconcile-service"),
	}
}

// Reconcile checks every line item of the order against live stock.
// It is a pure read pass: no stock changes, no status changes.
//
// An order with no items reconciles to an empty outcome. A line item
// with no product reference at all fails the whole call before any
// classification, since a partial view of a malformed order is worse
// than no answer. A resolvable reference to a product that does not
// exist is reported as insufficient with zero available stock.
func (s *ReconcileService) Reconcile(ctx context.Context, order *models.Order) (*ReconciliationOutcome, error) {
	raws, err := order.RawItems()
	if err != nil {
		return nil, err
	}

	items, err := models.ResolveLineItems(raws)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", order.OrderNumber, err)
	}

	outcome := &ReconciliationOutcome{}
	for _, item := range items {
		outcome.add(s.reconcileItem(ctx, item))
	}

	s.logger.WithFields(logrus.Fields{
		"orderNumber":  order.OrderNumber,
		"sufficient":   len(outcome.Sufficient),
		"insufficient": len(outcome.Insufficient),
	}).Info("Order reconciled")

	return outcome, nil
}

func (s *ReconcileService) reconcileItem(ctx context.Context, item models.LineItem) ItemOutcome {
	result := ItemOutcome{
		ProductID:         item.ProductID,
		ProductName:       item.ProductName,
		RequestedQuantity: item.Quantity,
	}

	productID, err := uuid.Parse(item.ProductID)
	if err != nil {
		// A malformed id can never match a product row.
		result.Decision = ItemInsufficient
		result.Reason = "not found"
		return result
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		result.Decision = ItemInsufficient
		result.Reason = "not found"
		return result
	}

	if result.ProductName == "" {
		result.ProductName = product.Name
	}
	result.AvailableStock = product.Stock

	if product.Stock >= item.Quantity {
		result.Decision = ItemSufficient
	} else {
		result.Decision = ItemInsufficient
		result.Reason = "insufficient stock"
	}
	return result
}

func (o *ReconciliationOutcome) add(item ItemOutcome) {
	if item.Decision == ItemSufficient {
		o.Sufficient = append(o.Sufficient, item)
	} else {
		o.Insufficient = append(o.Insufficient, item)
	}
}

// ApplyDeductions commits the stock deductions for items reconciliation
// found sufficient. Each deduction is a conditional write, so an item
// another order drained since the reconcile pass fails its guard instead
// of driving stock negative. Failures are reported, not fatal.
func (s *ReconcileService) ApplyDeductions(ctx context.Context, items []ItemOutcome) *ApplyResult {
	result := &ApplyResult{}
	for _, item := range items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			item.Reason = "not found"
			result.Failed = append(result.Failed, item)
			continue
		}

		if err := s.products.DeductStock(ctx, productID, item.RequestedQuantity); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"productId": item.ProductID,
				"quantity":  item.RequestedQuantity,
			}).Warn("Stock deduction failed")
			item.Reason = err.Error()
			result.Failed = append(result.Failed, item)
			continue
		}
		result.Applied = append(result.Applied, item)
	}
	return result
}

// Restock adds stock to a product, resolves its waitlist and publishes a
// restock event so waiting customers get notified.
func (s *ReconcileService) Restock(ctx context.Context, productID uuid.UUID, amount int) (*models.Product, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("restock amount must be positive")
	}

	product, err := s.products.AddStock(ctx, productID, amount)
	if err != nil {
		return nil, err
	}

	waiting, err := s.notifications.ListWaiting(ctx, productID)
	if err != nil {
		// Stock is already added; the waitlist can be resolved later.
		s.logger.WithError(err).Warn("Failed to load stock waitlist after restock")
		return product, nil
	}
	if len(waiting) == 0 {
		return product, nil
	}

	ids := make([]uuid.UUID, 0, len(waiting))
	customerIDs := make([]string, 0, len(waiting))
	for _, n := range waiting {
		ids = append(ids, n.ID)
		customerIDs = append(customerIDs, n.CustomerID.String())
	}
	if err := s.notifications.MarkNotified(ctx, ids); err != nil {
		s.logger.WithError(err).Warn("Failed to resolve stock waitlist after restock")
		return product, nil
	}

	s.publisher.PublishRestocked(ctx, product, customerIDs)
	s.logger.WithFields(logrus.Fields{
		"productId": productID,
		"amount":    amount,
		"notified":  len(customerIDs),
	}).Info("Product restocked")

	return product, nil
}
