package services

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-service/internal/models"
)

type orderFixture struct {
	service  *OrderService
	orders   *fakeOrderRepository
	products *fakeProductRepository
}

func newOrderFixture() *orderFixture {
	products := newFakeProductRepository()
	orders := newFakeOrderRepository()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	reconciler := NewReconcileService(products, newFakeNotificationRepository(), nil, logger)
	return &orderFixture{
		service:  NewOrderService(orders, reconciler, nil, logger),
		orders:   orders,
		products: products,
	}
}

func TestAcceptShipsAndDeducts(t *testing.T) {
	f := newOrderFixture()
	customer := uuid.New()
	rice := f.products.add(&models.Product{Name: "Rice", Stock: 10})

	order := f.orders.add(orderWithItems(t, customer, []map[string]interface{}{
		{"productId": rice.ID.String(), "quantity": 4},
	}))

	result, err := f.service.Accept(context.Background(), customer, order.ID)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusShipped, result.Order.Status)
	require.NotNil(t, result.Order.ShippedAt)
	assert.Len(t, result.Apply.Applied, 1)
	assert.Equal(t, 6, f.products.products[rice.ID].Stock)
}

func TestAcceptShipsDespiteShortfall(t *testing.T) {
	f := newOrderFixture()
	customer := uuid.New()
	rice := f.products.add(&models.Product{Name: "Rice", Stock: 10})
	ghee := f.products.add(&models.Product{Name: "Ghee", Stock: 1})

	order := f.orders.add(orderWithItems(t, customer, []map[string]interface{}{
		{"productId": rice.ID.String(), "quantity": 4},
		{"productId": ghee.ID.String(), "quantity": 5},
	}))

	result, err := f.service.Accept(context.Background(), customer, order.ID)
	require.NoError(t, err)

	// Covered items ship, the shortfall is reported, status still moves.
	assert.Equal(t, models.OrderStatusShipped, result.Order.Status)
	assert.Len(t, result.Apply.Applied, 1)
	require.Len(t, result.Outcome.Insufficient, 1)
	assert.Equal(t, ghee.ID.String(), result.Outcome.Insufficient[0].ProductID)
	assert.Equal(t, 6, f.products.products[rice.ID].Stock)
	assert.Equal(t, 1, f.products.products[ghee.ID].Stock)
}

func TestAcceptAbortsOnMalformedItems(t *testing.T) {
	f := newOrderFixture()
	customer := uuid.New()
	rice := f.products.add(&models.Product{Name: "Rice", Stock: 10})

	order := f.orders.add(orderWithItems(t, customer, []map[string]interface{}{
		{"productId": rice.ID.String(), "quantity": 2},
		{"qty": 3},
	}))

	_, err := f.service.Accept(context.Background(), customer, order.ID)
	assert.ErrorIs(t, err, models.ErrLineItemUnresolvable)

	// Nothing was written: no deduction, no status change.
	assert.Equal(t, 10, f.products.products[rice.ID].Stock)
	assert.Equal(t, models.OrderStatusPending, f.orders.orders[order.ID].Status)
}

func TestAcceptWrongCustomer(t *testing.T) {
	f := newOrderFixture()
	order := f.orders.add(orderWithItems(t, uuid.New(), nil))

	_, err := f.service.Accept(context.Background(), uuid.New(), order.ID)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestSetStatusStampsTimestamps(t *testing.T) {
	f := newOrderFixture()
	customer := uuid.New()
	order := f.orders.add(orderWithItems(t, customer, nil))

	updated, err := f.service.SetStatus(context.Background(), customer, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)
	assert.NotNil(t, updated.DeliveredAt)
	assert.Nil(t, updated.ShippedAt)

	updated, err = f.service.SetStatus(context.Background(), customer, order.ID, models.OrderStatusCanceled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, updated.Status)
	assert.NotNil(t, updated.CanceledAt)
}

func TestSetStatusIsTotal(t *testing.T) {
	f := newOrderFixture()
	customer := uuid.New()
	order := f.orders.add(orderWithItems(t, customer, nil))

	// Any valid status is reachable from any other, including backwards.
	transitions := []models.OrderStatus{
		models.OrderStatusDelivered,
		models.OrderStatusPending,
		models.OrderStatusShipped,
		models.OrderStatusCanceled,
		models.OrderStatusShipped,
	}
	for _, status := range transitions {
		updated, err := f.service.SetStatus(context.Background(), customer, order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestSetStatusIdempotent(t *testing.T) {
	f := newOrderFixture()
	customer := uuid.New()
	order := f.orders.add(orderWithItems(t, customer, nil))

	first, err := f.service.SetStatus(context.Background(), customer, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	require.NotNil(t, first.ShippedAt)

	// The repeat must not move the lifecycle timestamp.
	second, err := f.service.SetStatus(context.Background(), customer, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	require.NotNil(t, second.ShippedAt)
	assert.Equal(t, *first.ShippedAt, *second.ShippedAt)
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	f := newOrderFixture()
	customer := uuid.New()
	order := f.orders.add(orderWithItems(t, customer, nil))

	_, err := f.service.SetStatus(context.Background(), customer, order.ID, models.OrderStatus("REFUNDED"))
	assert.Error(t, err)
}

func TestDeleteOrderNeverRestoresStock(t *testing.T) {
	f := newOrderFixture()
	customer := uuid.New()
	rice := f.products.add(&models.Product{Name: "Rice", Stock: 10})

	order := f.orders.add(orderWithItems(t, customer, []map[string]interface{}{
		{"productId": rice.ID.String(), "quantity": 4},
	}))

	_, err := f.service.Accept(context.Background(), customer, order.ID)
	require.NoError(t, err)
	require.Equal(t, 6, f.products.products[rice.ID].Stock)

	require.NoError(t, f.service.DeleteOrder(context.Background(), customer, order.ID))
	assert.Equal(t, 6, f.products.products[rice.ID].Stock)

	err = f.service.DeleteOrder(context.Background(), customer, order.ID)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestPreviewDoesNotWrite(t *testing.T) {
	f := newOrderFixture()
	customer := uuid.New()
	rice := f.products.add(&models.Product{Name: "Rice", Stock: 3})

	order := f.orders.add(orderWithItems(t, customer, []map[string]interface{}{
		{"productId": rice.ID.String(), "quantity": 5},
	}))

	outcome, err := f.service.Preview(context.Background(), customer, order.ID)
	require.NoError(t, err)
	assert.True(t, outcome.HasShortfall())
	assert.Equal(t, 3, f.products.products[rice.ID].Stock)
	assert.Equal(t, models.OrderStatusPending, f.orders.orders[order.ID].Status)
}
