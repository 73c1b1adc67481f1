package services

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-service/internal/models"
)

func newReconcileFixture() (*ReconcileService, *fakeProductRepository, *fakeNotificationRepository) {
	products := newFakeProductRepository()
	notifications := newFakeNotificationRepository()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewReconcileService(products, notifications, nil, logger), products, notifications
}

func orderWithItems(t *testing.T, customerID uuid.UUID, items []map[string]interface{}) *models.Order {
	t.Helper()
	var raw models.JSONB
	if items != nil {
		data, err := json.Marshal(items)
		require.NoError(t, err)
		raw = models.JSONB(data)
	}
	return &models.Order{
		ID:          uuid.New(),
		CustomerID:  customerID,
		OrderNumber: "ORD-TEST",
		Status:      models.OrderStatusPending,
		Items:       raw,
	}
}

func TestReconcileEmptyOrder(t *testing.T) {
	service, products, _ := newReconcileFixture()
	products.add(&models.Product{Name: "Rice", Stock: 10})

	outcome, err := service.Reconcile(context.Background(), orderWithItems(t, uuid.New(), nil))
	require.NoError(t, err)
	assert.Empty(t, outcome.Sufficient)
	assert.Empty(t, outcome.Insufficient)
	assert.False(t, outcome.HasShortfall())
	// A read pass never touches stock.
	assert.Zero(t, products.deductCalls)
}

func TestReconcileClassifiesItems(t *testing.T) {
	service, products, _ := newReconcileFixture()
	rice := products.add(&models.Product{Name: "Rice", Stock: 10})
	ghee := products.add(&models.Product{Name: "Ghee", Stock: 1})

	order := orderWithItems(t, uuid.New(), []map[string]interface{}{
		{"productId": rice.ID.String(), "quantity": 4},
		{"productId": ghee.ID.String(), "quantity": 3},
	})

	outcome, err := service.Reconcile(context.Background(), order)
	require.NoError(t, err)

	require.Len(t, outcome.Sufficient, 1)
	assert.Equal(t, rice.ID.String(), outcome.Sufficient[0].ProductID)
	assert.Equal(t, 10, outcome.Sufficient[0].AvailableStock)

	require.Len(t, outcome.Insufficient, 1)
	assert.Equal(t, ghee.ID.String(), outcome.Insufficient[0].ProductID)
	assert.Equal(t, 1, outcome.Insufficient[0].AvailableStock)
	assert.Equal(t, "insufficient stock", outcome.Insufficient[0].Reason)
	assert.True(t, outcome.HasShortfall())

	// Exact coverage counts as sufficient.
	order = orderWithItems(t, uuid.New(), []map[string]interface{}{
		{"productId": ghee.ID.String(), "quantity": 1},
	})
	outcome, err = service.Reconcile(context.Background(), order)
	require.NoError(t, err)
	assert.Len(t, outcome.Sufficient, 1)

	// Reconciliation never wrote stock.
	assert.Zero(t, products.deductCalls)
	assert.Equal(t, 10, products.products[rice.ID].Stock)
}

func TestReconcileMissingProduct(t *testing.T) {
	service, _, _ := newReconcileFixture()

	order := orderWithItems(t, uuid.New(), []map[string]interface{}{
		{"productId": uuid.New().String(), "quantity": 2},
		{"productId": "not-a-uuid", "qty": 1},
	})

	outcome, err := service.Reconcile(context.Background(), order)
	require.NoError(t, err)
	require.Len(t, outcome.Insufficient, 2)
	for _, item := range outcome.Insufficient {
		assert.Equal(t, 0, item.AvailableStock)
		assert.Equal(t, "not found", item.Reason)
	}
}

func TestReconcileUnresolvableItemAborts(t *testing.T) {
	service, products, _ := newReconcileFixture()
	rice := products.add(&models.Product{Name: "Rice", Stock: 10})

	order := orderWithItems(t, uuid.New(), []map[string]interface{}{
		{"productId": rice.ID.String(), "quantity": 2},
		{"quantity": 5}, // no product reference under any field
	})

	_, err := service.Reconcile(context.Background(), order)
	assert.ErrorIs(t, err, models.ErrLineItemUnresolvable)
	assert.Zero(t, products.deductCalls)
}

func TestApplyDeductions(t *testing.T) {
	service, products, _ := newReconcileFixture()
	rice := products.add(&models.Product{Name: "Rice", Stock: 10})
	ghee := products.add(&models.Product{Name: "Ghee", Stock: 5})

	result := service.ApplyDeductions(context.Background(), []ItemOutcome{
		{ProductID: rice.ID.String(), RequestedQuantity: 4, Decision: ItemSufficient},
		{ProductID: ghee.ID.String(), RequestedQuantity: 5, Decision: ItemSufficient},
	})

	assert.Len(t, result.Applied, 2)
	assert.Empty(t, result.Failed)
	assert.Equal(t, 6, products.products[rice.ID].Stock)
	assert.Equal(t, 0, products.products[ghee.ID].Stock)
}

func TestApplyDeductionsPartialFailure(t *testing.T) {
	service, products, _ := newReconcileFixture()
	rice := products.add(&models.Product{Name: "Rice", Stock: 10})
	ghee := products.add(&models.Product{Name: "Ghee", Stock: 5})
	products.failDeductOn[ghee.ID] = models.ErrInsufficientStock

	result := service.ApplyDeductions(context.Background(), []ItemOutcome{
		{ProductID: rice.ID.String(), RequestedQuantity: 4, Decision: ItemSufficient},
		{ProductID: ghee.ID.String(), RequestedQuantity: 2, Decision: ItemSufficient},
	})

	// The failed guard does not roll back the committed deduction.
	require.Len(t, result.Applied, 1)
	assert.Equal(t, rice.ID.String(), result.Applied[0].ProductID)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, ghee.ID.String(), result.Failed[0].ProductID)
	assert.Equal(t, 6, products.products[rice.ID].Stock)
	assert.Equal(t, 5, products.products[ghee.ID].Stock)
}

func TestRestockResolvesWaitlist(t *testing.T) {
	service, products, notifications := newReconcileFixture()
	rice := products.add(&models.Product{Name: "Rice", Stock: 0})

	customer := uuid.New()
	require.NoError(t, notifications.Create(context.Background(), &models.StockNotification{
		ProductID:  rice.ID,
		CustomerID: customer,
	}))

	product, err := service.Restock(context.Background(), rice.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, product.Stock)

	waiting, err := notifications.ListWaiting(context.Background(), rice.ID)
	require.NoError(t, err)
	assert.Empty(t, waiting)
}

func TestRestockValidation(t *testing.T) {
	service, products, _ := newReconcileFixture()
	rice := products.add(&models.Product{Name: "Rice", Stock: 5})

	_, err := service.Restock(context.Background(), rice.ID, 0)
	assert.Error(t, err)

	_, err = service.Restock(context.Background(), uuid.New(), 10)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}
