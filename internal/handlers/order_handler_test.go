package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-service/internal/models"
	"admin-service/internal/repository"
	"admin-service/internal/services"
)

// In-memory repositories backing the HTTP tests.

type memProducts struct {
	items map[uuid.UUID]*models.Product
}

func (m *memProducts) Create(ctx context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.items[p.ID] = p
	return nil
}

func (m *memProducts) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	copy := *p
	return &copy, nil
}

func (m *memProducts) List(ctx context.Context, f repository.ProductFilter) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range m.items {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *memProducts) ListLowStock(ctx context.Context) ([]models.Product, error) {
	return nil, nil
}

func (m *memProducts) Update(ctx context.Context, p *models.Product) error {
	m.items[p.ID] = p
	return nil
}

func (m *memProducts) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memProducts) DeductStock(ctx context.Context, id uuid.UUID, qty int) error {
	p, ok := m.items[id]
	if !ok {
		return models.ErrProductNotFound
	}
	if p.Stock < qty {
		return models.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (m *memProducts) AddStock(ctx context.Context, id uuid.UUID, amount int) (*models.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	p.Stock += amount
	copy := *p
	return &copy, nil
}

type memOrders struct {
	items map[uuid.UUID]*models.Order
}

func (m *memOrders) Create(ctx context.Context, o *models.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	m.items[o.ID] = o
	return nil
}

func (m *memOrders) GetByID(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	o, ok := m.items[orderID]
	if !ok || o.CustomerID != customerID {
		return nil, models.ErrOrderNotFound
	}
	copy := *o
	return &copy, nil
}

func (m *memOrders) List(ctx context.Context, f repository.OrderFilter) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range m.items {
		if f.CustomerID != nil && o.CustomerID != *f.CustomerID {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (m *memOrders) UpdateStatus(ctx context.Context, customerID, orderID uuid.UUID, updates map[string]interface{}) (*models.Order, error) {
	o, ok := m.items[orderID]
	if !ok || o.CustomerID != customerID {
		return nil, models.ErrOrderNotFound
	}
	if status, ok := updates["status"].(models.OrderStatus); ok {
		o.Status = status
	}
	if t, ok := updates["shipped_at"].(time.Time); ok {
		o.ShippedAt = &t
	}
	if t, ok := updates["delivered_at"].(time.Time); ok {
		o.DeliveredAt = &t
	}
	if t, ok := updates["canceled_at"].(time.Time); ok {
		o.CanceledAt = &t
	}
	copy := *o
	return &copy, nil
}

func (m *memOrders) Delete(ctx context.Context, customerID, orderID uuid.UUID) error {
	o, ok := m.items[orderID]
	if !ok || o.CustomerID != customerID {
		return models.ErrOrderNotFound
	}
	delete(m.items, orderID)
	return nil
}

type memNotifications struct{}

func (memNotifications) Create(ctx context.Context, n *models.StockNotification) error { return nil }
func (memNotifications) ListWaiting(ctx context.Context, productID uuid.UUID) ([]models.StockNotification, error) {
	return nil, nil
}
func (memNotifications) List(ctx context.Context, status *models.StockNotificationStatus) ([]models.StockNotification, error) {
	return nil, nil
}
func (memNotifications) MarkNotified(ctx context.Context, ids []uuid.UUID) error { return nil }

type testEnv struct {
	router   *gin.Engine
	products *memProducts
	orders   *memOrders
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	products := &memProducts{items: make(map[uuid.UUID]*models.Product)}
	orders := &memOrders{items: make(map[uuid.UUID]*models.Order)}

	reconciler := services.NewReconcileService(products, memNotifications{}, nil, logger)
	orderService := services.NewOrderService(orders, reconciler, nil, logger)
	handler := NewOrderHandler(orderService)

	router := gin.New()
	api := router.Group("/api/v1")
	{
		api.GET("/orders", handler.ListOrders)
		customers := api.Group("/customers/:customerId/orders")
		{
			customers.GET("", handler.ListCustomerOrders)
			customers.GET("/:id", handler.GetOrder)
			customers.GET("/:id/reconcile", handler.Reconcile)
			customers.POST("/:id/accept", handler.Accept)
			customers.PATCH("/:id/status", handler.UpdateStatus)
			customers.DELETE("/:id", handler.DeleteOrder)
		}
	}

	return &testEnv{router: router, products: products, orders: orders}
}

func (e *testEnv) seedOrder(t *testing.T, customerID uuid.UUID, items []map[string]interface{}) *models.Order {
	t.Helper()
	var raw models.JSONB
	if items != nil {
		data, err := json.Marshal(items)
		require.NoError(t, err)
		raw = models.JSONB(data)
	}
	order := &models.Order{
		ID:          uuid.New(),
		CustomerID:  customerID,
		OrderNumber: "ORD-HTTP-TEST",
		Status:      models.OrderStatusPending,
		Items:       raw,
	}
	e.orders.items[order.ID] = order
	return order
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestReconcileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	customer := uuid.New()
	rice := &models.Product{Name: "Rice", Stock: 2}
	require.NoError(t, env.products.Create(context.Background(), rice))

	order := env.seedOrder(t, customer, []map[string]interface{}{
		{"productId": rice.ID.String(), "quantity": 5},
	})

	rec := env.do(http.MethodGet, fmt.Sprintf("/api/v1/customers/%s/orders/%s/reconcile", customer, order.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Sufficient   []services.ItemOutcome `json:"sufficient"`
			Insufficient []services.ItemOutcome `json:"insufficient"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data.Insufficient, 1)
	assert.Equal(t, 2, resp.Data.Insufficient[0].AvailableStock)

	// Preview never changes stock.
	assert.Equal(t, 2, env.products.items[rice.ID].Stock)
}

func TestReconcileMalformedItemsReturns422(t *testing.T) {
	env := newTestEnv(t)
	customer := uuid.New()
	order := env.seedOrder(t, customer, []map[string]interface{}{
		{"quantity": 3},
	})

	rec := env.do(http.MethodGet, fmt.Sprintf("/api/v1/customers/%s/orders/%s/reconcile", customer, order.ID), "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "MALFORMED_ITEMS")
}

func TestAcceptEndpointShipsOrder(t *testing.T) {
	env := newTestEnv(t)
	customer := uuid.New()
	rice := &models.Product{Name: "Rice", Stock: 10}
	require.NoError(t, env.products.Create(context.Background(), rice))

	order := env.seedOrder(t, customer, []map[string]interface{}{
		{"productId": rice.ID.String(), "quantity": 4},
	})

	rec := env.do(http.MethodPost, fmt.Sprintf("/api/v1/customers/%s/orders/%s/accept", customer, order.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, models.OrderStatusShipped, env.orders.items[order.ID].Status)
	assert.Equal(t, 6, env.products.items[rice.ID].Stock)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)
	customer := uuid.New()
	order := env.seedOrder(t, customer, nil)

	rec := env.do(http.MethodPatch,
		fmt.Sprintf("/api/v1/customers/%s/orders/%s/status", customer, order.ID),
		`{"status":"DELIVERED"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.OrderStatusDelivered, env.orders.items[order.ID].Status)

	rec = env.do(http.MethodPatch,
		fmt.Sprintf("/api/v1/customers/%s/orders/%s/status", customer, order.ID),
		`{"status":"REFUNDED"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_STATUS")
}

func TestGetOrderNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, fmt.Sprintf("/api/v1/customers/%s/orders/%s", uuid.New(), uuid.New()), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ORDER_NOT_FOUND")

	rec = env.do(http.MethodGet, "/api/v1/customers/not-a-uuid/orders/also-bad", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteOrderEndpoint(t *testing.T) {
	env := newTestEnv(t)
	customer := uuid.New()
	order := env.seedOrder(t, customer, nil)

	rec := env.do(http.MethodDelete, fmt.Sprintf("/api/v1/customers/%s/orders/%s", customer, order.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/customers/%s/orders/%s", customer, order.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
