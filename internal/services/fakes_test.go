package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"admin-service/internal/models"
	"admin-service/internal/repository"
)

func toTime(value interface{}) time.Time {
	if t, ok := value.(time.Time); ok {
		return t
	}
	return time.Time{}
}

// fakeProductRepository is a map-backed ProductRepository.
type fakeProductRepository struct {
	products     map[uuid.UUID]*models.Product
	deductCalls  int
	addCalls     int
	failDeductOn map[uuid.UUID]error
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{
		products:     make(map[uuid.UUID]*models.Product),
		failDeductOn: make(map[uuid.UUID]error),
	}
}

func (f *fakeProductRepository) add(product *models.Product) *models.Product {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = product
	return product
}

func (f *fakeProductRepository) Create(ctx context.Context, product *models.Product) error {
	f.add(product)
	return nil
}

func (f *fakeProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	copy := *product
	return &copy, nil
}

func (f *fakeProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepository) ListLowStock(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.IsLowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepository) Update(ctx context.Context, product *models.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return models.ErrProductNotFound
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.products[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepository) DeductStock(ctx context.Context, id uuid.UUID, quantity int) error {
	f.deductCalls++
	if err, ok := f.failDeductOn[id]; ok {
		return err
	}
	product, ok := f.products[id]
	if !ok {
		return models.ErrProductNotFound
	}
	if product.Stock < quantity {
		return models.ErrInsufficientStock
	}
	product.Stock -= quantity
	return nil
}

func (f *fakeProductRepository) AddStock(ctx context.Context, id uuid.UUID, amount int) (*models.Product, error) {
	f.addCalls++
	product, ok := f.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	product.Stock += amount
	copy := *product
	return &copy, nil
}

// fakeOrderRepository is a map-backed OrderRepository.
type fakeOrderRepository struct {
	orders map[uuid.UUID]*models.Order
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{orders: make(map[uuid.UUID]*models.Order)}
}

func (f *fakeOrderRepository) add(order *models.Order) *models.Order {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = fmt.Sprintf("ORD-%s", order.ID.String()[:8])
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	f.orders[order.ID] = order
	return order
}

func (f *fakeOrderRepository) Create(ctx context.Context, order *models.Order) error {
	f.add(order)
	return nil
}

func (f *fakeOrderRepository) GetByID(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok || order.CustomerID != customerID {
		return nil, models.ErrOrderNotFound
	}
	copy := *order
	return &copy, nil
}

func (f *fakeOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range f.orders {
		if filter.CustomerID != nil && o.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepository) UpdateStatus(ctx context.Context, customerID, orderID uuid.UUID, updates map[string]interface{}) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok || order.CustomerID != customerID {
		return nil, models.ErrOrderNotFound
	}
	for key, value := range updates {
		switch key {
		case "status":
			order.Status = value.(models.OrderStatus)
		case "shipped_at":
			t := toTime(value)
			order.ShippedAt = &t
		case "delivered_at":
			t := toTime(value)
			order.DeliveredAt = &t
		case "canceled_at":
			t := toTime(value)
			order.CanceledAt = &t
		}
	}
	copy := *order
	return &copy, nil
}

func (f *fakeOrderRepository) Delete(ctx context.Context, customerID, orderID uuid.UUID) error {
	order, ok := f.orders[orderID]
	if !ok || order.CustomerID != customerID {
		return models.ErrOrderNotFound
	}
	delete(f.orders, orderID)
	return nil
}

// fakeNotificationRepository is a slice-backed StockNotificationRepository.
type fakeNotificationRepository struct {
	notifications []*models.StockNotification
}

func newFakeNotificationRepository() *fakeNotificationRepository {
	return &fakeNotificationRepository{}
}

func (f *fakeNotificationRepository) Create(ctx context.Context, notification *models.StockNotification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	notification.Status = models.StockNotificationWaiting
	f.notifications = append(f.notifications, notification)
	return nil
}

func (f *fakeNotificationRepository) ListWaiting(ctx context.Context, productID uuid.UUID) ([]models.StockNotification, error) {
	var out []models.StockNotification
	for _, n := range f.notifications {
		if n.ProductID == productID && n.Status == models.StockNotificationWaiting {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepository) List(ctx context.Context, status *models.StockNotificationStatus) ([]models.StockNotification, error) {
	var out []models.StockNotification
	for _, n := range f.notifications {
		if status == nil || n.Status == *status {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepository) MarkNotified(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		for _, n := range f.notifications {
			if n.ID == id {
				n.Status = models.StockNotificationNotified
			}
		}
	}
	return nil
}

// fakeWalletRepository is a map-backed WalletRepository.
type fakeWalletRepository struct {
	balances map[uuid.UUID]float64
	entries  []*models.WalletTransaction
}

func newFakeWalletRepository() *fakeWalletRepository {
	return &fakeWalletRepository{balances: make(map[uuid.UUID]float64)}
}

func (f *fakeWalletRepository) Credit(ctx context.Context, customerID uuid.UUID, amount float64, note, reference string) (*models.WalletTransaction, error) {
	if _, ok := f.balances[customerID]; !ok {
		return nil, models.ErrCustomerNotFound
	}
	f.balances[customerID] += amount
	return f.record(customerID, models.WalletCredit, amount, note, reference), nil
}

func (f *fakeWalletRepository) Debit(ctx context.Context, customerID uuid.UUID, amount float64, note, reference string) (*models.WalletTransaction, error) {
	balance, ok := f.balances[customerID]
	if !ok {
		return nil, models.ErrCustomerNotFound
	}
	if balance < amount {
		return nil, models.ErrInsufficientFunds
	}
	f.balances[customerID] -= amount
	return f.record(customerID, models.WalletDebit, amount, note, reference), nil
}

func (f *fakeWalletRepository) record(customerID uuid.UUID, txType models.WalletTransactionType, amount float64, note, reference string) *models.WalletTransaction {
	entry := &models.WalletTransaction{
		ID:           uuid.New(),
		CustomerID:   customerID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: f.balances[customerID],
		Note:         note,
		Reference:    reference,
	}
	f.entries = append(f.entries, entry)
	return entry
}

func (f *fakeWalletRepository) ListTransactions(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.WalletTransaction, int64, error) {
	var out []models.WalletTransaction
	for _, e := range f.entries {
		if e.CustomerID == customerID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

// fakeRechargeStore is a map-backed rechargeStore.
type fakeRechargeStore struct {
	providers    map[uuid.UUID]*models.RechargeProvider
	transactions map[uuid.UUID]*models.RechargeTransaction
	failCreate   error
}

func newFakeRechargeStore() *fakeRechargeStore {
	return &fakeRechargeStore{
		providers:    make(map[uuid.UUID]*models.RechargeProvider),
		transactions: make(map[uuid.UUID]*models.RechargeTransaction),
	}
}

func (f *fakeRechargeStore) addProvider(name string) *models.RechargeProvider {
	provider := &models.RechargeProvider{ID: uuid.New(), Name: name, Active: true}
	f.providers[provider.ID] = provider
	return provider
}

func (f *fakeRechargeStore) GetProvider(ctx context.Context, id uuid.UUID) (*models.RechargeProvider, error) {
	provider, ok := f.providers[id]
	if !ok {
		return nil, repository.ErrRechargeNotFound
	}
	return provider, nil
}

func (f *fakeRechargeStore) CreateTransaction(ctx context.Context, transaction *models.RechargeTransaction) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	f.transactions[transaction.ID] = transaction
	return nil
}

func (f *fakeRechargeStore) GetTransaction(ctx context.Context, id uuid.UUID) (*models.RechargeTransaction, error) {
	transaction, ok := f.transactions[id]
	if !ok {
		return nil, repository.ErrRechargeNotFound
	}
	copy := *transaction
	return &copy, nil
}

func (f *fakeRechargeStore) UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status models.RechargeTransactionStatus) (*models.RechargeTransaction, error) {
	transaction, ok := f.transactions[id]
	if !ok {
		return nil, repository.ErrRechargeNotFound
	}
	transaction.Status = status
	copy := *transaction
	return &copy, nil
}
