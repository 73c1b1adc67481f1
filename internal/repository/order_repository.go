package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admin-service/internal/models"
)

// OrderRepository defines order persistence operations. Orders always
// resolve through the owning customer so one customer's dashboard view
// can never reach into another's.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, customerID, orderID uuid.UUID, updates map[string]interface{}) (*models.Order, error)
	Delete(ctx context.Context, customerID, orderID uuid.UUID) error
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	CustomerID *uuid.UUID
	Status     *models.OrderStatus
	Page       int
	Limit      int
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND id = ?", customerID, orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, customerID, orderID uuid.UUID, updates map[string]interface{}) (*models.Order, error) {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("customer_id = ? AND id = ?", customerID, orderID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrOrderNotFound
	}
	return r.GetByID(ctx, customerID, orderID)
}

func (r *orderRepository) Delete(ctx context.Context, customerID, orderID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("customer_id = ? AND id = ?", customerID, orderID).
		Delete(&models.Order{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}
