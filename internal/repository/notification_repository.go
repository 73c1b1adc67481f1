package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admin-service/internal/models"
)

// StockNotificationRepository persists out-of-stock waitlist entries.
type StockNotificationRepository interface {
	Create(ctx context.Context, notification *models.StockNotification) error
	ListWaiting(ctx context.Context, productID uuid.UUID) ([]models.StockNotification, error)
	List(ctx context.Context, status *models.StockNotificationStatus) ([]models.StockNotification, error)
	MarkNotified(ctx context.Context, ids []uuid.UUID) error
}

type stockNotificationRepository struct {
	db *gorm.DB
}

func NewStockNotificationRepository(db *gorm.DB) StockNotificationRepository {
	return &stockNotificationRepository{db: db}
}

func (r *stockNotificationRepository) Create(ctx context.Context, notification *models.StockNotification) error {
	// One WAITING entry per customer per product. Re-subscribing while
	// already waiting is a no-op from the customer's point of view.
	var existing int64
	err := r.db.WithContext(ctx).Model(&models.StockNotification{}).
		Where("product_id = ? AND customer_id = ? AND status = ?",
			notification.ProductID, notification.CustomerID, models.StockNotificationWaiting).
		Count(&existing).Error
	if err != nil {
		return fmt.Errorf("failed to check existing stock notification: %w", err)
	}
	if existing > 0 {
		return nil
	}

	notification.Status = models.StockNotificationWaiting
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create stock notification: %w", err)
	}
	return nil
}

func (r *stockNotificationRepository) ListWaiting(ctx context.Context, productID uuid.UUID) ([]models.StockNotification, error) {
	var notifications []models.StockNotification
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND status = ?", productID, models.StockNotificationWaiting).
		Order("created_at ASC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list waiting stock notifications: %w", err)
	}
	return notifications, nil
}

func (r *stockNotificationRepository) List(ctx context.Context, status *models.StockNotificationStatus) ([]models.StockNotification, error) {
	query := r.db.WithContext(ctx).Model(&models.StockNotification{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var notifications []models.StockNotification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock notifications: %w", err)
	}
	return notifications, nil
}

func (r *stockNotificationRepository) MarkNotified(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	err := r.db.WithContext(ctx).Model(&models.StockNotification{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":      models.StockNotificationNotified,
			"notified_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark stock notifications: %w", err)
	}
	return nil
}
