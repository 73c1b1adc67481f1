package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admin-service/internal/models"
)

// ErrRechargeNotFound is returned when a recharge entity does not exist.
var ErrRechargeNotFound = errors.New("recharge entity not found")

// RechargeRepository persists recharge providers, plans and transactions.
type RechargeRepository struct {
	db *gorm.DB
}

func NewRechargeRepository(db *gorm.DB) *RechargeRepository {
	return &RechargeRepository{db: db}
}

// ========== Providers ==========

func (r *RechargeRepository) CreateProvider(ctx context.Context, provider *models.RechargeProvider) error {
	if err := r.db.WithContext(ctx).Create(provider).Error; err != nil {
		return fmt.Errorf("failed to create recharge provider: %w", err)
	}
	return nil
}

func (r *RechargeRepository) GetProvider(ctx context.Context, id uuid.UUID) (*models.RechargeProvider, error) {
	var provider models.RechargeProvider
	if err := r.db.WithContext(ctx).First(&provider, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRechargeNotFound
		}
		return nil, fmt.Errorf("failed to get recharge provider: %w", err)
	}
	return &provider, nil
}

func (r *RechargeRepository) ListProviders(ctx context.Context) ([]models.RechargeProvider, error) {
	var providers []models.RechargeProvider
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("failed to list recharge providers: %w", err)
	}
	return providers, nil
}

func (r *RechargeRepository) UpdateProvider(ctx context.Context, provider *models.RechargeProvider) error {
	if err := r.db.WithContext(ctx).Save(provider).Error; err != nil {
		return fmt.Errorf("failed to update recharge provider: %w", err)
	}
	return nil
}

func (r *RechargeRepository) DeleteProvider(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RechargeProvider{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete recharge provider: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRechargeNotFound
	}
	return nil
}

// ========== Plans ==========

func (r *RechargeRepository) CreatePlan(ctx context.Context, plan *models.RechargePlan) error {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("failed to create recharge plan: %w", err)
	}
	return nil
}

func (r *RechargeRepository) ListPlans(ctx context.Context, providerID *uuid.UUID) ([]models.RechargePlan, error) {
	query := r.db.WithContext(ctx).Model(&models.RechargePlan{})
	if providerID != nil {
		query = query.Where("provider_id = ?", *providerID)
	}

	var plans []models.RechargePlan
	if err := query.Order("amount ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list recharge plans: %w", err)
	}
	return plans, nil
}

func (r *RechargeRepository) UpdatePlan(ctx context.Context, plan *models.RechargePlan) error {
	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		return fmt.Errorf("failed to update recharge plan: %w", err)
	}
	return nil
}

func (r *RechargeRepository) GetPlan(ctx context.Context, id uuid.UUID) (*models.RechargePlan, error) {
	var plan models.RechargePlan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRechargeNotFound
		}
		return nil, fmt.Errorf("failed to get recharge plan: %w", err)
	}
	return &plan, nil
}

func (r *RechargeRepository) DeletePlan(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RechargePlan{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete recharge plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRechargeNotFound
	}
	return nil
}

// ========== Transactions ==========

func (r *RechargeRepository) CreateTransaction(ctx context.Context, transaction *models.RechargeTransaction) error {
	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create recharge transaction: %w", err)
	}
	return nil
}

func (r *RechargeRepository) GetTransaction(ctx context.Context, id uuid.UUID) (*models.RechargeTransaction, error) {
	var transaction models.RechargeTransaction
	if err := r.db.WithContext(ctx).First(&transaction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRechargeNotFound
		}
		return nil, fmt.Errorf("failed to get recharge transaction: %w", err)
	}
	return &transaction, nil
}

func (r *RechargeRepository) ListTransactions(ctx context.Context, customerID *uuid.UUID, page, limit int) ([]models.RechargeTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RechargeTransaction{})
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recharge transactions: %w", err)
	}

	if page > 0 && limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	var transactions []models.RechargeTransaction
	if err := query.Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recharge transactions: %w", err)
	}
	return transactions, total, nil
}

func (r *RechargeRepository) UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status models.RechargeTransactionStatus) (*models.RechargeTransaction, error) {
	result := r.db.WithContext(ctx).Model(&models.RechargeTransaction{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update recharge transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRechargeNotFound
	}
	return r.GetTransaction(ctx, id)
}
