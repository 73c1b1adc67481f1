package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admin-service/internal/models"
)

// ErrPartnerNotFound is returned when a partner does not exist.
var ErrPartnerNotFound = errors.New("partner not found")

// PartnerRepository persists delivery/fulfillment partners.
type PartnerRepository struct {
	db *gorm.DB
}

func NewPartnerRepository(db *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

func (r *PartnerRepository) Create(ctx context.Context, partner *models.Partner) error {
	if err := r.db.WithContext(ctx).Create(partner).Error; err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}
	return nil
}

func (r *PartnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	var partner models.Partner
	if err := r.db.WithContext(ctx).First(&partner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	return &partner, nil
}

func (r *PartnerRepository) List(ctx context.Context, activeOnly bool) ([]models.Partner, error) {
	query := r.db.WithContext(ctx).Model(&models.Partner{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var partners []models.Partner
	if err := query.Order("name ASC").Find(&partners).Error; err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return partners, nil
}

func (r *PartnerRepository) Update(ctx context.Context, partner *models.Partner) error {
	if err := r.db.WithContext(ctx).Save(partner).Error; err != nil {
		return fmt.Errorf("failed to update partner: %w", err)
	}
	return nil
}

func (r *PartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Partner{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete partner: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPartnerNotFound
	}
	return nil
}
