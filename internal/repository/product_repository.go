package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"admin-service/internal/models"
)

// Cache TTL constants
const (
	productCacheTTL  = 5 * time.Minute
	productKeyPrefix = "midesi:products:"
)

// ProductRepository defines product persistence operations.
// Stock mutations are conditional single-statement updates so concurrent
// order acceptance cannot oversell.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	ListLowStock(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DeductStock decrements stock only when enough remains.
	// Returns models.ErrInsufficientStock when the row exists but the
	// guard fails, models.ErrProductNotFound when it does not exist.
	DeductStock(ctx context.Context, id uuid.UUID, quantity int) error

	// AddStock atomically increments stock and returns the updated row.
	AddStock(ctx context.Context, id uuid.UUID, amount int) (*models.Product, error)
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	Search     string
	ActiveOnly bool
	Page       int
	Limit      int
}

type productRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewProductRepository creates a product repository. The Redis client is
// optional; without it every read goes to Postgres.
func NewProductRepository(db *gorm.DB, redisClient *redis.Client) ProductRepository {
	return &productRepository{db: db, redis: redisClient}
}

func productCacheKey(id uuid.UUID) string {
	return productKeyPrefix + id.String()
}

func (r *productRepository) cacheGet(ctx context.Context, id uuid.UUID) *models.Product {
	if r.redis == nil {
		return nil
	}
	data, err := r.redis.Get(ctx, productCacheKey(id)).Bytes()
	if err != nil {
		return nil
	}
	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil
	}
	return &product
}

func (r *productRepository) cacheSet(ctx context.Context, product *models.Product) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	_ = r.redis.Set(ctx, productCacheKey(product.ID), data, productCacheTTL).Err()
}

func (r *productRepository) cacheInvalidate(ctx context.Context, id uuid.UUID) {
	if r.redis == nil {
		return
	}
	_ = r.redis.Del(ctx, productCacheKey(id)).Err()
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached := r.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	r.cacheSet(ctx, &product)
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", search, search)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (r *productRepository) ListLowStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("active = ? AND stock <= low_stock_threshold", true).
		Order("stock ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low-stock products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	r.cacheInvalidate(ctx, product.ID)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrProductNotFound
	}
	r.cacheInvalidate(ctx, id)
	return nil
}

func (r *productRepository) DeductStock(ctx context.Context, id uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to deduct stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing product from an insufficient one.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to deduct stock: %w", err)
		}
		if count == 0 {
			return models.ErrProductNotFound
		}
		return models.ErrInsufficientStock
	}
	r.cacheInvalidate(ctx, id)
	return nil
}

func (r *productRepository) AddStock(ctx context.Context, id uuid.UUID, amount int) (*models.Product, error) {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", amount))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to add stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrProductNotFound
	}
	r.cacheInvalidate(ctx, id)

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload product after restock: %w", err)
	}
	return &product, nil
}
