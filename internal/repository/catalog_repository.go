package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admin-service/internal/models"
)

// CatalogRepository persists the supporting catalog entities: categories,
// brands, banners and videos. These are simple CRUD tables with no
// business rules, so the repository is concrete.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ErrCatalogNotFound is returned when a catalog entity does not exist.
var ErrCatalogNotFound = errors.New("catalog entity not found")

// ========== Categories ==========

func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, &models.Category{}, id, "category")
}

// ========== Brands ==========

func (r *CatalogRepository) CreateBrand(ctx context.Context, brand *models.Brand) error {
	if err := r.db.WithContext(ctx).Create(brand).Error; err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogNotFound
		}
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	return &brand, nil
}

func (r *CatalogRepository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

func (r *CatalogRepository) UpdateBrand(ctx context.Context, brand *models.Brand) error {
	if err := r.db.WithContext(ctx).Save(brand).Error; err != nil {
		return fmt.Errorf("failed to update brand: %w", err)
	}
	return nil
}

func (r *CatalogRepository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, &models.Brand{}, id, "brand")
}

// ========== Banners ==========

func (r *CatalogRepository) CreateBanner(ctx context.Context, banner *models.Banner) error {
	if err := r.db.WithContext(ctx).Create(banner).Error; err != nil {
		return fmt.Errorf("failed to create banner: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListBanners(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	if err := r.db.WithContext(ctx).Order("sort_order ASC").Find(&banners).Error; err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	return banners, nil
}

func (r *CatalogRepository) UpdateBanner(ctx context.Context, banner *models.Banner) error {
	if err := r.db.WithContext(ctx).Save(banner).Error; err != nil {
		return fmt.Errorf("failed to update banner: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetBanner(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogNotFound
		}
		return nil, fmt.Errorf("failed to get banner: %w", err)
	}
	return &banner, nil
}

func (r *CatalogRepository) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, &models.Banner{}, id, "banner")
}

// ========== Videos ==========

func (r *CatalogRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListVideos(ctx context.Context) ([]models.Video, error) {
	var videos []models.Video
	if err := r.db.WithContext(ctx).Order("sort_order ASC").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

func (r *CatalogRepository) GetVideo(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &video, nil
}

func (r *CatalogRepository) UpdateVideo(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Save(video).Error; err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	return nil
}

func (r *CatalogRepository) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, &models.Video{}, id, "video")
}

func (r *CatalogRepository) deleteByID(ctx context.Context, model interface{}, id uuid.UUID, kind string) error {
	result := r.db.WithContext(ctx).Delete(model, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCatalogNotFound
	}
	return nil
}
