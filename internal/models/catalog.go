package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a catalog item with its live stock level.
type Product struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name              string     `json:"name" gorm:"type:varchar(255);not null;index"`
	SKU               string     `json:"sku" gorm:"type:varchar(100);uniqueIndex"`
	Description       string     `json:"description,omitempty" gorm:"type:text"`
	Price             float64    `json:"price" gorm:"type:decimal(10,2);not null"`
	MRP               float64    `json:"mrp" gorm:"type:decimal(10,2)"`
	Stock             int        `json:"stock" gorm:"not null;default:0"`
	LowStockThreshold int        `json:"lowStockThreshold" gorm:"default:5"`
	CategoryID        *uuid.UUID `json:"categoryId,omitempty" gorm:"type:uuid;index"`
	BrandID           *uuid.UUID `json:"brandId,omitempty" gorm:"type:uuid;index"`
	ImageURL          string     `json:"imageUrl,omitempty" gorm:"type:varchar(500)"`
	Unit              string     `json:"unit,omitempty" gorm:"type:varchar(30)"` // kg, g, L, pcs
	Active            bool       `json:"active" gorm:"default:true;index"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether stock has fallen to or below the threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// Category groups products for storefront navigation.
type Category struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	ImageURL  string    `json:"imageUrl,omitempty" gorm:"type:varchar(500)"`
	SortOrder int       `json:"sortOrder" gorm:"default:0"`
	Active    bool      `json:"active" gorm:"default:true"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Category) TableName() string {
	return "categories"
}

// Brand is a product manufacturer or label.
type Brand struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name     string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	LogoURL  string    `json:"logoUrl,omitempty" gorm:"type:varchar(500)"`
	Active   bool      `json:"active" gorm:"default:true"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Brand) TableName() string {
	return "brands"
}

// Banner is a promotional image shown on the storefront home screen.
type Banner struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title     string    `json:"title" gorm:"type:varchar(255)"`
	ImageURL  string    `json:"imageUrl" gorm:"type:varchar(500);not null"`
	TargetURL string    `json:"targetUrl,omitempty" gorm:"type:varchar(500)"`
	SortOrder int       `json:"sortOrder" gorm:"default:0"`
	Active    bool      `json:"active" gorm:"default:true"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Banner) TableName() string {
	return "banners"
}

// Video is a curated YouTube entry the dashboard manages.
type Video struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	YouTubeID string    `json:"youtubeId" gorm:"type:varchar(50);not null"`
	SortOrder int       `json:"sortOrder" gorm:"default:0"`
	Active    bool      `json:"active" gorm:"default:true"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Video) TableName() string {
	return "videos"
}

// StockNotificationStatus tracks whether a waiting customer has been notified.
type StockNotificationStatus string

const (
	StockNotificationWaiting  StockNotificationStatus = "WAITING"
	StockNotificationNotified StockNotificationStatus = "NOTIFIED"
)

// StockNotification records a customer waiting on an out-of-stock product.
// Restock resolves all WAITING rows for the product and publishes a push
// event for each.
type StockNotification struct {
	ID         uuid.UUID               `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID  uuid.UUID               `json:"productId" gorm:"type:uuid;not null;index:idx_stock_notifications_product_status,priority:1"`
	CustomerID uuid.UUID               `json:"customerId" gorm:"type:uuid;not null;index"`
	Status     StockNotificationStatus `json:"status" gorm:"type:varchar(20);not null;default:'WAITING';index:idx_stock_notifications_product_status,priority:2"`
	NotifiedAt *time.Time              `json:"notifiedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (StockNotification) TableName() string {
	return "stock_notifications"
}

// CreateProductRequest is the payload for product creation
type CreateProductRequest struct {
	Name              string     `json:"name" binding:"required"`
	SKU               string     `json:"sku"`
	Description       string     `json:"description"`
	Price             float64    `json:"price" binding:"required,gt=0"`
	MRP               float64    `json:"mrp"`
	Stock             int        `json:"stock" binding:"gte=0"`
	LowStockThreshold int        `json:"lowStockThreshold"`
	CategoryID        *uuid.UUID `json:"categoryId"`
	BrandID           *uuid.UUID `json:"brandId"`
	ImageURL          string     `json:"imageUrl"`
	Unit              string     `json:"unit"`
}

// UpdateProductRequest is the payload for product updates
type UpdateProductRequest struct {
	Name              *string    `json:"name"`
	SKU               *string    `json:"sku"`
	Description       *string    `json:"description"`
	Price             *float64   `json:"price"`
	MRP               *float64   `json:"mrp"`
	LowStockThreshold *int       `json:"lowStockThreshold"`
	CategoryID        *uuid.UUID `json:"categoryId"`
	BrandID           *uuid.UUID `json:"brandId"`
	ImageURL          *string    `json:"imageUrl"`
	Unit              *string    `json:"unit"`
	Active            *bool      `json:"active"`
}

// AdjustStockRequest is the payload for manual stock adjustments.
// Positive amounts restock, negative amounts write stock down.
type AdjustStockRequest struct {
	Amount int    `json:"amount" binding:"required"`
	Reason string `json:"reason"`
}
