package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle state of an order.
// Transitions are operator-driven and intentionally unrestricted: the
// dashboard needs to correct mistakes (e.g. DELIVERED back to SHIPPED),
// so SetStatus accepts any valid status from any current status.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// ValidOrderStatuses lists every status SetStatus accepts.
var ValidOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s OrderStatus) bool {
	for _, valid := range ValidOrderStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable label for the status.
func (s OrderStatus) DisplayName() string {
	switch s {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusShipped:
		return "Shipped"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCanceled:
		return "Canceled"
	default:
		return string(s)
	}
}

// Order represents a customer order.
//
// Items holds the raw line-item documents exactly as the storefront
// submitted them. Shapes vary between client versions, so they are kept
// as JSONB and normalized through ResolveLineItems at reconciliation
// time rather than at write time.
type Order struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID  uuid.UUID   `json:"customerId" gorm:"type:uuid;not null;index:idx_orders_customer;index:idx_orders_customer_status,priority:1"`
	OrderNumber string      `json:"orderNumber" gorm:"type:varchar(50);uniqueIndex"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index:idx_orders_customer_status,priority:2"`
	Items       JSONB       `json:"items" gorm:"type:jsonb"`
	Subtotal    float64     `json:"subtotal" gorm:"type:decimal(10,2);default:0"`
	DeliveryFee float64     `json:"deliveryFee" gorm:"type:decimal(10,2);default:0"`
	Total       float64     `json:"total" gorm:"type:decimal(10,2);default:0"`
	PaymentMode string      `json:"paymentMode" gorm:"type:varchar(30)"` // COD, WALLET, ONLINE
	Notes       string      `json:"notes,omitempty" gorm:"type:text"`
	PlacedAt    time.Time   `json:"placedAt"`
	ShippedAt   *time.Time  `json:"shippedAt,omitempty"`
	DeliveredAt *time.Time  `json:"deliveredAt,omitempty"`
	CanceledAt  *time.Time  `json:"canceledAt,omitempty"`

	CreatedAt time.Time      `json:"createdAt" gorm:"index:idx_orders_created,sort:desc"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate generates the order number and stamps PlacedAt
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderNumber == "" {
		o.OrderNumber = generateOrderNumber()
	}
	if o.PlacedAt.IsZero() {
		o.PlacedAt = time.Now()
	}
	return nil
}

// The random suffix keeps concurrent creates from colliding on the
// unique order_number index.
func generateOrderNumber() string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("ORD-%d-%s", time.Now().Unix(), suffix)
}

// RawItems decodes the stored JSONB items into raw line-item documents.
// An order with no items returns a nil slice, not an error.
func (o *Order) RawItems() ([]RawLineItem, error) {
	if len(o.Items) == 0 {
		return nil, nil
	}
	var items []RawLineItem
	if err := json.Unmarshal(o.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return items, nil
}

// UpdateOrderStatusRequest is the payload for status updates
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
	Notes  string      `json:"notes,omitempty"`
}

// OrderListResponse is the paginated envelope for order listings
type OrderListResponse struct {
	Success    bool            `json:"success"`
	Data       []Order         `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

// OrderResponse is the envelope for single-order operations
type OrderResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message *string     `json:"message,omitempty"`
}
