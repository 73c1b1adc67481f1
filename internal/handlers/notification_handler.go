package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admin-service/internal/models"
	"admin-service/internal/repository"
)

// NotificationHandler exposes the out-of-stock waitlist.
type NotificationHandler struct {
	notifications repository.StockNotificationRepository
	products      repository.ProductRepository
}

func NewNotificationHandler(notifications repository.StockNotificationRepository, products repository.ProductRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, products: products}
}

// Subscribe adds a customer to a product's restock waitlist.
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	var req struct {
		ProductID  uuid.UUID `json:"productId" binding:"required"`
		CustomerID uuid.UUID `json:"customerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if _, err := h.products.GetByID(c.Request.Context(), req.ProductID); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "SUBSCRIBE_FAILED", err.Error())
		return
	}

	notification := &models.StockNotification{
		ProductID:  req.ProductID,
		CustomerID: req.CustomerID,
	}
	if err := h.notifications.Create(c.Request.Context(), notification); err != nil {
		respondError(c, http.StatusInternalServerError, "SUBSCRIBE_FAILED", "Failed to subscribe to restock notifications")
		return
	}
	respondMessage(c, http.StatusCreated, notification, "Subscribed to restock notifications")
}

// List returns waitlist entries, optionally filtered by status.
func (h *NotificationHandler) List(c *gin.Context) {
	var status *models.StockNotificationStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.StockNotificationStatus(statusStr)
		if s != models.StockNotificationWaiting && s != models.StockNotificationNotified {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown notification status: "+statusStr)
			return
		}
		status = &s
	}

	notifications, err := h.notifications.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list stock notifications")
		return
	}
	respondData(c, http.StatusOK, notifications)
}
