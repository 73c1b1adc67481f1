package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admin-service/internal/models"
	"admin-service/internal/repository"
	"admin-service/internal/services"
)

// OrderHandler exposes the order lifecycle endpoints.
type OrderHandler struct {
	service *services.OrderService
}

func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// ListOrders godoc
// @Summary List orders
// @Tags orders
// @Param status query string false "Filter by status"
// @Param customerId query string false "Filter by customer"
// @Success 200 {object} models.OrderListResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	filter := repository.OrderFilter{
		Page:  parseIntQuery(c, "page", 1),
		Limit: parseIntQuery(c, "limit", 20),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.OrderStatus(statusStr)
		if !models.IsValidOrderStatus(status) {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown order status: "+statusStr)
			return
		}
		filter.Status = &status
	}
	if customerStr := c.Query("customerId"); customerStr != "" {
		customerID, err := uuid.Parse(customerStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID")
			return
		}
		filter.CustomerID = &customerID
	}

	orders, total, err := h.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, models.OrderListResponse{
		Success:    true,
		Data:       orders,
		Pagination: models.NewPaginationMeta(filter.Page, filter.Limit, total),
	})
}

// ListCustomerOrders lists all orders for one customer.
func (h *OrderHandler) ListCustomerOrders(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}

	filter := repository.OrderFilter{
		CustomerID: &customerID,
		Page:       parseIntQuery(c, "page", 1),
		Limit:      parseIntQuery(c, "limit", 20),
	}
	orders, total, err := h.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, models.OrderListResponse{
		Success:    true,
		Data:       orders,
		Pagination: models.NewPaginationMeta(filter.Page, filter.Limit, total),
	})
}

// GetOrder returns one order.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	customerID, orderID, ok := h.orderPath(c)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), customerID, orderID)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// Reconcile godoc
// @Summary Preview stock reconciliation for an order
// @Tags orders
// @Success 200 {object} models.SuccessResponse
// @Router /customers/{customerId}/orders/{id}/reconcile [get]
func (h *OrderHandler) Reconcile(c *gin.Context) {
	customerID, orderID, ok := h.orderPath(c)
	if !ok {
		return
	}

	outcome, err := h.service.Preview(c.Request.Context(), customerID, orderID)
	if err != nil {
		if errors.Is(err, models.ErrLineItemUnresolvable) {
			respondError(c, http.StatusUnprocessableEntity, "MALFORMED_ITEMS", err.Error())
			return
		}
		h.respondOrderError(c, err)
		return
	}
	respondData(c, http.StatusOK, outcome)
}

// Accept reconciles, deducts covered stock and ships the order.
func (h *OrderHandler) Accept(c *gin.Context) {
	customerID, orderID, ok := h.orderPath(c)
	if !ok {
		return
	}

	result, err := h.service.Accept(c.Request.Context(), customerID, orderID)
	if err != nil {
		if errors.Is(err, models.ErrLineItemUnresolvable) {
			respondError(c, http.StatusUnprocessableEntity, "MALFORMED_ITEMS", err.Error())
			return
		}
		h.respondOrderError(c, err)
		return
	}

	message := "Order accepted and shipped"
	if result.Outcome.HasShortfall() {
		message = "Order shipped with unfulfilled items"
	}
	respondMessage(c, http.StatusOK, result, message)
}

// UpdateStatus sets the order to any valid status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	customerID, orderID, ok := h.orderPath(c)
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if !models.IsValidOrderStatus(req.Status) {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown order status: "+string(req.Status))
		return
	}

	order, err := h.service.SetStatus(c.Request.Context(), customerID, orderID, req.Status)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, order, "Order status updated")
}

// DeleteOrder removes an order without restoring stock.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	customerID, orderID, ok := h.orderPath(c)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(c.Request.Context(), customerID, orderID); err != nil {
		h.respondOrderError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "Order deleted")
}

func (h *OrderHandler) orderPath(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID")
		return uuid.Nil, uuid.Nil, false
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return uuid.Nil, uuid.Nil, false
	}
	return customerID, orderID, true
}

func (h *OrderHandler) respondOrderError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrOrderNotFound) {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "ORDER_OPERATION_FAILED", err.Error())
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	if value := c.Query(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func parseUUIDParam(c *gin.Context, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(key))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+key)
		return uuid.Nil, false
	}
	return id, true
}
