package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-service/internal/models"
	"admin-service/internal/repository"
)

// CustomerHandler exposes customer browsing for the admin dashboard.
type CustomerHandler struct {
	customers *repository.CustomerRepository
}

func NewCustomerHandler(customers *repository.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// ListCustomers returns customers matching the search query.
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	filter := repository.CustomerFilter{
		Search: c.Query("search"),
		Page:   parseIntQuery(c, "page", 1),
		Limit:  parseIntQuery(c, "limit", 20),
	}

	customers, total, err := h.customers.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       customers,
		"pagination": models.NewPaginationMeta(filter.Page, filter.Limit, total),
	})
}

// GetCustomer returns a profile with addresses and wallet balance.
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}

	customer, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondCustomerError(c, err)
		return
	}
	respondData(c, http.StatusOK, customer)
}

// UpdateCustomer applies a partial profile update.
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}

	var req models.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	customer, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondCustomerError(c, err)
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Active != nil {
		customer.Active = *req.Active
	}

	if err := h.customers.Update(c.Request.Context(), customer); err != nil {
		respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update customer")
		return
	}
	respondMessage(c, http.StatusOK, customer, "Customer updated successfully")
}

// DeleteCustomer soft-deletes a customer account.
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}

	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.respondCustomerError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "Customer deleted")
}

// ListAddresses returns the customer's delivery addresses.
func (h *CustomerHandler) ListAddresses(c *gin.Context) {
	id, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}

	addresses, err := h.customers.ListAddresses(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list addresses")
		return
	}
	respondData(c, http.StatusOK, addresses)
}

func (h *CustomerHandler) respondCustomerError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrCustomerNotFound) {
		respondError(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "CUSTOMER_OPERATION_FAILED", err.Error())
}
