package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admin-service/internal/models"
	"admin-service/internal/repository"
	"admin-service/internal/services"
)

// WalletHandler exposes wallet history, manual adjustments and the
// recharge flow.
type WalletHandler struct {
	wallet   *services.WalletService
	recharge *repository.RechargeRepository
}

func NewWalletHandler(wallet *services.WalletService, recharge *repository.RechargeRepository) *WalletHandler {
	return &WalletHandler{wallet: wallet, recharge: recharge}
}

// History returns the customer's wallet ledger.
func (h *WalletHandler) History(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}

	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 20)
	entries, total, err := h.wallet.History(c.Request.Context(), customerID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list wallet transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       entries,
		"pagination": models.NewPaginationMeta(page, limit, total),
	})
}

// Credit adds funds to a customer wallet.
func (h *WalletHandler) Credit(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}

	var req models.WalletAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	entry, err := h.wallet.Credit(c.Request.Context(), customerID, req.Amount, req.Note)
	if err != nil {
		h.respondWalletError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, entry, "Wallet credited")
}

// Debit withdraws funds from a customer wallet.
func (h *WalletHandler) Debit(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}

	var req models.WalletAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	entry, err := h.wallet.Debit(c.Request.Context(), customerID, req.Amount, req.Note)
	if err != nil {
		h.respondWalletError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, entry, "Wallet debited")
}

// ========== Recharge providers/plans ==========

func (h *WalletHandler) CreateProvider(c *gin.Context) {
	var provider models.RechargeProvider
	if err := c.ShouldBindJSON(&provider); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if provider.Name == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Provider name is required")
		return
	}
	if err := h.recharge.CreateProvider(c.Request.Context(), &provider); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create provider")
		return
	}
	respondMessage(c, http.StatusCreated, provider, "Provider created successfully")
}

func (h *WalletHandler) ListProviders(c *gin.Context) {
	providers, err := h.recharge.ListProviders(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list providers")
		return
	}
	respondData(c, http.StatusOK, providers)
}

func (h *WalletHandler) UpdateProvider(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	provider, err := h.recharge.GetProvider(c.Request.Context(), id)
	if err != nil {
		h.respondRechargeError(c, err)
		return
	}
	if err := c.ShouldBindJSON(provider); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	provider.ID = id
	if err := h.recharge.UpdateProvider(c.Request.Context(), provider); err != nil {
		respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update provider")
		return
	}
	respondMessage(c, http.StatusOK, provider, "Provider updated successfully")
}

func (h *WalletHandler) DeleteProvider(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.recharge.DeleteProvider(c.Request.Context(), id); err != nil {
		h.respondRechargeError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "Provider deleted")
}

func (h *WalletHandler) CreatePlan(c *gin.Context) {
	var plan models.RechargePlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if plan.ProviderID == uuid.Nil || plan.Amount <= 0 {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Plan provider and positive amount are required")
		return
	}
	if err := h.recharge.CreatePlan(c.Request.Context(), &plan); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create plan")
		return
	}
	respondMessage(c, http.StatusCreated, plan, "Plan created successfully")
}

func (h *WalletHandler) ListPlans(c *gin.Context) {
	var providerID *uuid.UUID
	if providerStr := c.Query("providerId"); providerStr != "" {
		id, err := uuid.Parse(providerStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid provider ID")
			return
		}
		providerID = &id
	}

	plans, err := h.recharge.ListPlans(c.Request.Context(), providerID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list plans")
		return
	}
	respondData(c, http.StatusOK, plans)
}

func (h *WalletHandler) UpdatePlan(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	plan, err := h.recharge.GetPlan(c.Request.Context(), id)
	if err != nil {
		h.respondRechargeError(c, err)
		return
	}
	if err := c.ShouldBindJSON(plan); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	plan.ID = id
	if err := h.recharge.UpdatePlan(c.Request.Context(), plan); err != nil {
		respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update plan")
		return
	}
	respondMessage(c, http.StatusOK, plan, "Plan updated successfully")
}

func (h *WalletHandler) DeletePlan(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.recharge.DeletePlan(c.Request.Context(), id); err != nil {
		h.respondRechargeError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "Plan deleted")
}

// ========== Recharge transactions ==========

// CreateRecharge records a recharge against a customer and debits their
// wallet.
func (h *WalletHandler) CreateRecharge(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}

	var req models.CreateRechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	transaction, err := h.wallet.CreateRecharge(c.Request.Context(), customerID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrRechargeNotFound) {
			respondError(c, http.StatusNotFound, "PROVIDER_NOT_FOUND", "Recharge provider not found")
			return
		}
		h.respondWalletError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, transaction, "Recharge created")
}

// ListRecharges returns recharge transactions, optionally per customer.
func (h *WalletHandler) ListRecharges(c *gin.Context) {
	var customerID *uuid.UUID
	if customerStr := c.Query("customerId"); customerStr != "" {
		id, err := uuid.Parse(customerStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID")
			return
		}
		customerID = &id
	}

	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 20)
	transactions, total, err := h.recharge.ListTransactions(c.Request.Context(), customerID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list recharges")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       transactions,
		"pagination": models.NewPaginationMeta(page, limit, total),
	})
}

// SettleRecharge finalizes a pending recharge as SUCCESS or FAILED.
func (h *WalletHandler) SettleRecharge(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.RechargeTransactionStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	transaction, err := h.wallet.SettleRecharge(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrRechargeNotFound) {
			respondError(c, http.StatusNotFound, "RECHARGE_NOT_FOUND", "Recharge transaction not found")
			return
		}
		respondError(c, http.StatusBadRequest, "SETTLEMENT_FAILED", err.Error())
		return
	}
	respondMessage(c, http.StatusOK, transaction, "Recharge settled")
}

func (h *WalletHandler) respondWalletError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrCustomerNotFound):
		respondError(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found")
	case errors.Is(err, models.ErrInsufficientFunds):
		respondError(c, http.StatusConflict, "INSUFFICIENT_FUNDS", "Wallet balance does not cover the amount")
	default:
		respondError(c, http.StatusInternalServerError, "WALLET_OPERATION_FAILED", err.Error())
	}
}

func (h *WalletHandler) respondRechargeError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrRechargeNotFound) {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Recharge entity not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "RECHARGE_OPERATION_FAILED", err.Error())
}
