package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-service/internal/models"
	"admin-service/internal/repository"
)

// PartnerHandler exposes CRUD for delivery/fulfillment partners.
type PartnerHandler struct {
	partners *repository.PartnerRepository
}

func NewPartnerHandler(partners *repository.PartnerRepository) *PartnerHandler {
	return &PartnerHandler{partners: partners}
}

func (h *PartnerHandler) CreatePartner(c *gin.Context) {
	var req models.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	partner := &models.Partner{
		Name:   req.Name,
		Phone:  req.Phone,
		Email:  req.Email,
		Area:   req.Area,
		Active: true,
	}
	if err := h.partners.Create(c.Request.Context(), partner); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create partner")
		return
	}
	respondMessage(c, http.StatusCreated, partner, "Partner created successfully")
}

func (h *PartnerHandler) GetPartner(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	partner, err := h.partners.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondPartnerError(c, err)
		return
	}
	respondData(c, http.StatusOK, partner)
}

func (h *PartnerHandler) ListPartners(c *gin.Context) {
	partners, err := h.partners.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list partners")
		return
	}
	respondData(c, http.StatusOK, partners)
}

func (h *PartnerHandler) UpdatePartner(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	partner, err := h.partners.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondPartnerError(c, err)
		return
	}

	if req.Name != nil {
		partner.Name = *req.Name
	}
	if req.Phone != nil {
		partner.Phone = *req.Phone
	}
	if req.Email != nil {
		partner.Email = *req.Email
	}
	if req.Area != nil {
		partner.Area = *req.Area
	}
	if req.Active != nil {
		partner.Active = *req.Active
	}

	if err := h.partners.Update(c.Request.Context(), partner); err != nil {
		respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update partner")
		return
	}
	respondMessage(c, http.StatusOK, partner, "Partner updated successfully")
}

func (h *PartnerHandler) DeletePartner(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.partners.Delete(c.Request.Context(), id); err != nil {
		h.respondPartnerError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "Partner deleted")
}

func (h *PartnerHandler) respondPartnerError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrPartnerNotFound) {
		respondError(c, http.StatusNotFound, "PARTNER_NOT_FOUND", "Partner not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "PARTNER_OPERATION_FAILED", err.Error())
}
