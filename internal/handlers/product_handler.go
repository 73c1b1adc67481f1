package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admin-service/internal/events"
	"admin-service/internal/models"
	"admin-service/internal/repository"
	"admin-service/internal/services"
)

// ProductHandler exposes product CRUD, stock adjustment and low-stock
// listings.
type ProductHandler struct {
	products   repository.ProductRepository
	reconciler *services.ReconcileService
	publisher  *events.Publisher
}

func NewProductHandler(products repository.ProductRepository, reconciler *services.ReconcileService, publisher *events.Publisher) *ProductHandler {
	return &ProductHandler{products: products, reconciler: reconciler, publisher: publisher}
}

// CreateProduct creates a product.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product := &models.Product{
		Name:              req.Name,
		SKU:               req.SKU,
		Description:       req.Description,
		Price:             req.Price,
		MRP:               req.MRP,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		CategoryID:        req.CategoryID,
		BrandID:           req.BrandID,
		ImageURL:          req.ImageURL,
		Unit:              req.Unit,
		Active:            true,
	}
	if product.LowStockThreshold == 0 {
		product.LowStockThreshold = 5
	}

	if err := h.products.Create(c.Request.Context(), product); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create product")
		return
	}
	respondMessage(c, http.StatusCreated, product, "Product created successfully")
}

// GetProduct returns one product.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondProductError(c, err)
		return
	}
	respondData(c, http.StatusOK, product)
}

// ListProducts returns products matching the query filters.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active") == "true",
		Page:       parseIntQuery(c, "page", 1),
		Limit:      parseIntQuery(c, "limit", 20),
	}
	if categoryStr := c.Query("categoryId"); categoryStr != "" {
		categoryID, err := uuid.Parse(categoryStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID")
			return
		}
		filter.CategoryID = &categoryID
	}
	if brandStr := c.Query("brandId"); brandStr != "" {
		brandID, err := uuid.Parse(brandStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid brand ID")
			return
		}
		filter.BrandID = &brandID
	}

	products, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       products,
		"pagination": models.NewPaginationMeta(filter.Page, filter.Limit, total),
	})
}

// ListLowStock returns active products at or below their threshold.
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	products, err := h.products.ListLowStock(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list low-stock products")
		return
	}
	respondData(c, http.StatusOK, products)
}

// UpdateProduct applies a partial update.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondProductError(c, err)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.MRP != nil {
		product.MRP = *req.MRP
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.BrandID != nil {
		product.BrandID = req.BrandID
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.products.Update(c.Request.Context(), product); err != nil {
		respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update product")
		return
	}
	respondMessage(c, http.StatusOK, product, "Product updated successfully")
}

// AdjustStock restocks (positive amount) or writes down (negative).
// Restocks route through the reconciler so waitlisted customers get
// their notification.
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req models.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	var product *models.Product
	var err error
	if req.Amount > 0 {
		product, err = h.reconciler.Restock(c.Request.Context(), id, req.Amount)
	} else {
		err = h.products.DeductStock(c.Request.Context(), id, -req.Amount)
		if err == nil {
			product, err = h.products.GetByID(c.Request.Context(), id)
		}
	}
	if err != nil {
		if errors.Is(err, models.ErrInsufficientStock) {
			respondError(c, http.StatusConflict, "INSUFFICIENT_STOCK", "Write-down exceeds available stock")
			return
		}
		h.respondProductError(c, err)
		return
	}

	if product.IsLowStock() {
		h.publisher.PublishLowStock(c.Request.Context(), product)
	}
	respondMessage(c, http.StatusOK, product, "Stock adjusted")
}

// DeleteProduct soft-deletes a product.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.respondProductError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "Product deleted")
}

func (h *ProductHandler) respondProductError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "PRODUCT_OPERATION_FAILED", err.Error())
}
