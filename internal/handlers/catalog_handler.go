package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-service/internal/models"
	"admin-service/internal/repository"
)

// CatalogHandler exposes CRUD for categories, brands, banners and videos.
type CatalogHandler struct {
	catalog *repository.CatalogRepository
}

func NewCatalogHandler(catalog *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) respondCatalogError(c *gin.Context, err error, kind string) {
	if errors.Is(err, repository.ErrCatalogNotFound) {
		respondError(c, http.StatusNotFound, "NOT_FOUND", kind+" not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "OPERATION_FAILED", err.Error())
}

// ========== Categories ==========

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if category.Name == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Category name is required")
		return
	}
	if err := h.catalog.CreateCategory(c.Request.Context(), &category); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create category")
		return
	}
	respondMessage(c, http.StatusCreated, category, "Category created successfully")
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list categories")
		return
	}
	respondData(c, http.StatusOK, categories)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	category, err := h.catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.respondCatalogError(c, err, "Category")
		return
	}
	if err := c.ShouldBindJSON(category); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	category.ID = id
	if err := h.catalog.UpdateCategory(c.Request.Context(), category); err != nil {
		respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update category")
		return
	}
	respondMessage(c, http.StatusOK, category, "Category updated successfully")
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		h.respondCatalogError(c, err, "Category")
		return
	}
	respondMessage(c, http.StatusOK, nil, "Category deleted")
}

// ========== Brands ==========

func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var brand models.Brand
	if err := c.ShouldBindJSON(&brand); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if brand.Name == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Brand name is required")
		return
	}
	if err := h.catalog.CreateBrand(c.Request.Context(), &brand); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create brand")
		return
	}
	respondMessage(c, http.StatusCreated, brand, "Brand created successfully")
}

func (h *CatalogHandler) ListBrands(c *gin.Context) {
	brands, err := h.catalog.ListBrands(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list brands")
		return
	}
	respondData(c, http.StatusOK, brands)
}

func (h *CatalogHandler) UpdateBrand(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	brand, err := h.catalog.GetBrand(c.Request.Context(), id)
	if err != nil {
		h.respondCatalogError(c, err, "Brand")
		return
	}
	if err := c.ShouldBindJSON(brand); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	brand.ID = id
	if err := h.catalog.UpdateBrand(c.Request.Context(), brand); err != nil {
		respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update brand")
		return
	}
	respondMessage(c, http.StatusOK, brand, "Brand updated successfully")
}

func (h *CatalogHandler) DeleteBrand(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteBrand(c.Request.Context(), id); err != nil {
		h.respondCatalogError(c, err, "Brand")
		return
	}
	respondMessage(c, http.StatusOK, nil, "Brand deleted")
}

// ========== Banners ==========

func (h *CatalogHandler) CreateBanner(c *gin.Context) {
	var banner models.Banner
	if err := c.ShouldBindJSON(&banner); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if banner.ImageURL == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Banner image URL is required")
		return
	}
	if err := h.catalog.CreateBanner(c.Request.Context(), &banner); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create banner")
		return
	}
	respondMessage(c, http.StatusCreated, banner, "Banner created successfully")
}

func (h *CatalogHandler) ListBanners(c *gin.Context) {
	banners, err := h.catalog.ListBanners(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list banners")
		return
	}
	respondData(c, http.StatusOK, banners)
}

func (h *CatalogHandler) UpdateBanner(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	banner, err := h.catalog.GetBanner(c.Request.Context(), id)
	if err != nil {
		h.respondCatalogError(c, err, "Banner")
		return
	}
	if err := c.ShouldBindJSON(banner); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	banner.ID = id
	if err := h.catalog.UpdateBanner(c.Request.Context(), banner); err != nil {
		respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update banner")
		return
	}
	respondMessage(c, http.StatusOK, banner, "Banner updated successfully")
}

func (h *CatalogHandler) DeleteBanner(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteBanner(c.Request.Context(), id); err != nil {
		h.respondCatalogError(c, err, "Banner")
		return
	}
	respondMessage(c, http.StatusOK, nil, "Banner deleted")
}

// ========== Videos ==========

func (h *CatalogHandler) CreateVideo(c *gin.Context) {
	var video models.Video
	if err := c.ShouldBindJSON(&video); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if video.Title == "" || video.YouTubeID == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Video title and YouTube ID are required")
		return
	}
	if err := h.catalog.CreateVideo(c.Request.Context(), &video); err != nil {
		respondError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create video")
		return
	}
	respondMessage(c, http.StatusCreated, video, "Video created successfully")
}

func (h *CatalogHandler) ListVideos(c *gin.Context) {
	videos, err := h.catalog.ListVideos(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list videos")
		return
	}
	respondData(c, http.StatusOK, videos)
}

func (h *CatalogHandler) UpdateVideo(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	video, err := h.catalog.GetVideo(c.Request.Context(), id)
	if err != nil {
		h.respondCatalogError(c, err, "Video")
		return
	}
	if err := c.ShouldBindJSON(video); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	video.ID = id
	if err := h.catalog.UpdateVideo(c.Request.Context(), video); err != nil {
		respondError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update video")
		return
	}
	respondMessage(c, http.StatusOK, video, "Video updated successfully")
}

func (h *CatalogHandler) DeleteVideo(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteVideo(c.Request.Context(), id); err != nil {
		h.respondCatalogError(c, err, "Video")
		return
	}
	respondMessage(c, http.StatusOK, nil, "Video deleted")
}
