// internal/handlers/catalog.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jaddid/marketplace-backend/internal/services"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GET /categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	activeOnly := true
	if includeInactive, err := strconv.ParseBool(c.Query("include_inactive")); err == nil && includeInactive {
		activeOnly = false
	}

	categories, err := h.catalogService.ListCategories(activeOnly)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"categories": categories,
	})
}

// GET /categories/tree
func (h *CatalogHandler) GetCategoryTree(c *gin.Context) {
	categories, err := h.catalogService.CategoryTree()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"categories": categories,
	})
}

// GET /categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.catalogService.GetCategory(id)
	if err != nil {
		handleServiceError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"category": category,
	})
}

// POST /admin/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	category, err := h.catalogService.CreateCategory(&req)
	if err != nil {
		handleServiceError(c, err, "category")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"category": category,
	})
}

// PUT /admin/categories/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	category, err := h.catalogService.UpdateCategory(id, &req)
	if err != nil {
		handleServiceError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"category": category,
	})
}

// DELETE /admin/categories/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(id); err != nil {
		handleServiceError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"deleted": true,
	})
}

// GET /materials
func (h *CatalogHandler) GetMaterials(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var categoryID *uuid.UUID
	if idStr := c.Query("category_id"); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			categoryID = &id
		}
	}

	materials, total, err := h.catalogService.ListMaterials(params, categoryID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(materials, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /materials/:id
func (h *CatalogHandler) GetMaterial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	material, err := h.catalogService.GetMaterial(id)
	if err != nil {
		handleServiceError(c, err, "material")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"material": material,
	})
}

// POST /admin/materials
func (h *CatalogHandler) CreateMaterial(c *gin.Context) {
	var req services.MaterialRequest
	if !bindAndValidate(c, &req) {
		return
	}

	material, err := h.catalogService.CreateMaterial(&req)
	if err != nil {
		handleServiceError(c, err, "material")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"material": material,
	})
}

// PUT /admin/materials/:id
func (h *CatalogHandler) UpdateMaterial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.MaterialRequest
	if !bindAndValidate(c, &req) {
		return
	}

	material, err := h.catalogService.UpdateMaterial(id, &req)
	if err != nil {
		handleServiceError(c, err, "material")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"material": material,
	})
}

// DELETE /admin/materials/:id
func (h *CatalogHandler) DeleteMaterial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteMaterial(id); err != nil {
		handleServiceError(c, err, "material")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"deleted": true,
	})
}
