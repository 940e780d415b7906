// internal/handlers/listing.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jaddid/marketplace-backend/internal/i18n"
	"github.com/jaddid/marketplace-backend/internal/services"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type ListingHandler struct {
	listingService *services.ListingService
	storageService *services.StorageService
}

func NewListingHandler(listingService *services.ListingService, storageService *services.StorageService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		storageService: storageService,
	}
}

// GET /listings
func (h *ListingHandler) GetListings(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filters := services.ListingFilters{
		Condition: c.Query("condition"),
		Location:  c.Query("location"),
	}
	if idStr := c.Query("material_id"); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			filters.MaterialID = &id
		}
	}
	filters.MinPrice, filters.MaxPrice = services.ParsePriceRange(c.Query("min_price"), c.Query("max_price"))
	if v, err := strconv.ParseFloat(c.Query("min_quantity"), 64); err == nil {
		filters.MinQuantity = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_quantity"), 64); err == nil {
		filters.MaxQuantity = &v
	}

	listings, total, err := h.listingService.ListListings(params, filters, optionalUserID(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(listings, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /listings/mine
func (h *ListingHandler) GetMyListings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	listings, total, err := h.listingService.MyListings(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(listings, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateListingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	listing, err := h.listingService.CreateListing(userID, &req)
	if err != nil {
		handleServiceError(c, err, "listing")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingCreated),
		"listing": listing,
	})
}

// GET /listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	listing, err := h.listingService.GetListing(id, optionalUserID(c))
	if err != nil {
		handleServiceError(c, err, "listing")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"listing": listing,
	})
}

// PUT /listings/:id
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateListingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	listing, err := h.listingService.UpdateListing(id, userID, &req)
	if err != nil {
		handleServiceError(c, err, "listing")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingUpdated),
		"listing": listing,
	})
}

// DELETE /listings/:id
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.listingService.DeleteListing(id, userID); err != nil {
		handleServiceError(c, err, "listing")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingDeleted),
	})
}

// POST /listings/:id/publish
func (h *ListingHandler) PublishListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	listing, err := h.listingService.PublishListing(id, userID)
	if err != nil {
		handleServiceError(c, err, "listing")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingPublished),
		"listing": listing,
	})
}
