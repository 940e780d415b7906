// internal/handlers/review.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jaddid/marketplace-backend/internal/i18n"
	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/services"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// POST /reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateReviewRequest
	if !bindAndValidate(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(userID, &req)
	if err != nil {
		handleServiceError(c, err, "review")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReviewCreated),
		"review":  review,
	})
}

// GET /reviews (filtered by product_id or material_listing_id)
func (h *ReviewHandler) GetItemReviews(c *gin.Context) {
	var ref models.ItemRef
	if idStr := c.Query("product_id"); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			ref.ProductID = &id
		}
	}
	if idStr := c.Query("material_listing_id"); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			ref.MaterialListingID = &id
		}
	}
	if err := ref.Validate(); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	params := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewService.ItemReviews(ref, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(reviews, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /reviews/mine
func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewService.MyReviews(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(reviews, total, params)
	utils.PaginatedResponse(c, result)
}
