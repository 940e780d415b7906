// internal/handlers/favorite.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jaddid/marketplace-backend/internal/services"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type FavoriteHandler struct {
	favoriteService *services.FavoriteService
}

func NewFavoriteHandler(favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
	}
}

// POST /favorites/toggle
func (h *FavoriteHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ToggleFavoriteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.favoriteService.ToggleFavorite(userID, &req)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"favorited":       result.Favorited,
		"favorites_count": result.FavoritesCount,
	})
}

// GET /favorites
func (h *FavoriteHandler) GetFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	favorites, total, err := h.favoriteService.MyFavorites(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(favorites, total, params)
	utils.PaginatedResponse(c, result)
}
