// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jaddid/marketplace-backend/internal/i18n"
	"github.com/jaddid/marketplace-backend/internal/models"
	"github.com/jaddid/marketplace-backend/internal/services"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}

	order, err := h.orderService.CreateOrder(userID, &req)
	if err != nil {
		handleServiceError(c, err, "order")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCreated),
		"order":   order,
	})
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(orderID, userID)
	if err != nil {
		handleServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order": order,
	})
}

// GET /orders/purchases
func (h *OrderHandler) GetPurchases(c *gin.Context) {
	h.listOrders(c, h.orderService.MyPurchases)
}

// GET /orders/sales
func (h *OrderHandler) GetSales(c *gin.Context) {
	h.listOrders(c, h.orderService.MySales)
}

func (h *OrderHandler) listOrders(c *gin.Context, fetch func(uuid.UUID, utils.PaginationParams, services.OrderFilters) ([]models.Order, int64, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	filters := services.OrderFilters{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
	}

	orders, total, err := fetch(userID, params, filters)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /orders/:id/confirm
func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	h.transition(c, i18n.KeyOrderConfirmed, h.orderService.ConfirmOrder)
}

// POST /orders/:id/start
func (h *OrderHandler) StartProgress(c *gin.Context) {
	h.transition(c, i18n.KeyOrderInProgress, h.orderService.StartProgress)
}

// POST /orders/:id/complete
func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	h.transition(c, i18n.KeyOrderCompleted, h.orderService.CompleteOrder)
}

// POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	h.transition(c, i18n.KeyOrderCancelled, h.orderService.CancelOrder)
}

func (h *OrderHandler) transition(c *gin.Context, messageKey string, apply func(uuid.UUID, uuid.UUID) (*models.Order, error)) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := apply(orderID, userID)
	if err != nil {
		handleServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"order":   order,
	})
}
