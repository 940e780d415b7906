// internal/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jaddid/marketplace-backend/internal/i18n"
	"github.com/jaddid/marketplace-backend/internal/services"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// POST /payments/intent
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		OrderID uuid.UUID `json:"order_id" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}

	intent, err := h.paymentService.CreatePaymentIntent(userID, req.OrderID)
	if err != nil {
		handleServiceError(c, err, "order")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"payment_intent": intent,
	})
}

// POST /payments/confirm
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ConfirmPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	order, err := h.paymentService.ConfirmPayment(userID, &req)
	if err != nil {
		handleServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPaymentSuccess),
		"order":   order,
	})
}

// POST /admin/payments/refund
func (h *PaymentHandler) ProcessRefund(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RefundRequest
	if !bindAndValidate(c, &req) {
		return
	}

	order, err := h.paymentService.ProcessRefund(&req)
	if err != nil {
		handleServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPaymentRefunded),
		"order":   order,
	})
}
