package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lovewall-backend/internal/domains/payment/model"
	"lovewall-backend/internal/domains/payment/service"
	"lovewall-backend/internal/shared/response"
)

// maxWebhookBytes bounds the webhook body read.
const maxWebhookBytes = 1 << 20

type PaymentHandler struct {
	service service.Service
}

func NewPaymentHandler(svc service.Service) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// Checkout handles POST /api/v1/checkout.
func (h *PaymentHandler) Checkout(c *gin.Context) {
	result, err := h.service.Checkout(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to start checkout")
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// Verify handles POST /api/v1/checkout/verify.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req model.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		response.BadRequest(c, "sessionId is required")
		return
	}

	result, err := h.service.Verify(c.Request.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, model.ErrPaymentNotFound) {
			response.NotFound(c, "checkout session not found")
			return
		}
		response.InternalServerError(c, "failed to verify session")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Webhook handles POST /api/v1/webhooks/stripe. The raw body is needed for
// signature verification, so no binding here.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		response.BadRequest(c, "cannot read body")
		return
	}

	err = h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, model.ErrInvalidSignature) {
			response.Unauthorized(c, "invalid signature")
			return
		}
		// Non-2xx makes the gateway redeliver later.
		response.InternalServerError(c, "webhook processing failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}
