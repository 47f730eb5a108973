package handler

import (
	"errors"
	"net/http"

	payments "github.com/charlykso/smart-s-sub004/internal/application/payments"
	"github.com/charlykso/smart-s-sub004/internal/domain/payment"
	"github.com/charlykso/smart-s-sub004/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// signatureHeaders maps each gateway to the header its webhook signs
var signatureHeaders = map[payment.GatewayType]string{
	payment.GatewayPaystack:    "x-paystack-signature",
	payment.GatewayFlutterwave: "verif-hash",
}

// PaymentHandler handles payment and ledger API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService  *payments.Service
	callbackService *payments.CallbackService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *payments.Service, callbackService *payments.CallbackService) *PaymentHandler {
	return &PaymentHandler{
		paymentService:  paymentService,
		callbackService: callbackService,
	}
}

// RecordCash handles POST /payments/cash
func (h *PaymentHandler) RecordCash(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req payments.RecordCashPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.RecordCashPayment(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Initiate handles POST /payments/initiate
func (h *PaymentHandler) Initiate(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req payments.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.InitiatePayment(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get handles GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	resp, err := h.paymentService.GetPayment(c.Request.Context(), actor, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListByFee handles GET /fees/:id/payments
func (h *PaymentHandler) ListByFee(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	feeID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid fee ID format")
		return
	}

	var filter payments.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.ListPaymentsByFee(c.Request.Context(), actor, feeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListByPayer handles GET /payers/:id/payments
func (h *PaymentHandler) ListByPayer(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	payerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payer ID format")
		return
	}

	var filter payments.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.ListPaymentsByPayer(c.Request.Context(), actor, payerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Outstanding handles GET /payers/:id/outstanding
func (h *PaymentHandler) Outstanding(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	payerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payer ID format")
		return
	}

	termID, err := parseOptionalUUIDQuery(c, "term_id")
	if err != nil {
		h.BadRequest(c, "Invalid term ID format")
		return
	}

	resp, err := h.paymentService.OutstandingFor(c.Request.Context(), actor, payerID, termID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// WebhookResponse is returned to the gateway after a webhook delivery
type WebhookResponse struct {
	Reference        string `json:"reference,omitempty"`
	Status           string `json:"status,omitempty"`
	AlreadyProcessed bool   `json:"already_processed,omitempty"`
}

// Webhook handles POST /payments/webhook/:gateway.
//
// This endpoint carries no bearer token; the gateway authenticates each
// delivery with a signature over the raw body. A non-2xx response makes
// the gateway retry, so only verification failures and unknown payments
// return errors.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	gatewayType := payment.GatewayType(c.Param("gateway"))
	header, ok := signatureHeaders[gatewayType]
	if !ok {
		h.NotFound(c, "Unknown payment gateway")
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Unable to read webhook payload")
		return
	}

	signature := c.GetHeader(header)
	result, err := h.callbackService.ProcessCallback(c.Request.Context(), gatewayType, payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrCallbackVerificationFailed):
			h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Webhook signature verification failed")
		case errors.Is(err, payments.ErrCallbackGatewayNotRegistered):
			h.NotFound(c, "Payment gateway is not enabled")
		case errors.Is(err, payments.ErrCallbackPaymentNotFound):
			h.NotFound(c, "No payment matches the webhook reference")
		default:
			h.HandleError(c, err)
		}
		return
	}

	h.Success(c, WebhookResponse{
		Reference:        result.Reference,
		Status:           result.Status.String(),
		AlreadyProcessed: result.AlreadyProcessed,
	})
}
