package handler

import (
	"context"

	fees "github.com/charlykso/smart-s-sub004/internal/application/fees"
	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// feeTransition is a state-changing fee operation keyed by ID
type feeTransition func(context.Context, identity.Actor, uuid.UUID) (*fees.FeeResponse, error)

// FeeHandler handles fee lifecycle API endpoints
type FeeHandler struct {
	BaseHandler
	feeService *fees.Service
}

// NewFeeHandler creates a new FeeHandler
func NewFeeHandler(feeService *fees.Service) *FeeHandler {
	return &FeeHandler{feeService: feeService}
}

// Create handles POST /fees
func (h *FeeHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req fees.CreateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.feeService.CreateFee(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get handles GET /fees/:id
func (h *FeeHandler) Get(c *gin.Context) {
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

	resp, err := h.feeService.GetFee(c.Request.Context(), actor, feeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List handles GET /fees
func (h *FeeHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter fees.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.feeService.ListFees(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListPayable handles GET /schools/:id/fees/payable. Only approved and
// active fees come back; students use this to see what they can pay.
func (h *FeeHandler) ListPayable(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	schoolID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid school ID format")
		return
	}

	termID, err := parseOptionalUUIDQuery(c, "term_id")
	if err != nil {
		h.BadRequest(c, "Invalid term ID format")
		return
	}

	resp, err := h.feeService.ListPayableFees(c.Request.Context(), actor, schoolID, termID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Approve handles POST /fees/:id/approve
func (h *FeeHandler) Approve(c *gin.Context) {
	h.transition(c, h.feeService.ApproveFee)
}

// Deactivate handles POST /fees/:id/deactivate
func (h *FeeHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.feeService.DeactivateFee)
}

// Reactivate handles POST /fees/:id/reactivate
func (h *FeeHandler) Reactivate(c *gin.Context) {
	h.transition(c, h.feeService.ReactivateFee)
}

func (h *FeeHandler) transition(c *gin.Context, op feeTransition) {
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

	resp, err := op(c.Request.Context(), actor, feeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
