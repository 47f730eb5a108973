package handler

import (
	schools "github.com/charlykso/smart-s-sub004/internal/application/schools"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"github.com/charlykso/smart-s-sub004/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SchoolHandler handles tenancy API endpoints: group schools, schools,
// sessions and terms
type SchoolHandler struct {
	BaseHandler
	schoolService *schools.Service
}

// NewSchoolHandler creates a new SchoolHandler
func NewSchoolHandler(schoolService *schools.Service) *SchoolHandler {
	return &SchoolHandler{schoolService: schoolService}
}

// CreateGroupSchool handles POST /group-schools
func (h *SchoolHandler) CreateGroupSchool(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req schools.CreateGroupSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.schoolService.CreateGroupSchool(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// CreateSchool handles POST /schools
func (h *SchoolHandler) CreateSchool(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req schools.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.schoolService.CreateSchool(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListSchools handles GET /schools
func (h *SchoolHandler) ListSchools(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	if list.Page > 0 {
		filter.Page = list.Page
	}
	if list.PageSize > 0 {
		filter.PageSize = list.PageSize
	}
	if list.OrderBy != "" {
		filter.OrderBy = list.OrderBy
	}
	if list.OrderDir != "" {
		filter.OrderDir = list.OrderDir
	}
	filter.Search = list.Search

	resp, err := h.schoolService.ListSchools(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CreateSession handles POST /sessions
func (h *SchoolHandler) CreateSession(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req schools.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.schoolService.CreateSession(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// SetCurrentSession handles POST /sessions/:id/current
func (h *SchoolHandler) SetCurrentSession(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	resp, err := h.schoolService.SetCurrentSession(c.Request.Context(), actor, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CreateTerm handles POST /terms
func (h *SchoolHandler) CreateTerm(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req schools.CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.schoolService.CreateTerm(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// SetCurrentTerm handles POST /terms/:id/current
func (h *SchoolHandler) SetCurrentTerm(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	termID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid term ID format")
		return
	}

	resp, err := h.schoolService.SetCurrentTerm(c.Request.Context(), actor, termID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CurrentTerm handles GET /schools/:id/current-term
func (h *SchoolHandler) CurrentTerm(c *gin.Context) {
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

	resp, err := h.schoolService.CurrentTerm(c.Request.Context(), actor, schoolID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
