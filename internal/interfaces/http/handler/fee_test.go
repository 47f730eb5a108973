package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/charlykso/smart-s-sub004/internal/interfaces/http/dto"
	"github.com/charlykso/smart-s-sub004/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withActor injects an authenticated actor the way the JWT middleware
// does after validating a token.
func withActor(t *testing.T) gin.HandlerFunc {
	t.Helper()

	roles, err := identity.NewRoleSet(identity.RoleBursar)
	require.NoError(t, err)
	actor := identity.NewActor(uuid.New(), roles, uuid.New(), uuid.New())

	return func(c *gin.Context) {
		c.Set(middleware.ActorKey, actor)
		c.Next()
	}
}

func TestFeeGet_RequiresAuthentication(t *testing.T) {
	h := NewFeeHandler(nil)
	engine := gin.New()
	engine.GET("/api/v1/fees/:id", h.Get)

	req := httptest.NewRequest("GET", "/api/v1/fees/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
}

func TestFeeGet_InvalidID(t *testing.T) {
	h := NewFeeHandler(nil)
	engine := gin.New()
	engine.GET("/api/v1/fees/:id", withActor(t), h.Get)

	req := httptest.NewRequest("GET", "/api/v1/fees/not-a-uuid", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
}

func TestFeeCreate_MalformedBody(t *testing.T) {
	h := NewFeeHandler(nil)
	engine := gin.New()
	engine.POST("/api/v1/fees", withActor(t), h.Create)

	req := httptest.NewRequest("POST", "/api/v1/fees", nil)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeeApprove_InvalidID(t *testing.T) {
	h := NewFeeHandler(nil)
	engine := gin.New()
	engine.POST("/api/v1/fees/:id/approve", withActor(t), h.Approve)

	req := httptest.NewRequest("POST", "/api/v1/fees/123/approve", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeeListPayable_InvalidTermQuery(t *testing.T) {
	h := NewFeeHandler(nil)
	engine := gin.New()
	engine.GET("/api/v1/schools/:id/fees/payable", withActor(t), h.ListPayable)

	req := httptest.NewRequest("GET",
		"/api/v1/schools/"+uuid.NewString()+"/fees/payable?term_id=garbage", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
