package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charlykso/smart-s-sub004/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type createFeeInput struct {
		Name   string  `json:"name" binding:"required,min=2"`
		Type   string  `json:"type" binding:"required,oneof=tuition sports exam boarding other"`
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}

	SetupValidator()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/fees", func(c *gin.Context) {
		var req createFeeInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("returns field details for invalid input", func(t *testing.T) {
		body := strings.NewReader(`{"name": "x", "type": "levy", "amount": -5}`)
		req := httptest.NewRequest("POST", "/fees", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.Len(t, resp.Error.Details, 3)

		// Field names come from json tags, not struct field names.
		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"name", "type", "amount"}, fields)
	})

	t.Run("passes valid input through", func(t *testing.T) {
		body := strings.NewReader(`{"name": "Tuition", "type": "tuition", "amount": 150000}`)
		req := httptest.NewRequest("POST", "/fees", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestValidationMessage(t *testing.T) {
	type input struct {
		Required string `binding:"required"`
		Email    string `binding:"email"`
		Min      string `binding:"min=5"`
		Max      string `binding:"max=3"`
		UUID     string `binding:"uuid"`
		OneOf    string `binding:"oneof=card bank_transfer cash"`
	}

	v := validator.New()
	err := v.Struct(input{Email: "invalid", Min: "ab", Max: "abcd", UUID: "nope", OneOf: "cheque"})
	require.Error(t, err)

	expected := map[string]string{
		"Required": "This field is required",
		"Email":    "Invalid email format",
		"Min":      "Must be at least 5 characters",
		"Max":      "Must be at most 3 characters",
		"UUID":     "Invalid UUID format",
		"OneOf":    "Must be one of: card bank_transfer cash",
	}

	validationErrs := err.(validator.ValidationErrors)
	require.Len(t, validationErrs, len(expected))
	for _, e := range validationErrs {
		assert.Equal(t, expected[e.Field()], validationMessage(e), e.Field())
	}
}

func TestHandleValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type input struct {
		Name string `json:"name" binding:"required"`
	}

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req input
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
	})

	body := strings.NewReader(`{}`)
	req := httptest.NewRequest("POST", "/test", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeValidation)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, w.Header().Get(RequestIDHeader), resp.Error.RequestID)
}
