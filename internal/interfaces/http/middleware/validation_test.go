package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type adjustInput struct {
		Dept  string `json:"dept" binding:"required,dept"`
		SKU   string `json:"sku" binding:"required,min=3"`
		Delta int64  `json:"delta" binding:"required"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req adjustInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("returns per-field details for invalid input", func(t *testing.T) {
		body := strings.NewReader(`{"dept": "WAREHOUSE", "sku": "ab"}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.Len(t, resp.Error.Details, 3)
	})

	t.Run("accepts valid input", func(t *testing.T) {
		body := strings.NewReader(`{"dept": "RETAIL", "sku": "FLOUR-01", "delta": 5}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDomainValidationTags(t *testing.T) {
	type input struct {
		Dept   string `json:"dept" binding:"omitempty,dept"`
		Kind   string `json:"kind" binding:"omitempty,entitykind"`
		Source string `json:"source" binding:"omitempty,movementsource"`
	}

	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	tests := []struct {
		name    string
		in      input
		wantErr bool
	}{
		{"valid department", input{Dept: "MANUFACTURING"}, false},
		{"unknown department", input{Dept: "WAREHOUSE"}, true},
		{"valid kind", input{Kind: "RAW"}, false},
		{"unknown kind", input{Kind: "FINISHED"}, true},
		{"valid source", input{Source: "PRODUCTION"}, false},
		{"unknown source", input{Source: "MAGIC"}, true},
		{"empty fields pass through omitempty", input{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationMessage(t *testing.T) {
	type input struct {
		Required string `binding:"required"`
		Min      string `binding:"min=5"`
		Max      string `binding:"max=3"`
		OneOf    string `binding:"oneof=a b c"`
		GT       int    `binding:"gt=0"`
		Dept     string `binding:"dept"`
	}

	v := validator.New()
	require.NoError(t, v.RegisterValidation("dept", func(fl validator.FieldLevel) bool {
		return false
	}))

	err := v.Struct(input{Min: "ab", Max: "abcd", OneOf: "d", Dept: "X"})
	require.Error(t, err)

	expected := map[string]string{
		"Required": "This field is required",
		"Min":      "Must be at least 5 characters",
		"Max":      "Must be at most 3 characters",
		"OneOf":    "Must be one of: a b c",
		"GT":       "Must be greater than 0",
		"Dept":     "Unknown department",
	}

	for _, e := range err.(validator.ValidationErrors) {
		want, found := expected[e.Field()]
		require.True(t, found, "unexpected field %s", e.Field())
		assert.Equal(t, want, validationMessage(e))
	}
}
