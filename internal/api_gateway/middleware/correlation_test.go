package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestCorrelationID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		provided string
	}{
		{name: "GeneratesIDWhenMissing"},
		{name: "KeepsProvidedID", provided: "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CorrelationID())

			var fromGin, fromRequest string
			router.GET("/test", func(c *gin.Context) {
				fromGin = GetCorrelationID(c)
				fromRequest = logger.CorrelationID(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.provided != "" {
				req.Header.Set(CorrelationIDHeader, tt.provided)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			header := rr.Header().Get(CorrelationIDHeader)
			if tt.provided != "" {
				assert.Equal(t, tt.provided, header)
			} else {
				_, err := uuid.Parse(header)
				assert.NoError(t, err)
			}
			assert.Equal(t, header, fromGin)
			assert.Equal(t, header, fromRequest)
		})
	}
}

func TestGetCorrelationID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetCorrelationID(c))

	c.Set(CorrelationIDKey, 12345)
	assert.Empty(t, GetCorrelationID(c))

	c.Set(CorrelationIDKey, "abc")
	assert.Equal(t, "abc", GetCorrelationID(c))
}
