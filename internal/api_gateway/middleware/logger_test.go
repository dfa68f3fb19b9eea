package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "Success", status: http.StatusOK, wantLevel: `"level":"INFO"`},
		{name: "ClientError", status: http.StatusUnprocessableEntity, wantLevel: `"level":"WARN"`},
		{name: "ServerError", status: http.StatusInternalServerError, wantLevel: `"level":"ERROR"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			testLogger := slog.New(slog.NewJSONHandler(&buf, nil))

			router := gin.New()
			router.Use(CorrelationID())
			router.Use(Logger(testLogger))
			router.GET("/transactions/:id", func(c *gin.Context) {
				c.Status(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/transactions/t1?x=1", nil)
			req.Header.Set(CorrelationIDHeader, "corr-1")
			req.Header.Set("User-Agent", "test-agent")
			router.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, `"msg":"HTTP request"`)
			assert.Contains(t, out, `"path":"/transactions/t1?x=1"`)
			assert.Contains(t, out, `"route":"/transactions/:id"`)
			assert.Contains(t, out, `"user_agent":"test-agent"`)
			assert.Contains(t, out, `"correlation_id":"corr-1"`)
		})
	}
}
