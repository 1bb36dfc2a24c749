package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockreport/internal/core/apperror"
	"stockreport/internal/infrastructure/http/v1/dto"
)

func recoveringRouter(h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler())
	r.GET("/", h)
	return r
}

func TestRecovery_PanicBecomesInternalError(t *testing.T) {
	r := recoveringRouter(func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInternal, body.Code)
	assert.Equal(t, "req-1", body.Details["request_id"])
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRecovery_LostConnectionWritesNothing(t *testing.T) {
	r := recoveringRouter(func(c *gin.Context) {
		panic(fmt.Errorf("write tcp: %w", syscall.EPIPE))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, rec.Body.String())
}

func TestConnectionLost(t *testing.T) {
	assert.True(t, connectionLost(http.ErrAbortHandler))
	assert.True(t, connectionLost(fmt.Errorf("read: %w", syscall.ECONNRESET)))
	assert.False(t, connectionLost("boom"))
	assert.False(t, connectionLost(fmt.Errorf("render failed")))
}
