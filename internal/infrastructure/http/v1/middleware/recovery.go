// Package middleware provides HTTP middleware components.
package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"

	"stockreport/internal/core/apperror"
	"stockreport/internal/infrastructure/http/v1/dto"
	"stockreport/pkg/logger"
)

// Recovery turns a panic into a 500 response. It runs outside
// ErrorHandler, so it writes the error body itself. The stack trace is
// logged and never sent to the client.
//
// A client that hangs up while a report file streams to it cannot be
// answered; that case is logged as a warning and the request aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			ctx := c.Request.Context()

			if connectionLost(rec) {
				logger.Warn(ctx, "client connection lost",
					"path", c.Request.URL.Path,
					"error", rec,
				)
				c.Abort()
				return
			}

			logger.Error(ctx, "panic recovered",
				"error", rec,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Code:    apperror.CodeInternal,
				Message: "Internal server error",
				Details: map[string]any{"request_id": c.GetString("request_id")},
			})
		}()
		c.Next()
	}
}

func connectionLost(rec any) bool {
	err, ok := rec.(error)
	if !ok {
		return false
	}
	return errors.Is(err, http.ErrAbortHandler) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}
