package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "stockreport/internal/core/context"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return &Logger{zap.New(core).Sugar()}, logs
}

func TestWithComponent(t *testing.T) {
	l, logs := observed()
	ctx := WithComponent(WithLogger(context.Background(), l), "migrate")

	Info(ctx, "migration applied", "version", "0001_stock_schema.sql")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "migration applied", entry.Message)
	assert.Equal(t, map[string]any{
		"component": "migrate",
		"version":   "0001_stock_schema.sql",
	}, entry.ContextMap())
}

func TestFromContext_AddsTraceAndUser(t *testing.T) {
	l, logs := observed()
	ctx := WithLogger(context.Background(), l)
	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "7", Login: "alice"})

	Warn(WithFields(ctx, "run_id", "run-1"), "failed to journal report run")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, map[string]any{
		"run_id":     "run-1",
		"trace_id":   "t-1",
		"request_id": "r-1",
		"user_id":    "7",
		"login":      "alice",
	}, entry.ContextMap())
}
