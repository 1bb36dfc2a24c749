package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetTrace(ctx))
	assert.Empty(t, GetRequestID(ctx))

	ctx = WithTrace(ctx, NewTraceContext("req-1"))
	require.NotNil(t, GetTrace(ctx))
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.NotEmpty(t, GetTrace(ctx).TraceID)

	assert.NotEmpty(t, NewTraceContext("").RequestID)
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetUserID(ctx))

	ctx = WithUser(ctx, &UserContext{UserID: "7", Login: "admin"})
	assert.Equal(t, "7", GetUserID(ctx))
	assert.Equal(t, "admin", GetUser(ctx).Login)
}
