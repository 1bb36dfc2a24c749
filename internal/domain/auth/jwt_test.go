package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "stockreport/internal/core/context"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("secret"))

	token, expires, err := svc.GenerateAccessToken(appctx.UserContext{UserID: "7", Login: "admin", CompanyIDs: []int64{1}})
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	user, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7", user.UserID)
	assert.Equal(t, "admin", user.Login)
	assert.Equal(t, []int64{1}, user.CompanyIDs)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("secret"))

	other, _, err := NewJWTService(DefaultJWTConfig("other")).GenerateAccessToken(appctx.UserContext{UserID: "7"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(other)
	assert.Error(t, err)

	expiredCfg := DefaultJWTConfig("secret")
	expiredCfg.AccessTokenTTL = -time.Minute
	expired, _, err := NewJWTService(expiredCfg).GenerateAccessToken(appctx.UserContext{UserID: "7"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.Error(t, err)

	anonymous, _, err := svc.GenerateAccessToken(appctx.UserContext{})
	require.NoError(t, err)
	_, err = svc.ValidateToken(anonymous)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
