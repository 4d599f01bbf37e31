package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")
	companyID := "company-1"

	token, expiresAt, err := svc.GenerateAccessToken("user-1", &companyID, user.RoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, int64(0))

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manager", claims["role"])
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, "company-1", claims["company_id"])
}

func TestJWTService_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "soon")

	_, _, err := svc.GenerateAccessToken("user-1", nil, user.RoleDevice)
	assert.Error(t, err)
}
