package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() Service {
	return NewJWTService("test-secret", "15m", "24h")
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	ref := user.EmployeeRef("emp-1")

	token, exp, err := svc.GenerateAccessToken(ref, "emp@example.com")
	require.NoError(t, err)
	assert.NotZero(t, exp)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), parsed, nil)
	principal, err := PrincipalFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, ref, principal.Ref)
	assert.Equal(t, "emp@example.com", principal.Email)
	assert.False(t, principal.IsAdmin())
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	svc := newTestService()
	ref := user.AdminRef("adm-1")

	token, _, err := svc.GenerateRefreshToken(ref)
	require.NoError(t, err)

	got, err := svc.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, ref, got)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	_, err = PrincipalFromContext(jwtauth.NewContext(context.Background(), parsed, nil))
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestParseRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := newTestService()
	token, _, err := svc.GenerateAccessToken(user.AdminRef("adm-1"), "a@example.com")
	require.NoError(t, err)

	_, err = svc.ParseRefreshToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestParseRefreshTokenRejectsForeignSignature(t *testing.T) {
	other := NewJWTService("other-secret", "15m", "24h")
	token, _, err := other.GenerateRefreshToken(user.AdminRef("adm-1"))
	require.NoError(t, err)

	_, err = newTestService().ParseRefreshToken(token)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := newTestService()
	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc")
	assert.True(t, svc.IsTokenRevoked("abc"))
}
