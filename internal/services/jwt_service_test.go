package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramsetu/employment-service/internal/middleware"
	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
)

func newJWTFixture(t *testing.T) (JWTService, *rsa.PrivateKey, *repositories.MemoryIdentityRepository, *repositories.MemoryTokenRepository) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	identities := repositories.NewMemoryIdentityRepository()
	tokens := repositories.NewMemoryTokenRepository()
	return NewJWTService(key, &key.PublicKey, tokens, identities), key, identities, tokens
}

func TestGenerateAccessTokenClaims(t *testing.T) {
	svc, key, identities, _ := newJWTFixture(t)
	identity := seedIdentity(t, identities, models.RoleAdmin)

	signed, err := svc.GenerateAccessToken(context.Background(), identity, 10*time.Minute)
	require.NoError(t, err)

	token, err := middleware.ValidateToken(signed, &key.PublicKey)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, middleware.TokenIssuer, claims["iss"])
	assert.Equal(t, identity.ID.String(), claims["sub"])
	assert.Equal(t, identity.Email, claims["email"])
	assert.Equal(t, string(models.RoleAdmin), claims["role"])
	assert.NotEmpty(t, claims["jti"])
}

func TestValidateTokenRejectsForeignIssuer(t *testing.T) {
	_, key, _, _ := newJWTFixture(t)

	claims := jwt.MapClaims{
		"iss": "SomeoneElse",
		"sub": "abc",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)

	_, err = middleware.ValidateToken(signed, &key.PublicKey)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	svc, _, identities, _ := newJWTFixture(t)
	identity := seedIdentity(t, identities, models.RoleWorkerSupervisor)

	signed, err := svc.GenerateAccessToken(context.Background(), identity, time.Minute)
	require.NoError(t, err)

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	_, err = middleware.ValidateToken(signed, &other.PublicKey)
	assert.Error(t, err)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, identities, _ := newJWTFixture(t)
	ctx := context.Background()
	identity := seedIdentity(t, identities, models.RoleWorkerSupervisor)

	rt, err := svc.GenerateRefreshToken(ctx, identity.ID, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, rt.Token, 64)

	access, newRefresh, err := svc.RefreshToken(ctx, rt.Token, 10*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEqual(t, rt.Token, newRefresh)

	// Rotation consumed the old token.
	_, _, err = svc.RefreshToken(ctx, rt.Token, 10*time.Minute, 7*24*time.Hour)
	assert.Error(t, err)

	// The replacement works.
	_, _, err = svc.RefreshToken(ctx, newRefresh, 10*time.Minute, 7*24*time.Hour)
	assert.NoError(t, err)
}

func TestRefreshTokenExpired(t *testing.T) {
	svc, _, identities, _ := newJWTFixture(t)
	ctx := context.Background()
	identity := seedIdentity(t, identities, models.RoleWorkerSupervisor)

	rt, err := svc.GenerateRefreshToken(ctx, identity.ID, -time.Minute)
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(ctx, rt.Token, 10*time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	svc, _, identities, _ := newJWTFixture(t)
	ctx := context.Background()
	identity := seedIdentity(t, identities, models.RoleWorkerSupervisor)

	rt, err := svc.GenerateRefreshToken(ctx, identity.ID, time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, rt.Token))
	_, _, err = svc.RefreshToken(ctx, rt.Token, 10*time.Minute, time.Hour)
	assert.Error(t, err)

	// Logging out an unknown token is a no-op.
	assert.NoError(t, svc.Logout(ctx, "already-gone"))
}
