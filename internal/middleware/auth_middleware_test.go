package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramsetu/employment-service/internal/utils"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signTestToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func accessClaims(sub, role string, ttl time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"iss":  TokenIssuer,
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
}

func protectedEcho(t *testing.T) (http.Handler, *string, *string) {
	t.Helper()
	var gotSub, gotRole string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub, _ = r.Context().Value(ContextKeyUserID).(string)
		gotRole, _ = r.Context().Value(ContextKeyRole).(string)
		w.WriteHeader(http.StatusOK)
	})
	return h, &gotSub, &gotRole
}

func TestAuthMiddlewarePassesClaimsThrough(t *testing.T) {
	key := testKey(t)
	echo, sub, role := protectedEcho(t)
	handler := AuthMiddleware(&key.PublicKey)(echo)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, key, accessClaims("user-123", "WORKER_SUPERVISOR", time.Minute)))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-123", *sub)
	assert.Equal(t, "WORKER_SUPERVISOR", *role)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	key := testKey(t)
	echo, _, _ := protectedEcho(t)
	handler := AuthMiddleware(&key.PublicKey)(echo)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	key := testKey(t)
	echo, _, _ := protectedEcho(t)
	handler := AuthMiddleware(&key.PublicKey)(echo)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, key, accessClaims("user-123", "ADMIN", -time.Minute)))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), utils.ErrCodeTokenExpired)
}

func TestAuthMiddlewareWrongIssuer(t *testing.T) {
	key := testKey(t)
	echo, _, _ := protectedEcho(t)
	handler := AuthMiddleware(&key.PublicKey)(echo)

	claims := accessClaims("user-123", "ADMIN", time.Minute)
	claims["iss"] = "NotUs"
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, key, claims))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddlewareForeignSignature(t *testing.T) {
	key := testKey(t)
	other := testKey(t)
	echo, _, _ := protectedEcho(t)
	handler := AuthMiddleware(&key.PublicKey)(echo)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, other, accessClaims("user-123", "ADMIN", time.Minute)))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminOnly(t *testing.T) {
	key := testKey(t)
	echo, _, _ := protectedEcho(t)
	handler := AuthMiddleware(&key.PublicKey)(AdminOnly(echo))

	t.Run("AdminAllowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, key, accessClaims("admin-1", "ADMIN", time.Minute)))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("WorkerForbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, key, accessClaims("worker-1", "WORKER_SUPERVISOR", time.Minute)))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
