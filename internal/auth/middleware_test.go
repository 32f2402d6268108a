package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"login-system-api/internal/auth"
)

var testPasetoKey = []byte("0123456789abcdef0123456789abcdef")

// mintToken builds a token the way the external authority would.
func mintToken(t *testing.T, userID uuid.UUID, username string, ttl time.Duration) string {
	t.Helper()

	key, err := paseto.V4SymmetricKeyFromBytes(testPasetoKey)
	require.NoError(t, err)

	now := time.Now()
	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now.Add(-time.Minute))
	token.SetExpiration(now.Add(ttl))
	token.SetString("user_id", userID.String())
	token.SetString("username", username)

	return token.V4Encrypt(key, nil)
}

func newAuthProbe(t *testing.T) (http.Handler, *auth.Principal) {
	t.Helper()

	verifier, err := auth.NewTokenVerifier(testPasetoKey)
	require.NoError(t, err)

	var seen auth.Principal
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFromContext(r.Context())
		require.True(t, ok)
		seen = p
		w.WriteHeader(http.StatusOK)
	})

	return auth.NewMiddleware(verifier).RequireAuth(probe), &seen
}

func TestRequireAuthValidToken(t *testing.T) {
	handler, seen := newAuthProbe(t)

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, userID, "alice", time.Minute))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, seen.UserID)
	assert.Equal(t, "alice", seen.Username)
}

func TestRequireAuthMissingHeader(t *testing.T) {
	handler, _ := newAuthProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_AUTH")
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	handler, _ := newAuthProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Token abc")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_AUTH_HEADER")
}

func TestRequireAuthGarbageToken(t *testing.T) {
	handler, _ := newAuthProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestRequireAuthExpiredToken(t *testing.T) {
	handler, _ := newAuthProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, uuid.New(), "alice", -time.Minute))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
}

func TestNewTokenVerifierRejectsShortKey(t *testing.T) {
	_, err := auth.NewTokenVerifier([]byte("short"))
	assert.Error(t, err)
}
