package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func serviceClaims(sub interface{}) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": sub,
		"iss": TokenIssuer,
		"aud": TokenAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func TestRequireAuth(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)

	var gotUserID int
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok)
		gotUserID = id
		w.WriteHeader(http.StatusOK)
	}))

	validToken := signToken(t, testSecret, serviceClaims(42))
	wrongKeyToken := signToken(t, []byte("other-secret"), serviceClaims(42))

	expired := serviceClaims(42)
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	expiredToken := signToken(t, testSecret, expired)

	noSub := serviceClaims(nil)
	delete(noSub, "sub")
	noSubToken := signToken(t, testSecret, noSub)

	wrongIssuer := serviceClaims(42)
	wrongIssuer["iss"] = "some-other-service"
	wrongIssuerToken := signToken(t, testSecret, wrongIssuer)

	noAudience := serviceClaims(42)
	delete(noAudience, "aud")
	noAudienceToken := signToken(t, testSecret, noAudience)

	tests := []struct {
		name       string
		authz      string
		wantStatus int
	}{
		{"valid token", "Bearer " + validToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong signing key", "Bearer " + wrongKeyToken, http.StatusUnauthorized},
		{"expired", "Bearer " + expiredToken, http.StatusUnauthorized},
		{"missing subject", "Bearer " + noSubToken, http.StatusUnauthorized},
		{"foreign issuer", "Bearer " + wrongIssuerToken, http.StatusUnauthorized},
		{"missing audience", "Bearer " + noAudienceToken, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = 0
			req := httptest.NewRequest("GET", "/api/users/me", nil)
			if tt.authz != "" {
				req.Header.Set("Authorization", tt.authz)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, 42, gotUserID)
			}
		})
	}
}

func TestUserIDMissing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, ok := UserID(req.Context())
	assert.False(t, ok)
}
