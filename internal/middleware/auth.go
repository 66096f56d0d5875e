package middleware

import (
	"context"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Tokens are pinned to this service, so an HS256 token minted by another app
// that happens to share the secret is still rejected.
const (
	TokenIssuer   = "journalmate"
	TokenAudience = "journalmate-api"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID returns the authenticated user's id stored by RequireAuth.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok
}

type AuthMiddleware struct {
	jwtSecret []byte
}

func NewAuthMiddleware(secret []byte) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: secret}
}

// RequireAuth authenticates the Bearer token and stashes the user id in the
// request context for UserID.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		token, err := jwt.Parse(tokenStr,
			func(token *jwt.Token) (interface{}, error) { return m.jwtSecret, nil },
			jwt.WithValidMethods([]string{"HS256"}),
			jwt.WithIssuer(TokenIssuer),
			jwt.WithAudience(TokenAudience),
		)
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid claims", http.StatusUnauthorized)
			return
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			http.Error(w, "invalid subject", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, int(sub))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
