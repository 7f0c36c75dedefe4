package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"

	"github.com/armoredmart/armoredmart-backend/internal/modules/user"
	"github.com/armoredmart/armoredmart-backend/internal/transition"
)

type contextKey string

const callerKey contextKey = "caller"

// Middleware authenticates requests and resolves the caller's identity and
// capabilities into the request context. Capabilities come from the user
// record at request time, never from the token payload.
type Middleware struct {
	userRepo user.Repository
	secret   []byte
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(userRepo user.Repository, secret []byte) *Middleware {
	return &Middleware{userRepo: userRepo, secret: secret}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		claims := &jwt.StandardClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		u, err := m.userRepo.GetUserByID(r.Context(), claims.Subject)
		if err != nil {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}

		caller := transition.Caller{ID: u.ID, Capabilities: u.Capabilities}
		ctx := context.WithValue(r.Context(), callerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerFromContext returns the authenticated caller placed by RequireAuth.
func CallerFromContext(ctx context.Context) (transition.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(transition.Caller)
	return caller, ok
}
