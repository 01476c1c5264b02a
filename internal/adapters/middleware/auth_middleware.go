package middleware

import (
	"context"
	"crypto/rsa"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
)

// AuthMiddleware verifies the RS256 tokens the school SSO issues. The
// service never mints tokens itself; it only checks the sub and role
// claims and makes them available to handlers.
type AuthMiddleware struct {
	publicKey *rsa.PublicKey
}

func NewAuthMiddleware(publicKey *rsa.PublicKey) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
	}
}

type contextKey string

const (
	UserIDKey contextKey = "userID"
	RoleKey   contextKey = "role"
)

// CallerFromContext rebuilds the authenticated caller set by RequireRole.
func CallerFromContext(ctx context.Context) domain.Caller {
	caller := domain.Caller{}
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		caller.ID = id
	}
	if role, ok := ctx.Value(RoleKey).(domain.Role); ok {
		caller.Role = role
	}
	return caller
}

func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		})
		if err != nil || !token.Valid {
			log.Printf("auth: token rejected: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			http.Error(w, "invalid token: missing user ID", http.StatusUnauthorized)
			return
		}

		roleClaim, ok := claims["role"].(string)
		if !ok || roleClaim == "" {
			http.Error(w, "invalid token: missing role", http.StatusUnauthorized)
			return
		}
		role, err := domain.ParseRole(roleClaim)
		if err != nil {
			log.Printf("auth: unknown role claim %q for user %s", roleClaim, userID)
			http.Error(w, "invalid token: unknown role", http.StatusUnauthorized)
			return
		}

		allowed := false
		for _, want := range roles {
			if role == want {
				allowed = true
				break
			}
		}
		if !allowed {
			log.Printf("auth: role %s not allowed, required one of %v", role, roles)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, RoleKey, role)

		next(w, r.WithContext(ctx))
	}
}
