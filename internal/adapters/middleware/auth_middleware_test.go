package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oakvale-college/lifecycle-service/internal/adapters/middleware"
	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
)

func generateTestKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return privateKey, &privateKey.PublicKey
}

func createTestToken(privateKey *rsa.PrivateKey, role string, expired bool) string {
	exp := time.Now().Add(time.Hour)
	if expired {
		exp = time.Now().Add(-time.Hour)
	}

	claims := jwt.MapClaims{
		"sub":  "user-123",
		"role": role,
		"exp":  exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenString, _ := token.SignedString(privateKey)
	return tokenString
}

func protected(am *middleware.AuthMiddleware, roles []domain.Role) (http.HandlerFunc, *domain.Caller) {
	seen := &domain.Caller{}
	next := func(w http.ResponseWriter, r *http.Request) {
		*seen = middleware.CallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}
	return am.RequireRole(roles, next), seen
}

func TestRequireRole_NoAuthHeader(t *testing.T) {
	_, publicKey := generateTestKeys(t)
	am := middleware.NewAuthMiddleware(publicKey)

	handler, _ := protected(am, []domain.Role{domain.RoleIT})

	req := httptest.NewRequest(http.MethodPut, "/api/lifecycle-tasks/t-1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_InvalidHeaderFormat(t *testing.T) {
	_, publicKey := generateTestKeys(t)
	am := middleware.NewAuthMiddleware(publicKey)

	handler, _ := protected(am, []domain.Role{domain.RoleIT})

	req := httptest.NewRequest(http.MethodGet, "/api/people", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_ExpiredToken(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	am := middleware.NewAuthMiddleware(publicKey)

	handler, _ := protected(am, []domain.Role{domain.RoleIT})

	req := httptest.NewRequest(http.MethodGet, "/api/people", nil)
	req.Header.Set("Authorization", "Bearer "+createTestToken(privateKey, "it", true))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_WrongKey(t *testing.T) {
	privateKey, _ := generateTestKeys(t)
	_, otherPublicKey := generateTestKeys(t)
	am := middleware.NewAuthMiddleware(otherPublicKey)

	handler, _ := protected(am, []domain.Role{domain.RoleIT})

	req := httptest.NewRequest(http.MethodGet, "/api/people", nil)
	req.Header.Set("Authorization", "Bearer "+createTestToken(privateKey, "it", false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_RoleNotAllowed(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	am := middleware.NewAuthMiddleware(publicKey)

	handler, _ := protected(am, []domain.Role{domain.RoleIT})

	req := httptest.NewRequest(http.MethodPut, "/api/lifecycle-tasks/t-1", nil)
	req.Header.Set("Authorization", "Bearer "+createTestToken(privateKey, "hr", false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_UnknownRoleClaim(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	am := middleware.NewAuthMiddleware(publicKey)

	handler, _ := protected(am, []domain.Role{domain.RoleIT})

	req := httptest.NewRequest(http.MethodGet, "/api/people", nil)
	req.Header.Set("Authorization", "Bearer "+createTestToken(privateKey, "superuser", false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_ValidToken(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	am := middleware.NewAuthMiddleware(publicKey)

	handler, seen := protected(am, []domain.Role{domain.RoleIT, domain.RoleHR})

	req := httptest.NewRequest(http.MethodGet, "/api/people", nil)
	req.Header.Set("Authorization", "Bearer "+createTestToken(privateKey, "it", false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.ID != "user-123" || seen.Role != domain.RoleIT {
		t.Errorf("caller = %+v, want user-123/it", seen)
	}
}

// Enrolment officers carry the short "eo" claim; it must normalize.
func TestRequireRole_EOAliasNormalizes(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	am := middleware.NewAuthMiddleware(publicKey)

	handler, seen := protected(am, []domain.Role{domain.RoleEnrolment})

	req := httptest.NewRequest(http.MethodPost, "/api/lifecycle", nil)
	req.Header.Set("Authorization", "Bearer "+createTestToken(privateKey, "eo", false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.Role != domain.RoleEnrolment {
		t.Errorf("role = %q, want enrolment", seen.Role)
	}
}
