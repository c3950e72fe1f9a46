package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:    "user@example.com",
		VendorID: "v1",
		Roles:    []string{RoleUser},
	}
}

func TestVerifyValidToken(t *testing.T) {
	authn, err := NewAuthenticator(testSecret)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	identity, err := authn.Verify(signToken(t, validClaims(), testSecret))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.UserID != "user_1" || identity.VendorID != "v1" {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if !identity.HasRole(RoleUser) {
		t.Fatalf("expected user role")
	}
	if identity.HasRole(RoleAdmin) {
		t.Fatalf("unexpected admin role")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	authn, err := NewAuthenticator(testSecret)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	if _, err := authn.Verify(signToken(t, validClaims(), "other-secret")); err == nil {
		t.Fatalf("expected verification failure")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	authn, err := NewAuthenticator(testSecret)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	if _, err := authn.Verify(signToken(t, claims, testSecret)); err == nil {
		t.Fatalf("expected expiry failure")
	}
}

func TestRequireMiddleware(t *testing.T) {
	authn, err := NewAuthenticator(testSecret)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	var gotIdentity *Identity
	handler := authn.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calculations", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/calculations", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(), testSecret))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 with token, got %d", rec.Code)
	}
	if gotIdentity == nil || gotIdentity.UserID != "user_1" {
		t.Fatalf("expected identity in context, got %+v", gotIdentity)
	}
}

func TestOptionalMiddleware(t *testing.T) {
	authn, err := NewAuthenticator(testSecret)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	var sawIdentity bool
	handler := authn.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawIdentity = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculate", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected anonymous pass-through, got %d", rec.Code)
	}
	if sawIdentity {
		t.Fatalf("expected no identity for anonymous request")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/calculate", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed token, got %d", rec.Code)
	}
}
