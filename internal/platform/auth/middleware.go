package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/carvoy/importcost-api/internal/platform/httpx"
)

// ErrInvalidToken indicates the bearer token failed validation.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims is the JWT payload carried by API bearer tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email    string   `json:"email,omitempty"`
	VendorID string   `json:"vendorId,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// Authenticator verifies HS256 bearer tokens and exposes route middleware.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator constructs an Authenticator from the shared signing secret.
func NewAuthenticator(secret string) (*Authenticator, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// Verify parses and validates a raw token string into an Identity.
func (a *Authenticator) Verify(raw string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		VendorID: claims.VendorID,
		Roles:    claims.Roles,
	}, nil
}

// Require rejects requests without a valid bearer token.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := a.identityFromRequest(r)
		if err != nil {
			httpx.WriteError(r.Context(), w, httpx.NewError("unauthorized", "valid bearer token required", http.StatusUnauthorized))
			return
		}
		if identity == nil {
			httpx.WriteError(r.Context(), w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// Optional attaches an identity when a valid bearer token is present and
// lets anonymous requests through. A token that is present but invalid is
// still rejected.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := a.identityFromRequest(r)
		if err != nil {
			httpx.WriteError(r.Context(), w, httpx.NewError("unauthorized", "invalid bearer token", http.StatusUnauthorized))
			return
		}
		ctx := r.Context()
		if identity != nil {
			ctx = WithIdentity(ctx, identity)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFromRequest returns (nil, nil) when no Authorization header is set.
func (a *Authenticator) identityFromRequest(r *http.Request) (*Identity, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return nil, nil
	}
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return nil, ErrInvalidToken
	}
	return a.Verify(strings.TrimSpace(raw))
}
