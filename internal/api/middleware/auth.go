package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
)

type principalKey struct{}

// Authenticator verifies HS256 bearer tokens and stores the token subject as
// the request principal.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an Authenticator for the given shared secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Middleware rejects requests without a valid bearer token with 401.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			response.RespondError(w, http.StatusUnauthorized, "authentication required", "Missing bearer token")
			return
		}

		subject, err := a.Subject(strings.TrimSpace(raw))
		if err != nil {
			response.RespondError(w, http.StatusUnauthorized, "authentication required", err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), principalKey{}, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Subject validates a token and returns its subject claim.
func (a *Authenticator) Subject(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("token is not valid")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// Principal returns the authenticated caller, or "" if the request was not
// authenticated.
func Principal(ctx context.Context) string {
	p, _ := ctx.Value(principalKey{}).(string)
	return p
}

// WithPrincipal returns a context carrying p. Used by tests and internal callers.
func WithPrincipal(ctx context.Context, p string) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}
