package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

func TestAuthenticator(t *testing.T) {
	auth := middleware.NewAuthenticator(testutil.TestJWTSecret)

	run := func(t *testing.T, header string) (*httptest.ResponseRecorder, string, bool) {
		t.Helper()
		var principal string
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			principal = middleware.Principal(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		auth.Middleware(next).ServeHTTP(w, req)
		return w, principal, called
	}

	t.Run("accepts a valid token and exposes the subject", func(t *testing.T) {
		w, principal, called := run(t, "Bearer "+testutil.MakeToken(t, "alice"))

		if !called {
			t.Fatal("Expected next handler to be called")
		}
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
		if principal != "alice" {
			t.Errorf("Expected principal alice, got %q", principal)
		}
	})

	t.Run("rejects request without token", func(t *testing.T) {
		w, _, called := run(t, "")

		if called {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}

		var response map[string]string
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)
		if response["details"] != "Missing bearer token" {
			t.Errorf("Expected 'Missing bearer token' error, got '%s'", response["details"])
		}
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "alice", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))

		w, _, called := run(t, "Bearer "+token)
		if called || w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 without calling next, got %d (called=%v)", w.Code, called)
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "alice", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testutil.TestJWTSecret))

		w, _, called := run(t, "Bearer "+token)
		if called || w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 without calling next, got %d (called=%v)", w.Code, called)
		}
	})

	t.Run("rejects token without subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testutil.TestJWTSecret))

		w, _, called := run(t, "Bearer "+token)
		if called || w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 without calling next, got %d (called=%v)", w.Code, called)
		}
	})

	t.Run("rejects non-HMAC algorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "alice"}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)

		w, _, called := run(t, "Bearer "+token)
		if called || w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 without calling next, got %d (called=%v)", w.Code, called)
		}
	})
}
