package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCORS allows browser clients from allowedOrigins to call the API with a
// bearer token. The ledger has no DELETE routes and no cookie sessions.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
		},
		ExposedHeaders:   []string{"Content-Type", "X-Request-Id", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
