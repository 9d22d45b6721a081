package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
)

// Logger returns a middleware that logs each request once it completes.
func Logger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			// Strip CR/LF from user-supplied values before logging.
			sanitize := strings.NewReplacer("\n", "", "\r", "").Replace
			fields := []any{
				"method", sanitize(r.Method),
				"path", sanitize(r.URL.Path),
				"status", wrapped.statusCode,
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			}
			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				log.Error("request", fields...)
			case wrapped.statusCode >= http.StatusBadRequest:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
