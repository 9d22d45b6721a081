package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

type refKey struct{}

// ParseDisambiguator reads the disambiguator query parameter. Absent means 0.
func ParseDisambiguator(r *http.Request) (address.Disambiguator, error) {
	raw := r.URL.Query().Get("disambiguator")
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, err
	}
	return address.Disambiguator(v), nil
}

// ValidateAddressMiddleware parses the {address} URL parameter and the
// disambiguator query parameter into a PortfolioRef.
// Returns 400 Bad Request if either is malformed.
//
// Example usage in router:
//
//	r.Route("/{address}", func(r chi.Router) {
//	    r.Use(middleware.ValidateAddressMiddleware)
//	    r.Get("/", handler.GetPortfolio)
//	})
func ValidateAddressMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr, err := address.Parse(chi.URLParam(r, "address"))
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid portfolio address", err.Error())
			return
		}
		d, err := ParseDisambiguator(r)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid disambiguator", "disambiguator must be an integer between 0 and 255")
			return
		}

		ref := model.PortfolioRef{Address: addr, Disambiguator: d}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), refKey{}, ref)))
	})
}

// PortfolioRef returns the reference stored by ValidateAddressMiddleware.
func PortfolioRef(ctx context.Context) (model.PortfolioRef, bool) {
	ref, ok := ctx.Value(refKey{}).(model.PortfolioRef)
	return ref, ok
}

// WithPortfolioRef returns a context carrying ref. Used by tests.
func WithPortfolioRef(ctx context.Context, ref model.PortfolioRef) context.Context {
	return context.WithValue(ctx, refKey{}, ref)
}
