package validation

import (
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
)

// ValidateCreatePortfolio validates a portfolio initialization request and
// returns the disambiguator to derive with. An absent disambiguator means 0.
func ValidateCreatePortfolio(req request.CreatePortfolioRequest) (address.Disambiguator, error) {
	if req.Disambiguator == nil {
		return 0, nil
	}
	if *req.Disambiguator < 0 || *req.Disambiguator > 255 {
		return 0, &Error{Fields: map[string]string{"disambiguator": "disambiguator must be between 0 and 255"}}
	}
	return address.Disambiguator(*req.Disambiguator), nil
}
