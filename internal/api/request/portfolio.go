package request

// CreatePortfolioRequest represents the request body for initializing a portfolio.
// The owner is always the authenticated caller.
type CreatePortfolioRequest struct {
	Disambiguator *int `json:"disambiguator,omitempty"`
}
