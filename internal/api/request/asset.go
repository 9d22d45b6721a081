package request

// AddAssetRequest represents the request body for adding a holding.
// Amounts are decimal strings with at most six fractional digits.
type AddAssetRequest struct {
	Symbol   string `json:"symbol"`
	Amount   string `json:"amount"`
	PriceUSD string `json:"priceUsd"`
	Network  string `json:"network"`
}

// UpdateAssetRequest represents the request body for updating a holding.
// Omitted fields keep their stored value; zero is allowed.
type UpdateAssetRequest struct {
	Amount   *string `json:"amount,omitempty"`
	PriceUSD *string `json:"priceUsd,omitempty"`
}
