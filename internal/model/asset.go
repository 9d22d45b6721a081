package model

import (
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
)

// CryptoAsset is a single holding inside a portfolio.
type CryptoAsset struct {
	ID               string            `json:"id"`
	PortfolioAddress address.Address   `json:"portfolioAddress"` // Fixed at creation
	Symbol           string            `json:"symbol"`
	Amount           fixedpoint.Amount `json:"amount"`
	PriceUSD         fixedpoint.Amount `json:"priceUsd"`
	Network          string            `json:"network"`
	LastUpdated      time.Time         `json:"lastUpdated"`
}

// Value returns floor(Amount * PriceUSD / 1e6).
func (a CryptoAsset) Value() (fixedpoint.Amount, error) {
	return fixedpoint.MulScaled(a.Amount, a.PriceUSD)
}
