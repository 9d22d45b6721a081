package model

import (
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
)

// Portfolio is the per-owner aggregate. TotalValueUSD always equals the sum of the
// scaled values of the assets that reference it.
type Portfolio struct {
	Address       address.Address       `json:"address"`
	Owner         string                `json:"owner"`
	Disambiguator address.Disambiguator `json:"disambiguator"`
	TotalAssets   uint32                `json:"totalAssets"`   // Count of assets ever added
	TotalValueUSD fixedpoint.Amount     `json:"totalValueUsd"` // Six decimal places
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// PortfolioRef is what a caller supplies to target a portfolio: the claimed
// address plus the disambiguator it was derived with.
type PortfolioRef struct {
	Address       address.Address
	Disambiguator address.Disambiguator
}

// Ref returns the reference that resolves back to p.
func (p Portfolio) Ref() PortfolioRef {
	return PortfolioRef{Address: p.Address, Disambiguator: p.Disambiguator}
}

// PortfolioValuation is a read view of a portfolio and the value of each holding.
type PortfolioValuation struct {
	Portfolio Portfolio        `json:"portfolio"`
	Holdings  []AssetValuation `json:"holdings"`
}

// AssetValuation pairs an asset with its scaled value floor(amount*price/1e6).
type AssetValuation struct {
	Asset CryptoAsset       `json:"asset"`
	Value fixedpoint.Amount `json:"valueUsd"`
}

// ReconcileResult reports how a stored total compares with its recomputed holdings.
type ReconcileResult struct {
	Address    address.Address   `json:"address"`
	Stored     fixedpoint.Amount `json:"storedTotalValueUsd"`
	Computed   fixedpoint.Amount `json:"computedTotalValueUsd"`
	AssetCount int               `json:"assetCount"`
	Consistent bool              `json:"consistent"`
}
