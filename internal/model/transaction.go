package model

import (
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
)

// TransactionRecord is an immutable audit-trail entry. TransactionID is supplied
// by the caller and is not required to be unique.
type TransactionRecord struct {
	ID               string          `json:"id"`
	PortfolioAddress address.Address `json:"portfolioAddress"`
	TransactionID    string          `json:"transactionId"`
	Amount           int64           `json:"amount"` // Signed, scaled by 1e6
	Type             string          `json:"type"`
	Category         string          `json:"category"`
	Description      string          `json:"description"`
	Timestamp        time.Time       `json:"timestamp"`
}

// TransactionFilter narrows a transaction listing. Zero values match everything;
// a non-positive Limit means no limit.
type TransactionFilter struct {
	Type          string
	Category      string
	TransactionID string
	Limit         int
	Offset        int
}
