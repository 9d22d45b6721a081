package ledger

import (
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// RecordTransactionInput carries the fields of an audit-trail entry.
type RecordTransactionInput struct {
	TransactionID string
	Amount        int64
	Type          string
	Category      string
	Description   string
}

// RecordTransaction appends an immutable record. Only the portfolio's UpdatedAt
// changes; duplicate TransactionIDs are accepted.
func RecordTransaction(caller string, p model.Portfolio, id string, in RecordTransactionInput, now time.Time) (model.Portfolio, model.TransactionRecord, error) {
	if err := Authorize(caller, p); err != nil {
		return p, model.TransactionRecord{}, err
	}
	if err := checkText("transactionId", in.TransactionID, MaxTransactionIDLen); err != nil {
		return p, model.TransactionRecord{}, err
	}
	checks := []struct {
		field, value string
		max          int
	}{
		{"type", in.Type, MaxTypeLen},
		{"category", in.Category, MaxCategoryLen},
		{"description", in.Description, MaxDescriptionLen},
	}
	for _, c := range checks {
		if err := checkLen(c.field, c.value, c.max); err != nil {
			return p, model.TransactionRecord{}, err
		}
	}

	record := model.TransactionRecord{
		ID:               id,
		PortfolioAddress: p.Address,
		TransactionID:    in.TransactionID,
		Amount:           in.Amount,
		Type:             in.Type,
		Category:         in.Category,
		Description:      in.Description,
		Timestamp:        now,
	}

	next := p
	next.UpdatedAt = now
	return next, record, nil
}
