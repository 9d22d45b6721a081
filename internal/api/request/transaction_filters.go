package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

const (
	defaultTransactionLimit = 100
	maxTransactionLimit     = 1000
)

// ParseTransactionFilters builds a TransactionFilter from raw query parameters.
// Empty strings mean "no filter"; limit defaults to 100 and is capped at 1000.
func ParseTransactionFilters(txType, category, transactionID, limitStr, offsetStr string) (model.TransactionFilter, error) {
	filter := model.TransactionFilter{
		Type:          strings.TrimSpace(txType),
		Category:      strings.TrimSpace(category),
		TransactionID: strings.TrimSpace(transactionID),
		Limit:         defaultTransactionLimit,
	}

	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return model.TransactionFilter{}, fmt.Errorf("invalid limit: %s", limitStr)
		}
		filter.Limit = min(limit, maxTransactionLimit)
	}

	if offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return model.TransactionFilter{}, fmt.Errorf("invalid offset: %s", offsetStr)
		}
		filter.Offset = offset
	}

	return filter, nil
}
