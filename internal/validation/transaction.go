package validation

import (
	"strings"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/ledger"
)

// ValidateRecordTransaction validates an audit record request and converts it
// to ledger input. Amount may be negative. Type, category and description may
// be empty.
func ValidateRecordTransaction(req request.RecordTransactionRequest) (ledger.RecordTransactionInput, error) {
	errors := make(map[string]string)

	checkText(errors, "transactionId", req.TransactionID, ledger.MaxTransactionIDLen)
	checkFreeText(errors, "type", req.Type, ledger.MaxTypeLen)
	checkFreeText(errors, "category", req.Category, ledger.MaxCategoryLen)
	checkFreeText(errors, "description", req.Description, ledger.MaxDescriptionLen)

	var amount int64
	if strings.TrimSpace(req.Amount) == "" {
		errors["amount"] = "amount is required"
	} else if v, err := fixedpoint.ParseSigned(strings.TrimSpace(req.Amount)); err != nil {
		errors["amount"] = err.Error()
	} else {
		amount = v
	}

	if len(errors) > 0 {
		return ledger.RecordTransactionInput{}, &Error{Fields: errors}
	}

	return ledger.RecordTransactionInput{
		TransactionID: req.TransactionID,
		Amount:        amount,
		Type:          req.Type,
		Category:      req.Category,
		Description:   req.Description,
	}, nil
}
