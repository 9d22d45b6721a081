package validation

import (
	"strings"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/ledger"
)

// ValidateCreateGoal validates a goal creation request and converts it to ledger input.
func ValidateCreateGoal(req request.CreateGoalRequest) (ledger.CreateGoalInput, error) {
	errors := make(map[string]string)

	checkText(errors, "name", req.Name, ledger.MaxGoalNameLen)
	checkFreeText(errors, "category", req.Category, ledger.MaxCategoryLen)
	target := checkAmount(errors, "targetAmount", req.TargetAmount, true)

	in := ledger.CreateGoalInput{
		Name:         req.Name,
		TargetAmount: target,
		Category:     req.Category,
	}
	if strings.TrimSpace(req.TargetDate) == "" {
		errors["targetDate"] = "targetDate is required"
	} else if d, err := ParseDate(req.TargetDate); err != nil {
		errors["targetDate"] = err.Error()
	} else {
		in.TargetDate = d
	}

	if len(errors) > 0 {
		return ledger.CreateGoalInput{}, &Error{Fields: errors}
	}
	return in, nil
}

// ValidateUpdateGoalProgress validates a progress request and returns the amount to add.
func ValidateUpdateGoalProgress(req request.UpdateGoalProgressRequest) (fixedpoint.Amount, error) {
	errors := make(map[string]string)

	amount := checkAmount(errors, "amountToAdd", req.AmountToAdd, true)

	if len(errors) > 0 {
		return 0, &Error{Fields: errors}
	}
	return amount, nil
}
