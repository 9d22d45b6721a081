package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// CreateGoalInput carries the fields of a new savings goal.
type CreateGoalInput struct {
	Name         string
	TargetAmount fixedpoint.Amount
	TargetDate   time.Time
	Category     string
}

// CreateGoal starts a goal in the InProgress state.
func CreateGoal(caller string, p model.Portfolio, id string, in CreateGoalInput, now time.Time) (model.Portfolio, model.FinancialGoal, error) {
	if err := Authorize(caller, p); err != nil {
		return p, model.FinancialGoal{}, err
	}
	if err := checkText("name", in.Name, MaxGoalNameLen); err != nil {
		return p, model.FinancialGoal{}, err
	}
	if err := checkLen("category", in.Category, MaxCategoryLen); err != nil {
		return p, model.FinancialGoal{}, err
	}
	if err := checkPositive("targetAmount", in.TargetAmount); err != nil {
		return p, model.FinancialGoal{}, err
	}

	goal := model.FinancialGoal{
		ID:               id,
		PortfolioAddress: p.Address,
		Name:             in.Name,
		TargetAmount:     in.TargetAmount,
		CurrentAmount:    0,
		TargetDate:       in.TargetDate,
		Category:         in.Category,
		IsCompleted:      false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	next := p
	next.UpdatedAt = now
	return next, goal, nil
}

// UpdateGoalProgress adds to a goal's current amount and completes it once the
// target is reached. Completed goals accept no further progress.
func UpdateGoalProgress(caller string, p model.Portfolio, g model.FinancialGoal, amountToAdd fixedpoint.Amount, now time.Time) (model.Portfolio, model.FinancialGoal, error) {
	if err := Authorize(caller, p); err != nil {
		return p, g, err
	}
	if g.PortfolioAddress != p.Address {
		return p, g, fmt.Errorf("%w: goal %s does not belong to portfolio %s", apperrors.ErrGoalNotFound, g.ID, p.Address)
	}
	if g.IsCompleted {
		return p, g, fmt.Errorf("%w: %s", apperrors.ErrGoalAlreadyCompleted, g.ID)
	}
	if err := checkPositive("amountToAdd", amountToAdd); err != nil {
		return p, g, err
	}

	current, err := fixedpoint.Add(g.CurrentAmount, amountToAdd)
	if err != nil {
		return p, g, fmt.Errorf("goal progress: %w", err)
	}

	updated := g
	updated.CurrentAmount = current
	if updated.CurrentAmount >= updated.TargetAmount {
		updated.IsCompleted = true
	}
	updated.UpdatedAt = now

	next := p
	next.UpdatedAt = now
	return next, updated, nil
}

// ProgressOf projects a goal's progress as of now.
func ProgressOf(g model.FinancialGoal, now time.Time) model.GoalProgress {
	progress := model.GoalProgress{
		GoalID:        g.ID,
		State:         g.State(),
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Percentage:    "0.00",
	}
	if g.CurrentAmount < g.TargetAmount {
		progress.Remaining = g.TargetAmount - g.CurrentAmount
	}
	if g.TargetAmount > 0 {
		pct := g.CurrentAmount.Decimal().Mul(decimal.NewFromInt(100)).Div(g.TargetAmount.Decimal())
		progress.Percentage = pct.Round(2).StringFixed(2)
	}
	if !g.IsCompleted {
		days := int(math.Ceil(g.TargetDate.Sub(now).Hours() / 24))
		progress.DaysRemaining = &days
	}
	return progress
}
