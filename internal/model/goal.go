package model

import (
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
)

// GoalState is the progress state of a FinancialGoal.
type GoalState string

const (
	GoalInProgress GoalState = "in_progress"
	GoalCompleted  GoalState = "completed"
)

// FinancialGoal is a savings target tracked against a portfolio.
// IsCompleted never goes from true back to false.
type FinancialGoal struct {
	ID               string            `json:"id"`
	PortfolioAddress address.Address   `json:"portfolioAddress"`
	Name             string            `json:"name"`
	TargetAmount     fixedpoint.Amount `json:"targetAmount"`
	CurrentAmount    fixedpoint.Amount `json:"currentAmount"`
	TargetDate       time.Time         `json:"targetDate"`
	Category         string            `json:"category"`
	IsCompleted      bool              `json:"isCompleted"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// State maps IsCompleted onto the goal state machine.
func (g FinancialGoal) State() GoalState {
	if g.IsCompleted {
		return GoalCompleted
	}
	return GoalInProgress
}

// GoalProgress is a read-only projection of a goal at a point in time.
type GoalProgress struct {
	GoalID        string            `json:"goalId"`
	State         GoalState         `json:"state"`
	TargetAmount  fixedpoint.Amount `json:"targetAmount"`
	CurrentAmount fixedpoint.Amount `json:"currentAmount"`
	Remaining     fixedpoint.Amount `json:"remaining"`
	Percentage    string            `json:"percentage"`              // Two decimal places
	DaysRemaining *int              `json:"daysRemaining,omitempty"` // Nil once completed
}
