package request

// CreateGoalRequest represents the request body for creating a savings goal.
// TargetDate accepts YYYY-MM-DD or RFC3339.
type CreateGoalRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"targetAmount"`
	TargetDate   string `json:"targetDate"`
	Category     string `json:"category"`
}

type UpdateGoalProgressRequest struct {
	AmountToAdd string `json:"amountToAdd"`
}
