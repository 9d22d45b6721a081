package apperrors

import (
	"errors"
	"fmt"
)

// Domain entity errors represent missing records in the ledger.
// These errors indicate that a requested record does not exist or does not
// belong to the portfolio it was addressed through.
var (
	// ErrPortfolioNotFound indicates that no portfolio lives at the given address.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrAssetNotFound indicates that the asset does not exist or references
	// a different portfolio than the one supplied.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrGoalNotFound indicates that the goal does not exist or references
	// a different portfolio than the one supplied.
	ErrGoalNotFound = errors.New("goal not found")
)

// Authorization and addressing errors.
var (
	// ErrUnauthorized indicates that the caller is not the owner of the portfolio.
	ErrUnauthorized = errors.New("unauthorized access")

	// ErrInvalidAddress indicates that a claimed portfolio address does not match
	// the address derived from the owner identity and disambiguator.
	ErrInvalidAddress = errors.New("invalid portfolio address")

	// ErrAlreadyExists indicates that a portfolio already lives at the derived address
	// or that a record ID collided.
	ErrAlreadyExists = errors.New("record already exists")
)

// Business logic errors represent validation failures or rule violations.
var (
	// ErrInvalidInput indicates that a field violates its length bound or format.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAmount indicates a zero or otherwise unusable amount, price or target.
	// It matches ErrInvalidInput under errors.Is.
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrInvalidInput)

	// ErrGoalAlreadyCompleted indicates that progress was posted to a completed goal.
	ErrGoalAlreadyCompleted = errors.New("goal already completed")
)

// Arithmetic integrity errors. Both abort the operation with no state change.
var (
	// ErrOverflow indicates that a fixed-point computation exceeded its range.
	ErrOverflow = errors.New("arithmetic overflow")

	// ErrAggregateCorruption indicates that the portfolio total no longer matches
	// its holdings, detected when an update would drive the total negative or
	// when a reconciliation finds a mismatch.
	ErrAggregateCorruption = errors.New("portfolio aggregate corruption")
)

// Operation failure errors used as user-facing messages by the HTTP layer.
var (
	ErrFailedToRetrievePortfolio    = errors.New("failed to retrieve portfolio")
	ErrFailedToRetrieveAssets       = errors.New("failed to retrieve assets")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveGoals        = errors.New("failed to retrieve goals")
	ErrFailedToReconcile            = errors.New("failed to reconcile portfolio")
)
