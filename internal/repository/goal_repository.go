package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// GoalRepository provides data access methods for the financial_goal table.
type GoalRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewGoalRepository creates a new GoalRepository with the provided database connection.
func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// WithTx returns a new GoalRepository scoped to the provided transaction.
func (r *GoalRepository) WithTx(tx *sql.Tx) *GoalRepository {
	return &GoalRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *GoalRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const goalColumns = `id, portfolio_address, name, target_amount, current_amount, target_date, category, is_completed, created_at, updated_at`

func scanGoal(row interface{ Scan(...any) error }) (model.FinancialGoal, error) {
	var g model.FinancialGoal
	err := row.Scan(
		&g.ID,
		&g.PortfolioAddress,
		&g.Name,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.TargetDate,
		&g.Category,
		&g.IsCompleted,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}

// InsertGoal stores a new goal.
func (r *GoalRepository) InsertGoal(ctx context.Context, g model.FinancialGoal) error {
	query := `
        INSERT INTO financial_goal (` + goalColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		g.ID,
		g.PortfolioAddress,
		g.Name,
		g.TargetAmount,
		g.CurrentAmount,
		g.TargetDate,
		g.Category,
		g.IsCompleted,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: goal %s", apperrors.ErrAlreadyExists, g.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert financial_goal: %w", err)
	}
	return nil
}

// GetGoal retrieves a goal by ID.
// Returns ErrGoalNotFound if no record with the given ID exists.
func (r *GoalRepository) GetGoal(ctx context.Context, id string) (model.FinancialGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM financial_goal WHERE id = ?`

	g, err := scanGoal(r.getQuerier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.FinancialGoal{}, apperrors.ErrGoalNotFound
	}
	if err != nil {
		return model.FinancialGoal{}, fmt.Errorf("failed to query financial_goal: %w", err)
	}
	return g, nil
}

// UpdateGoal writes the progress fields of a goal. The completed flag can
// only move from false to true at the storage level as well.
func (r *GoalRepository) UpdateGoal(ctx context.Context, g model.FinancialGoal) error {
	query := `
        UPDATE financial_goal
        SET current_amount = ?, is_completed = (is_completed OR ?), updated_at = ?
        WHERE id = ?
    `

	result, err := r.getQuerier().ExecContext(ctx, query,
		g.CurrentAmount,
		g.IsCompleted,
		g.UpdatedAt,
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update financial_goal: %w", err)
	}
	return checkAffected(result, apperrors.ErrGoalNotFound)
}

// ListGoals returns the goals of a portfolio in creation order.
// Returns an empty slice if the portfolio has none.
func (r *GoalRepository) ListGoals(ctx context.Context, addr address.Address) ([]model.FinancialGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM financial_goal WHERE portfolio_address = ? ORDER BY created_at, rowid`

	rows, err := r.getQuerier().QueryContext(ctx, query, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial_goal table: %w", err)
	}
	defer rows.Close()

	goals := []model.FinancialGoal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan financial_goal table results: %w", err)
		}
		goals = append(goals, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating financial_goal table: %w", err)
	}
	return goals, nil
}
