package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/clock"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/fixedpoint"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
)

// GoalService manages savings goals and their progress state machine.
type GoalService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	goalRepo      *repository.GoalRepository
	deriver       address.Deriver
	clock         clock.Clock
	log           *logger.Logger
}

// NewGoalService creates a new GoalService with the provided repository dependencies.
func NewGoalService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	goalRepo *repository.GoalRepository,
	deriver address.Deriver,
	clk clock.Clock,
	log *logger.Logger,
) *GoalService {
	return &GoalService{
		db:            db,
		portfolioRepo: portfolioRepo,
		goalRepo:      goalRepo,
		deriver:       deriver,
		clock:         clk,
		log:           log,
	}
}

// CreateGoal starts a new goal in the InProgress state.
func (s *GoalService) CreateGoal(ctx context.Context, caller string, ref model.PortfolioRef, in ledger.CreateGoalInput) (model.FinancialGoal, error) {
	var goal model.FinancialGoal

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		portfolioRepo := s.portfolioRepo.WithTx(tx)

		p, err := resolvePortfolio(ctx, portfolioRepo, s.deriver, ref)
		if err != nil {
			return err
		}

		var next model.Portfolio
		next, goal, err = ledger.CreateGoal(caller, p, uuid.New().String(), in, s.clock.Now())
		if err != nil {
			return err
		}

		if err := s.goalRepo.WithTx(tx).InsertGoal(ctx, goal); err != nil {
			return err
		}
		return portfolioRepo.UpdatePortfolio(ctx, next)
	})
	if err != nil {
		return model.FinancialGoal{}, err
	}

	s.log.Info("goal created", "address", goal.PortfolioAddress.String(), "goal_id", goal.ID, "target", goal.TargetAmount.String())
	return goal, nil
}

// UpdateGoalProgress adds amountToAdd to a goal and completes it once the
// target is reached. A completed goal rejects further progress.
func (s *GoalService) UpdateGoalProgress(ctx context.Context, caller string, ref model.PortfolioRef, goalID string, amountToAdd fixedpoint.Amount) (model.FinancialGoal, error) {
	var goal model.FinancialGoal

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		portfolioRepo := s.portfolioRepo.WithTx(tx)
		goalRepo := s.goalRepo.WithTx(tx)

		p, err := resolvePortfolio(ctx, portfolioRepo, s.deriver, ref)
		if err != nil {
			return err
		}
		if err := ledger.Authorize(caller, p); err != nil {
			return err
		}
		current, err := goalRepo.GetGoal(ctx, goalID)
		if err != nil {
			return err
		}

		var next model.Portfolio
		next, goal, err = ledger.UpdateGoalProgress(caller, p, current, amountToAdd, s.clock.Now())
		if err != nil {
			return err
		}

		if err := goalRepo.UpdateGoal(ctx, goal); err != nil {
			return err
		}
		return portfolioRepo.UpdatePortfolio(ctx, next)
	})
	if err != nil {
		return model.FinancialGoal{}, err
	}

	if goal.IsCompleted {
		s.log.Info("goal completed", "address", goal.PortfolioAddress.String(), "goal_id", goal.ID)
	} else {
		s.log.Debug("goal progress", "address", goal.PortfolioAddress.String(), "goal_id", goal.ID, "current", goal.CurrentAmount.String())
	}
	return goal, nil
}

// ListGoals returns the caller's goals at ref. When state is non-empty only
// goals in that state are returned.
func (s *GoalService) ListGoals(ctx context.Context, caller string, ref model.PortfolioRef, state model.GoalState) ([]model.FinancialGoal, error) {
	p, err := resolveOwned(ctx, s.portfolioRepo, s.deriver, caller, ref)
	if err != nil {
		return nil, err
	}
	goals, err := s.goalRepo.ListGoals(ctx, p.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveGoals, err)
	}
	if state == "" {
		return goals, nil
	}
	return lo.Filter(goals, func(g model.FinancialGoal, _ int) bool {
		return g.State() == state
	}), nil
}

// GetGoalProgress projects a single goal's progress as of now.
func (s *GoalService) GetGoalProgress(ctx context.Context, caller string, ref model.PortfolioRef, goalID string) (model.GoalProgress, error) {
	p, err := resolveOwned(ctx, s.portfolioRepo, s.deriver, caller, ref)
	if err != nil {
		return model.GoalProgress{}, err
	}
	g, err := s.goalRepo.GetGoal(ctx, goalID)
	if err != nil {
		return model.GoalProgress{}, err
	}
	if g.PortfolioAddress != p.Address {
		return model.GoalProgress{}, fmt.Errorf("%w: goal %s does not belong to portfolio %s", apperrors.ErrGoalNotFound, g.ID, p.Address)
	}
	return ledger.ProgressOf(g, s.clock.Now()), nil
}
