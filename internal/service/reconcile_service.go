package service

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
)

// ReconcileService recomputes portfolio totals from their holdings and reports
// drift. It never writes.
type ReconcileService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	assetRepo     *repository.AssetRepository
	deriver       address.Deriver
	workers       int
	log           *logger.Logger
}

// NewReconcileService creates a new ReconcileService. workers bounds how many
// portfolios ReconcileAll checks concurrently.
func NewReconcileService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	assetRepo *repository.AssetRepository,
	deriver address.Deriver,
	workers int,
	log *logger.Logger,
) *ReconcileService {
	if workers < 1 {
		workers = 1
	}
	return &ReconcileService{
		db:            db,
		portfolioRepo: portfolioRepo,
		assetRepo:     assetRepo,
		deriver:       deriver,
		workers:       workers,
		log:           log,
	}
}

// Reconcile checks the portfolio at addr. The portfolio and its holdings are
// read in one transaction so the comparison sees a single snapshot.
func (s *ReconcileService) Reconcile(ctx context.Context, addr address.Address) (model.ReconcileResult, error) {
	var result model.ReconcileResult

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		p, err := s.portfolioRepo.WithTx(tx).GetPortfolio(ctx, addr)
		if err != nil {
			return err
		}
		assets, err := s.assetRepo.WithTx(tx).ListAssets(ctx, addr)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveAssets, err)
		}
		result, err = ledger.Reconcile(p, assets)
		return err
	})
	if err != nil {
		return model.ReconcileResult{}, err
	}

	if !result.Consistent {
		s.log.Warn("portfolio aggregate drift",
			"address", addr.String(),
			"stored", result.Stored.String(),
			"computed", result.Computed.String(),
			"assets", result.AssetCount,
		)
	}
	return result, nil
}

// ReconcileOwned checks the caller's portfolio at ref.
func (s *ReconcileService) ReconcileOwned(ctx context.Context, caller string, ref model.PortfolioRef) (model.ReconcileResult, error) {
	p, err := resolveOwned(ctx, s.portfolioRepo, s.deriver, caller, ref)
	if err != nil {
		return model.ReconcileResult{}, err
	}
	return s.Reconcile(ctx, p.Address)
}

// ReconcileAll checks every portfolio with at most s.workers in flight and
// returns the results in portfolio creation order. The first failure cancels
// the remaining checks.
func (s *ReconcileService) ReconcileAll(ctx context.Context) ([]model.ReconcileResult, error) {
	portfolios, err := s.portfolioRepo.ListPortfolios(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToReconcile, err)
	}

	results := make([]model.ReconcileResult, len(portfolios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, p := range portfolios {
		g.Go(func() error {
			res, err := s.Reconcile(gctx, p.Address)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", apperrors.ErrFailedToReconcile, p.Address, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	drifted := 0
	for _, r := range results {
		if !r.Consistent {
			drifted++
		}
	}
	s.log.Info("reconciliation finished", "portfolios", len(results), "drifted", drifted)
	return results, nil
}
