package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/clock"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
)

// PortfolioService handles portfolio initialization and portfolio-level reads.
type PortfolioService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	assetRepo     *repository.AssetRepository
	deriver       address.Deriver
	clock         clock.Clock
	log           *logger.Logger
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	assetRepo *repository.AssetRepository,
	deriver address.Deriver,
	clk clock.Clock,
	log *logger.Logger,
) *PortfolioService {
	return &PortfolioService{
		db:            db,
		portfolioRepo: portfolioRepo,
		assetRepo:     assetRepo,
		deriver:       deriver,
		clock:         clk,
		log:           log,
	}
}

// Initialize creates the empty portfolio owned by caller at the address derived
// from (caller, disambiguator).
// Returns ErrAlreadyExists if that address is taken.
func (s *PortfolioService) Initialize(ctx context.Context, caller string, d address.Disambiguator) (model.Portfolio, error) {
	p, err := ledger.NewPortfolio(s.deriver, caller, d, s.clock.Now())
	if err != nil {
		return model.Portfolio{}, err
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.portfolioRepo.WithTx(tx).InsertPortfolio(ctx, p)
	})
	if err != nil {
		return model.Portfolio{}, err
	}

	s.log.Info("portfolio initialized", "address", p.Address.String(), "owner", p.Owner, "disambiguator", p.Disambiguator)
	return p, nil
}

// GetPortfolio returns the portfolio at ref after validating the address and
// checking that caller owns it.
func (s *PortfolioService) GetPortfolio(ctx context.Context, caller string, ref model.PortfolioRef) (model.Portfolio, error) {
	return resolveOwned(ctx, s.portfolioRepo, s.deriver, caller, ref)
}

// GetOwnPortfolio derives the caller's address for d and returns the portfolio there.
func (s *PortfolioService) GetOwnPortfolio(ctx context.Context, caller string, d address.Disambiguator) (model.Portfolio, error) {
	if caller == "" {
		return model.Portfolio{}, apperrors.ErrUnauthorized
	}
	ref := model.PortfolioRef{Address: s.deriver.Derive(caller, d), Disambiguator: d}
	return s.GetPortfolio(ctx, caller, ref)
}

// Valuation returns the portfolio together with the scaled value of every holding.
func (s *PortfolioService) Valuation(ctx context.Context, caller string, ref model.PortfolioRef) (model.PortfolioValuation, error) {
	p, err := resolveOwned(ctx, s.portfolioRepo, s.deriver, caller, ref)
	if err != nil {
		return model.PortfolioValuation{}, err
	}

	assets, err := s.assetRepo.ListAssets(ctx, p.Address)
	if err != nil {
		return model.PortfolioValuation{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveAssets, err)
	}

	holdings, err := ledger.Valuate(p, assets)
	if err != nil {
		return model.PortfolioValuation{}, err
	}
	return model.PortfolioValuation{Portfolio: p, Holdings: holdings}, nil
}
