package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/clock"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
)

// AssetService adds and revalues holdings while keeping the portfolio total in step.
type AssetService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	assetRepo     *repository.AssetRepository
	deriver       address.Deriver
	clock         clock.Clock
	log           *logger.Logger
}

// NewAssetService creates a new AssetService with the provided repository dependencies.
func NewAssetService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	assetRepo *repository.AssetRepository,
	deriver address.Deriver,
	clk clock.Clock,
	log *logger.Logger,
) *AssetService {
	return &AssetService{
		db:            db,
		portfolioRepo: portfolioRepo,
		assetRepo:     assetRepo,
		deriver:       deriver,
		clock:         clk,
		log:           log,
	}
}

// AddAsset creates a holding in the portfolio at ref and adds its value to the
// portfolio total. The asset and the portfolio are written in one transaction.
func (s *AssetService) AddAsset(ctx context.Context, caller string, ref model.PortfolioRef, in ledger.AddAssetInput) (model.Portfolio, model.CryptoAsset, error) {
	var (
		portfolio model.Portfolio
		asset     model.CryptoAsset
	)

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		portfolioRepo := s.portfolioRepo.WithTx(tx)

		p, err := resolvePortfolio(ctx, portfolioRepo, s.deriver, ref)
		if err != nil {
			return err
		}

		portfolio, asset, err = ledger.AddAsset(caller, p, uuid.New().String(), in, s.clock.Now())
		if err != nil {
			return err
		}

		if err := s.assetRepo.WithTx(tx).InsertAsset(ctx, asset); err != nil {
			return err
		}
		return portfolioRepo.UpdatePortfolio(ctx, portfolio)
	})
	if err != nil {
		return model.Portfolio{}, model.CryptoAsset{}, err
	}

	s.log.Info("asset added",
		"address", portfolio.Address.String(),
		"asset_id", asset.ID,
		"symbol", asset.Symbol,
		"total_value_usd", portfolio.TotalValueUSD.String(),
	)
	return portfolio, asset, nil
}

// UpdateAsset replaces the amount and/or price of a holding and moves the
// portfolio total by the change in the holding's value.
func (s *AssetService) UpdateAsset(ctx context.Context, caller string, ref model.PortfolioRef, assetID string, in ledger.UpdateAssetInput) (model.Portfolio, model.CryptoAsset, error) {
	var (
		portfolio model.Portfolio
		asset     model.CryptoAsset
	)

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		portfolioRepo := s.portfolioRepo.WithTx(tx)
		assetRepo := s.assetRepo.WithTx(tx)

		p, err := resolvePortfolio(ctx, portfolioRepo, s.deriver, ref)
		if err != nil {
			return err
		}
		if err := ledger.Authorize(caller, p); err != nil {
			return err
		}
		current, err := assetRepo.GetAsset(ctx, assetID)
		if err != nil {
			return err
		}

		portfolio, asset, err = ledger.UpdateAsset(caller, p, current, in, s.clock.Now())
		if err != nil {
			return err
		}

		if err := assetRepo.UpdateAsset(ctx, asset); err != nil {
			return err
		}
		return portfolioRepo.UpdatePortfolio(ctx, portfolio)
	})
	if err != nil {
		return model.Portfolio{}, model.CryptoAsset{}, err
	}

	s.log.Info("asset updated",
		"address", portfolio.Address.String(),
		"asset_id", asset.ID,
		"total_value_usd", portfolio.TotalValueUSD.String(),
	)
	return portfolio, asset, nil
}

// ListAssets returns the holdings of the caller's portfolio at ref.
func (s *AssetService) ListAssets(ctx context.Context, caller string, ref model.PortfolioRef) ([]model.CryptoAsset, error) {
	p, err := resolveOwned(ctx, s.portfolioRepo, s.deriver, caller, ref)
	if err != nil {
		return nil, err
	}
	assets, err := s.assetRepo.ListAssets(ctx, p.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveAssets, err)
	}
	return assets, nil
}
