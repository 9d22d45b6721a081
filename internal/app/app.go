// Package app wires repositories and services from configuration. Both the
// HTTP server and ledgerctl build their object graph through it.
package app

import (
	"database/sql"
	"fmt"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/clock"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/encryption"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// Build creates every service over db using the ledger and reconcile settings in cfg.
func Build(db *sql.DB, cfg *config.Config, log *logger.Logger) (api.Services, error) {
	cipher, err := encryption.New(cfg.Ledger.DescriptionEncryptionKey)
	if err != nil {
		return api.Services{}, fmt.Errorf("invalid DESCRIPTION_ENCRYPTION_KEY: %w", err)
	}
	if _, plain := cipher.(encryption.Plain); plain {
		log.Warn("transaction descriptions are stored unencrypted", "setting", "DESCRIPTION_ENCRYPTION_KEY")
	}

	deriver := address.NewBlake3Deriver(cfg.Ledger.AddressDomainTag)
	clk := clock.System{}

	portfolioRepo := repository.NewPortfolioRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	transactionRepo := repository.NewTransactionRepository(db, cipher)
	goalRepo := repository.NewGoalRepository(db)

	return api.Services{
		System:       service.NewSystemService(db),
		Portfolios:   service.NewPortfolioService(db, portfolioRepo, assetRepo, deriver, clk, log),
		Assets:       service.NewAssetService(db, portfolioRepo, assetRepo, deriver, clk, log),
		Transactions: service.NewTransactionService(db, portfolioRepo, transactionRepo, deriver, clk, log),
		Goals:        service.NewGoalService(db, portfolioRepo, goalRepo, deriver, clk, log),
		Reconcile:    service.NewReconcileService(db, portfolioRepo, assetRepo, deriver, cfg.Reconcile.Workers, log),
	}, nil
}
