package testutil

import (
	"database/sql"
	"testing"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/clock"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/encryption"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// Services bundles every ledger service over one database and one clock.
type Services struct {
	Clock        *clock.Manual
	Portfolios   *service.PortfolioService
	Assets       *service.AssetService
	Transactions *service.TransactionService
	Goals        *service.GoalService
	Reconcile    *service.ReconcileService
}

// NewTestServices wires the services against db with a manual clock at
// FixedTime and plain-text descriptions.
func NewTestServices(t *testing.T, db *sql.DB) *Services {
	t.Helper()
	return NewTestServicesWithCipher(t, db, encryption.Plain{})
}

// NewTestServicesWithCipher is NewTestServices with a custom description cipher.
func NewTestServicesWithCipher(t *testing.T, db *sql.DB, cipher encryption.Cipher) *Services {
	t.Helper()

	clk := clock.NewManual(FixedTime)
	log := logger.NewNop()

	portfolioRepo := repository.NewPortfolioRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	transactionRepo := repository.NewTransactionRepository(db, cipher)
	goalRepo := repository.NewGoalRepository(db)

	return &Services{
		Clock:        clk,
		Portfolios:   service.NewPortfolioService(db, portfolioRepo, assetRepo, Deriver, clk, log),
		Assets:       service.NewAssetService(db, portfolioRepo, assetRepo, Deriver, clk, log),
		Transactions: service.NewTransactionService(db, portfolioRepo, transactionRepo, Deriver, clk, log),
		Goals:        service.NewGoalService(db, portfolioRepo, goalRepo, Deriver, clk, log),
		Reconcile:    service.NewReconcileService(db, portfolioRepo, assetRepo, Deriver, 4, log),
	}
}

// NewTestSystemService creates a SystemService over db.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}
