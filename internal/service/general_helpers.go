package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
)

// withTx runs fn inside a database transaction. The transaction is committed
// only if fn returns nil, so a failed ledger transition never leaves a partial
// write behind.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// resolvePortfolio loads the portfolio at ref and checks that ref is its
// canonical address.
func resolvePortfolio(ctx context.Context, repo *repository.PortfolioRepository, deriver address.Deriver, ref model.PortfolioRef) (model.Portfolio, error) {
	p, err := repo.GetPortfolio(ctx, ref.Address)
	if err != nil {
		return model.Portfolio{}, err
	}
	if err := ledger.ResolveAddress(deriver, ref, p); err != nil {
		return model.Portfolio{}, err
	}
	return p, nil
}

// resolveOwned is resolvePortfolio plus the ownership guard, used by reads.
func resolveOwned(ctx context.Context, repo *repository.PortfolioRepository, deriver address.Deriver, caller string, ref model.PortfolioRef) (model.Portfolio, error) {
	p, err := resolvePortfolio(ctx, repo, deriver, ref)
	if err != nil {
		return model.Portfolio{}, err
	}
	if err := ledger.Authorize(caller, p); err != nil {
		return model.Portfolio{}, err
	}
	return p, nil
}
