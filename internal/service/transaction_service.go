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

// TransactionService appends to and reads the per-portfolio audit trail.
type TransactionService struct {
	db              *sql.DB
	portfolioRepo   *repository.PortfolioRepository
	transactionRepo *repository.TransactionRepository
	deriver         address.Deriver
	clock           clock.Clock
	log             *logger.Logger
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	transactionRepo *repository.TransactionRepository,
	deriver address.Deriver,
	clk clock.Clock,
	log *logger.Logger,
) *TransactionService {
	return &TransactionService{
		db:              db,
		portfolioRepo:   portfolioRepo,
		transactionRepo: transactionRepo,
		deriver:         deriver,
		clock:           clk,
		log:             log,
	}
}

// RecordTransaction appends an immutable record to the portfolio at ref.
// Portfolio totals are untouched; only its UpdatedAt moves.
func (s *TransactionService) RecordTransaction(ctx context.Context, caller string, ref model.PortfolioRef, in ledger.RecordTransactionInput) (model.TransactionRecord, error) {
	var record model.TransactionRecord

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		portfolioRepo := s.portfolioRepo.WithTx(tx)

		p, err := resolvePortfolio(ctx, portfolioRepo, s.deriver, ref)
		if err != nil {
			return err
		}

		var next model.Portfolio
		next, record, err = ledger.RecordTransaction(caller, p, uuid.New().String(), in, s.clock.Now())
		if err != nil {
			return err
		}

		if err := s.transactionRepo.WithTx(tx).InsertTransaction(ctx, record); err != nil {
			return err
		}
		return portfolioRepo.UpdatePortfolio(ctx, next)
	})
	if err != nil {
		return model.TransactionRecord{}, err
	}

	s.log.Info("transaction recorded",
		"address", record.PortfolioAddress.String(),
		"record_id", record.ID,
		"transaction_id", record.TransactionID,
		"type", record.Type,
		"description", record.Description,
	)
	return record, nil
}

// ListTransactions returns the caller's records at ref, oldest first.
func (s *TransactionService) ListTransactions(ctx context.Context, caller string, ref model.PortfolioRef, filter model.TransactionFilter) ([]model.TransactionRecord, error) {
	p, err := resolveOwned(ctx, s.portfolioRepo, s.deriver, caller, ref)
	if err != nil {
		return nil, err
	}
	records, err := s.transactionRepo.ListTransactions(ctx, p.Address, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	return records, nil
}
