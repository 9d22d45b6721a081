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

// PortfolioRepository provides data access methods for the portfolio table.
type PortfolioRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// WithTx returns a new PortfolioRepository scoped to the provided transaction.
func (r *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *PortfolioRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const portfolioColumns = `address, owner, disambiguator, total_assets, total_value_usd, created_at, updated_at`

func scanPortfolio(row interface{ Scan(...any) error }) (model.Portfolio, error) {
	var p model.Portfolio
	err := row.Scan(
		&p.Address,
		&p.Owner,
		&p.Disambiguator,
		&p.TotalAssets,
		&p.TotalValueUSD,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// InsertPortfolio stores a newly initialized portfolio.
// Returns ErrAlreadyExists if a portfolio already lives at its address.
func (r *PortfolioRepository) InsertPortfolio(ctx context.Context, p model.Portfolio) error {
	query := `
        INSERT INTO portfolio (` + portfolioColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		p.Address,
		p.Owner,
		p.Disambiguator,
		p.TotalAssets,
		p.TotalValueUSD,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: portfolio %s", apperrors.ErrAlreadyExists, p.Address)
	}
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}
	return nil
}

// GetPortfolio retrieves a portfolio by its address.
// Returns ErrPortfolioNotFound if no portfolio lives at the address.
func (r *PortfolioRepository) GetPortfolio(ctx context.Context, addr address.Address) (model.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolio WHERE address = ?`

	p, err := scanPortfolio(r.getQuerier().QueryRowContext(ctx, query, addr))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}
	return p, nil
}

// UpdatePortfolio writes the mutable aggregate fields of p.
// Owner, disambiguator and created_at are immutable and never written.
func (r *PortfolioRepository) UpdatePortfolio(ctx context.Context, p model.Portfolio) error {
	query := `
        UPDATE portfolio
        SET total_assets = ?, total_value_usd = ?, updated_at = ?
        WHERE address = ?
    `

	result, err := r.getQuerier().ExecContext(ctx, query,
		p.TotalAssets,
		p.TotalValueUSD,
		p.UpdatedAt,
		p.Address,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}
	return checkAffected(result, apperrors.ErrPortfolioNotFound)
}

// ListPortfolios returns every portfolio ordered by creation time.
func (r *PortfolioRepository) ListPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolio ORDER BY created_at, address`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}
		portfolios = append(portfolios, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}
	return portfolios, nil
}
