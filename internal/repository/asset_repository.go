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

// AssetRepository provides data access methods for the crypto_asset table.
type AssetRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAssetRepository creates a new AssetRepository with the provided database connection.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// WithTx returns a new AssetRepository scoped to the provided transaction.
func (r *AssetRepository) WithTx(tx *sql.Tx) *AssetRepository {
	return &AssetRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *AssetRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const assetColumns = `id, portfolio_address, symbol, amount, price_usd, network, last_updated`

func scanAsset(row interface{ Scan(...any) error }) (model.CryptoAsset, error) {
	var a model.CryptoAsset
	err := row.Scan(
		&a.ID,
		&a.PortfolioAddress,
		&a.Symbol,
		&a.Amount,
		&a.PriceUSD,
		&a.Network,
		&a.LastUpdated,
	)
	return a, err
}

// InsertAsset stores a new holding.
func (r *AssetRepository) InsertAsset(ctx context.Context, a model.CryptoAsset) error {
	query := `
        INSERT INTO crypto_asset (` + assetColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		a.ID,
		a.PortfolioAddress,
		a.Symbol,
		a.Amount,
		a.PriceUSD,
		a.Network,
		a.LastUpdated,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: asset %s", apperrors.ErrAlreadyExists, a.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert crypto_asset: %w", err)
	}
	return nil
}

// GetAsset retrieves a holding by ID.
// Returns ErrAssetNotFound if no record with the given ID exists.
func (r *AssetRepository) GetAsset(ctx context.Context, id string) (model.CryptoAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM crypto_asset WHERE id = ?`

	a, err := scanAsset(r.getQuerier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.CryptoAsset{}, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return model.CryptoAsset{}, fmt.Errorf("failed to query crypto_asset: %w", err)
	}
	return a, nil
}

// UpdateAsset writes the amount, price and last_updated of a holding.
func (r *AssetRepository) UpdateAsset(ctx context.Context, a model.CryptoAsset) error {
	query := `
        UPDATE crypto_asset
        SET amount = ?, price_usd = ?, last_updated = ?
        WHERE id = ?
    `

	result, err := r.getQuerier().ExecContext(ctx, query,
		a.Amount,
		a.PriceUSD,
		a.LastUpdated,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update crypto_asset: %w", err)
	}
	return checkAffected(result, apperrors.ErrAssetNotFound)
}

// ListAssets returns the holdings of a portfolio in insertion order.
// Returns an empty slice if the portfolio holds nothing.
func (r *AssetRepository) ListAssets(ctx context.Context, addr address.Address) ([]model.CryptoAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM crypto_asset WHERE portfolio_address = ? ORDER BY rowid`

	rows, err := r.getQuerier().QueryContext(ctx, query, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to query crypto_asset table: %w", err)
	}
	defer rows.Close()

	assets := []model.CryptoAsset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crypto_asset table results: %w", err)
		}
		assets = append(assets, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crypto_asset table: %w", err)
	}
	return assets, nil
}
