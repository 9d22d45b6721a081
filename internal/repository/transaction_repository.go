package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/encryption"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// TransactionRepository provides append and read access to the transaction_record table.
// Descriptions are sealed with the configured cipher before they are written.
// There is deliberately no update or delete.
type TransactionRepository struct {
	db     *sql.DB
	tx     *sql.Tx
	cipher encryption.Cipher
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
// A nil cipher stores descriptions in plain text.
func NewTransactionRepository(db *sql.DB, cipher encryption.Cipher) *TransactionRepository {
	if cipher == nil {
		cipher = encryption.Plain{}
	}
	return &TransactionRepository{db: db, cipher: cipher}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db:     r.db,
		tx:     tx,
		cipher: r.cipher,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertTransaction appends a record.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, rec model.TransactionRecord) error {
	description, err := r.cipher.Seal(rec.Description)
	if err != nil {
		return fmt.Errorf("failed to seal description: %w", err)
	}

	query := `
        INSERT INTO transaction_record (id, portfolio_address, transaction_id, amount, type, category, description, timestamp)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err = r.getQuerier().ExecContext(ctx, query,
		rec.ID,
		rec.PortfolioAddress,
		rec.TransactionID,
		rec.Amount,
		rec.Type,
		rec.Category,
		description,
		rec.Timestamp,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: transaction record %s", apperrors.ErrAlreadyExists, rec.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert transaction_record: %w", err)
	}
	return nil
}

// ListTransactions returns the records of a portfolio oldest first, narrowed by filter.
// Returns an empty slice if nothing matches.
func (r *TransactionRepository) ListTransactions(ctx context.Context, addr address.Address, filter model.TransactionFilter) ([]model.TransactionRecord, error) {
	query := `
        SELECT id, portfolio_address, transaction_id, amount, type, category, description, timestamp
        FROM transaction_record
        WHERE portfolio_address = ?
    `
	args := []any{addr}

	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.TransactionID != "" {
		query += " AND transaction_id = ?"
		args = append(args, filter.TransactionID)
	}

	query += " ORDER BY timestamp, rowid LIMIT ? OFFSET ?"
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit, filter.Offset)

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction_record table: %w", err)
	}
	defer rows.Close()

	records := []model.TransactionRecord{}
	for rows.Next() {
		var rec model.TransactionRecord
		var sealed string

		err := rows.Scan(
			&rec.ID,
			&rec.PortfolioAddress,
			&rec.TransactionID,
			&rec.Amount,
			&rec.Type,
			&rec.Category,
			&sealed,
			&rec.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction_record table results: %w", err)
		}

		rec.Description, err = r.cipher.Open(sealed)
		if err != nil {
			return nil, fmt.Errorf("failed to open description of %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction_record table: %w", err)
	}
	return records, nil
}
