package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ega-bank/core-banking/src/internal/commons"
	"github.com/ega-bank/core-banking/src/internal/domain"
	"github.com/ega-bank/core-banking/src/internal/logger"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, reference, transaction_type, amount, description, source_account_id, destination_account_id, transaction_date`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1`
	return r.queryOne(ctx, query, reference)
}

func (r *TransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY transaction_date DESC, id DESC`
	return r.queryMany(ctx, query)
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
FROM transactions
WHERE source_account_id = $1 OR destination_account_id = $1
ORDER BY transaction_date DESC, id DESC`
	return r.queryMany(ctx, query, accountID)
}

func (r *TransactionRepository) ListByPeriod(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
FROM transactions
WHERE transaction_date BETWEEN $1 AND $2
ORDER BY transaction_date DESC, id DESC`
	return r.queryMany(ctx, query, start, end)
}

func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	const query = `
SELECT COUNT(1)
FROM transactions
WHERE source_account_id = $1 OR destination_account_id = $1`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions for account: %w", err)
	}
	return count, nil
}

func (r *TransactionRepository) SumByAccountAndType(ctx context.Context, accountID int64, txType domain.TransactionType) (decimal.Decimal, error) {
	const query = `
SELECT COALESCE(SUM(amount), 0)
FROM transactions
WHERE transaction_type = $2
  AND (source_account_id = $1 OR destination_account_id = $1)`

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, accountID, txType).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions for account: %w", err)
	}
	return total, nil
}

func (r *TransactionRepository) queryOne(ctx context.Context, query string, arg any) (domain.Transaction, error) {
	var (
		txn           domain.Transaction
		description   sql.NullString
		sourceID      sql.NullInt64
		destinationID sql.NullInt64
	)

	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&txn.ID,
		&txn.Reference,
		&txn.Type,
		&txn.Amount,
		&description,
		&sourceID,
		&destinationID,
		&txn.Timestamp,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Transaction{}, commons.ErrRecordNotFound
		}
		logger.Error("transaction repository query failed", err, nil)
		return domain.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}

	applyNullables(&txn, description, sourceID, destinationID)
	return txn, nil
}

func (r *TransactionRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("transaction repository list failed", err, nil)
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			txn           domain.Transaction
			description   sql.NullString
			sourceID      sql.NullInt64
			destinationID sql.NullInt64
		)
		if err := rows.Scan(
			&txn.ID,
			&txn.Reference,
			&txn.Type,
			&txn.Amount,
			&description,
			&sourceID,
			&destinationID,
			&txn.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		applyNullables(&txn, description, sourceID, destinationID)
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return transactions, nil
}

func applyNullables(txn *domain.Transaction, description sql.NullString, sourceID, destinationID sql.NullInt64) {
	if description.Valid {
		txn.Description = description.String
	}
	if sourceID.Valid {
		value := sourceID.Int64
		txn.SourceAccountID = &value
	}
	if destinationID.Valid {
		value := destinationID.Int64
		txn.DestinationAccountID = &value
	}
}
