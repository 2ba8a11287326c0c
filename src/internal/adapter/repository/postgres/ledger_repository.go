package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ega-bank/core-banking/src/internal/commons"
	"github.com/ega-bank/core-banking/src/internal/domain"
	"github.com/ega-bank/core-banking/src/internal/logger"
)

// LedgerRepository posts balance mutations. Every posting runs as a single
// database transaction: the touched account rows are locked with
// SELECT ... FOR UPDATE, the variant debit policy is applied under the lock,
// and the balance update(s) plus the transaction insert commit together.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) PostDeposit(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("begin deposit transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var account domain.Account
	if account, err = lockAccount(ctx, tx, *txn.DestinationAccountID); err != nil {
		return domain.Transaction{}, err
	}
	if err = account.Credit(txn.Amount); err != nil {
		return domain.Transaction{}, err
	}
	if err = updateBalance(ctx, tx, account); err != nil {
		return domain.Transaction{}, err
	}
	if txn, err = insertTransaction(ctx, tx, txn); err != nil {
		return domain.Transaction{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Transaction{}, fmt.Errorf("commit deposit transaction: %w", err)
	}

	logger.Info("ledger repository deposit posted", logger.Fields{
		"reference": txn.Reference,
		"accountId": *txn.DestinationAccountID,
	})
	return txn, nil
}

func (r *LedgerRepository) PostWithdrawal(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("begin withdrawal transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var account domain.Account
	if account, err = lockAccount(ctx, tx, *txn.SourceAccountID); err != nil {
		return domain.Transaction{}, err
	}
	if err = account.Debit(txn.Amount); err != nil {
		return domain.Transaction{}, err
	}
	if err = updateBalance(ctx, tx, account); err != nil {
		return domain.Transaction{}, err
	}
	if txn, err = insertTransaction(ctx, tx, txn); err != nil {
		return domain.Transaction{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Transaction{}, fmt.Errorf("commit withdrawal transaction: %w", err)
	}

	logger.Info("ledger repository withdrawal posted", logger.Fields{
		"reference": txn.Reference,
		"accountId": *txn.SourceAccountID,
	})
	return txn, nil
}

func (r *LedgerRepository) PostTransfer(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	sourceID := *txn.SourceAccountID
	destinationID := *txn.DestinationAccountID

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Lock both rows in ascending id order so that concurrent opposite
	// transfers cannot deadlock.
	firstID, secondID := sourceID, destinationID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	var first, second domain.Account
	if first, err = lockAccount(ctx, tx, firstID); err != nil {
		return domain.Transaction{}, err
	}
	if second, err = lockAccount(ctx, tx, secondID); err != nil {
		return domain.Transaction{}, err
	}

	source, destination := &first, &second
	if source.ID != sourceID {
		source, destination = &second, &first
	}

	if err = source.Debit(txn.Amount); err != nil {
		return domain.Transaction{}, err
	}
	if err = destination.Credit(txn.Amount); err != nil {
		return domain.Transaction{}, err
	}
	if err = updateBalance(ctx, tx, *source); err != nil {
		return domain.Transaction{}, err
	}
	if err = updateBalance(ctx, tx, *destination); err != nil {
		return domain.Transaction{}, err
	}
	if txn, err = insertTransaction(ctx, tx, txn); err != nil {
		return domain.Transaction{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Transaction{}, fmt.Errorf("commit transfer transaction: %w", err)
	}

	logger.Info("ledger repository transfer posted", logger.Fields{
		"reference":     txn.Reference,
		"sourceId":      sourceID,
		"destinationId": destinationID,
	})
	return txn, nil
}

func lockAccount(ctx context.Context, tx *sql.Tx, id int64) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	var account domain.Account
	if err := tx.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.AccountNumber,
		&account.Type,
		&account.Balance,
		&account.ClientID,
		&account.OverdraftLimit,
		&account.MaintenanceFee,
		&account.WithdrawalCap,
		&account.InterestRate,
		&account.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Account{}, commons.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("lock account %d: %w", id, err)
	}

	return account, nil
}

func updateBalance(ctx context.Context, tx *sql.Tx, account domain.Account) error {
	result, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = $2 WHERE id = $1`, account.ID, account.Balance)
	if err != nil {
		return fmt.Errorf("update balance for account %d: %w", account.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update balance rows affected: %w", err)
	}
	if rows == 0 {
		return commons.ErrRecordNotFound
	}

	return nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, txn domain.Transaction) (domain.Transaction, error) {
	const query = `
INSERT INTO transactions (
	reference,
	transaction_type,
	amount,
	description,
	source_account_id,
	destination_account_id
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, transaction_date`

	if err := tx.QueryRowContext(
		ctx,
		query,
		txn.Reference,
		txn.Type,
		txn.Amount,
		txn.Description,
		txn.SourceAccountID,
		txn.DestinationAccountID,
	).Scan(&txn.ID, &txn.Timestamp); err != nil {
		if isUniqueViolation(err) {
			return domain.Transaction{}, domain.ErrDuplicateResource
		}
		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	return txn, nil
}
