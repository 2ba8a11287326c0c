package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ega-bank/core-banking/src/internal/commons"
	"github.com/ega-bank/core-banking/src/internal/domain"
	"github.com/ega-bank/core-banking/src/internal/logger"
)

const accountColumns = `id, account_number, account_type, balance, client_id, overdraft_limit, maintenance_fee, withdrawal_cap, interest_rate, created_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
INSERT INTO accounts (
	account_number,
	account_type,
	balance,
	client_id,
	overdraft_limit,
	maintenance_fee,
	withdrawal_cap,
	interest_rate
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.AccountNumber,
		account.Type,
		account.Balance,
		account.ClientID,
		account.OverdraftLimit,
		account.MaintenanceFee,
		account.WithdrawalCap,
		account.InterestRate,
	).Scan(&account.ID, &account.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, domain.ErrDuplicateResource
		}
		logger.Error("account repository create failed", err, logger.Fields{
			"accountNumber": account.AccountNumber,
			"clientId":      account.ClientID,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	logger.Info("account repository create success", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
		"accountType":   account.Type,
	})

	return account, nil
}

// Delete removes an account only while its balance is zero. The balance check
// belongs to the statement itself so a deposit landing between the service's
// read and this delete cannot erase a funded account.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1 AND balance = 0`, id)
	if err != nil {
		logger.Error("account repository delete failed", err, logger.Fields{"accountId": id})
		return fmt.Errorf("delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account rows affected: %w", err)
	}
	if rows == 0 {
		exists, err := r.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrBusinessRuleViolation
		}
		return commons.ErrRecordNotFound
	}

	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *AccountRepository) GetByNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return r.queryOne(ctx, query, accountNumber)
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY id`
	return r.queryMany(ctx, query)
}

func (r *AccountRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE client_id = $1 ORDER BY id`
	return r.queryMany(ctx, query, clientID)
}

func (r *AccountRepository) ListByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_type = $1 ORDER BY id`
	return r.queryMany(ctx, query, accountType)
}

func (r *AccountRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id)
}

func (r *AccountRepository) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`, accountNumber)
}

func (r *AccountRepository) CountByClient(ctx context.Context, clientID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts WHERE client_id = $1`, clientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count accounts for client: %w", err)
	}
	return count, nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

func (r *AccountRepository) queryOne(ctx context.Context, query string, arg any) (domain.Account, error) {
	var account domain.Account
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
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
		logger.Error("account repository query failed", err, nil)
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("account repository list failed", err, nil)
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
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
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

func (r *AccountRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("check account existence: %w", err)
	}
	return exists, nil
}
