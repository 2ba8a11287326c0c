package repo_interfaces

import (
	"context"
	"time"

	"github.com/ega-bank/core-banking/src/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Transaction, error)
	GetByReference(ctx context.Context, reference string) (domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	ListByPeriod(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)
	CountByAccount(ctx context.Context, accountID int64) (int64, error)
	SumByAccountAndType(ctx context.Context, accountID int64, txType domain.TransactionType) (decimal.Decimal, error)
}
