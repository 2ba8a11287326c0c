package repo_interfaces

import (
	"context"

	"github.com/ega-bank/core-banking/src/internal/domain"
)

type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.Account, error)
	ListByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByNumber(ctx context.Context, accountNumber string) (bool, error)
	CountByClient(ctx context.Context, clientID int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}
