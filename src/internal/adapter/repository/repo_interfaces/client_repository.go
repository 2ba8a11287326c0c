package repo_interfaces

import (
	"context"

	"github.com/ega-bank/core-banking/src/internal/domain"
)

type ClientRepository interface {
	Create(ctx context.Context, client domain.Client) (domain.Client, error)
	Update(ctx context.Context, client domain.Client) (domain.Client, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (domain.Client, error)
	GetByEmail(ctx context.Context, email string) (domain.Client, error)
	GetByPhone(ctx context.Context, phone string) (domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	ListByNationality(ctx context.Context, nationality string) ([]domain.Client, error)
	SearchByName(ctx context.Context, term string) ([]domain.Client, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
