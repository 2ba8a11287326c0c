package repo_interfaces

import (
	"context"

	"github.com/ega-bank/core-banking/src/internal/domain"
)

// LedgerRepository performs balance-affecting postings. Each call is one
// atomic unit: the balance mutation(s) and the transaction record commit
// together or not at all.
type LedgerRepository interface {
	PostDeposit(ctx context.Context, txn domain.Transaction) (domain.Transaction, error)
	PostWithdrawal(ctx context.Context, txn domain.Transaction) (domain.Transaction, error)
	PostTransfer(ctx context.Context, txn domain.Transaction) (domain.Transaction, error)
}
