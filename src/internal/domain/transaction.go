package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

// Transaction is immutable once recorded. Source is set for withdrawals and
// transfers, destination for deposits and transfers.
type Transaction struct {
	ID                   int64
	Reference            string
	Type                 TransactionType
	Amount               decimal.Decimal
	Description          string
	SourceAccountID      *int64
	DestinationAccountID *int64
	Timestamp            time.Time
}
