package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
)

var (
	DefaultOverdraftLimit = decimal.NewFromInt(500)
	DefaultMaintenanceFee = decimal.NewFromInt(5)
	DefaultWithdrawalCap  = decimal.NewFromInt(1000)
	DefaultInterestRate   = decimal.RequireFromString("2.5")
)

// Account is a single struct covering both variants; Type selects the debit
// policy and the variant parameters that apply. The variant is fixed at
// creation and never changes.
type Account struct {
	ID             int64
	AccountNumber  string
	Type           AccountType
	Balance        decimal.Decimal
	ClientID       int64
	OverdraftLimit decimal.Decimal
	MaintenanceFee decimal.Decimal
	WithdrawalCap  decimal.Decimal
	InterestRate   decimal.Decimal
	CreatedAt      time.Time
}

func (a *Account) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	a.Balance = a.Balance.Add(amount)
	return nil
}

// Debit applies the variant withdrawal policy. Checking may go negative down
// to -OverdraftLimit; savings must keep a non-negative balance. Nothing is
// mutated when the policy rejects the amount.
func (a *Account) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.WithdrawalCap) {
		return ErrWithdrawalCapExceeded
	}

	switch a.Type {
	case AccountTypeChecking:
		if a.Balance.Sub(amount).LessThan(a.OverdraftLimit.Neg()) {
			return ErrOverdraftExceeded
		}
	case AccountTypeSavings:
		if a.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}
	default:
		return fmt.Errorf("unknown account type %q", a.Type)
	}

	a.Balance = a.Balance.Sub(amount)
	return nil
}
