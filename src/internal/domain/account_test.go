package domain_test

import (
	"errors"
	"testing"

	"github.com/ega-bank/core-banking/src/internal/domain"
	"github.com/shopspring/decimal"
)

func checkingAccount(balance string) domain.Account {
	return domain.Account{
		ID:             1,
		AccountNumber:  "CPT-AAAA000001",
		Type:           domain.AccountTypeChecking,
		Balance:        decimal.RequireFromString(balance),
		ClientID:       1,
		OverdraftLimit: domain.DefaultOverdraftLimit,
		MaintenanceFee: domain.DefaultMaintenanceFee,
		WithdrawalCap:  domain.DefaultWithdrawalCap,
	}
}

func savingsAccount(balance string) domain.Account {
	return domain.Account{
		ID:            2,
		AccountNumber: "CPT-BBBB000002",
		Type:          domain.AccountTypeSavings,
		Balance:       decimal.RequireFromString(balance),
		ClientID:      1,
		WithdrawalCap: domain.DefaultWithdrawalCap,
		InterestRate:  domain.DefaultInterestRate,
	}
}

func TestAccountDebitCheckingUsesOverdraft(t *testing.T) {
	account := checkingAccount("50")

	if err := account.Debit(decimal.RequireFromString("500")); err != nil {
		t.Fatalf("expected debit within overdraft to succeed, got %v", err)
	}
	if got := account.Balance.StringFixed(2); got != "-450.00" {
		t.Fatalf("expected balance -450.00, got %s", got)
	}
}

func TestAccountDebitCheckingRejectsBeyondOverdraft(t *testing.T) {
	account := checkingAccount("0")

	err := account.Debit(decimal.RequireFromString("500.01"))
	if !errors.Is(err, domain.ErrOverdraftExceeded) {
		t.Fatalf("expected ErrOverdraftExceeded, got %v", err)
	}
	if !account.Balance.IsZero() {
		t.Fatalf("expected balance unchanged, got %s", account.Balance)
	}
}

func TestAccountDebitCheckingAllowsExactOverdraftFloor(t *testing.T) {
	account := checkingAccount("0")

	if err := account.Debit(decimal.RequireFromString("500")); err != nil {
		t.Fatalf("expected debit to the overdraft floor to succeed, got %v", err)
	}
	if got := account.Balance.StringFixed(2); got != "-500.00" {
		t.Fatalf("expected balance -500.00, got %s", got)
	}
}

func TestAccountDebitSavingsRejectsInsufficientBalance(t *testing.T) {
	account := savingsAccount("200")

	err := account.Debit(decimal.RequireFromString("200.01"))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := account.Balance.StringFixed(2); got != "200.00" {
		t.Fatalf("expected balance unchanged, got %s", got)
	}
}

func TestAccountDebitSavingsAllowsFullBalance(t *testing.T) {
	account := savingsAccount("1000")

	if err := account.Debit(decimal.RequireFromString("1000")); err != nil {
		t.Fatalf("expected full-balance debit to succeed, got %v", err)
	}
	if !account.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", account.Balance)
	}
}

func TestAccountDebitEnforcesWithdrawalCap(t *testing.T) {
	account := checkingAccount("5000")

	if err := account.Debit(decimal.RequireFromString("1000")); err != nil {
		t.Fatalf("expected debit at the cap to succeed, got %v", err)
	}

	err := account.Debit(decimal.RequireFromString("1000.01"))
	if !errors.Is(err, domain.ErrWithdrawalCapExceeded) {
		t.Fatalf("expected ErrWithdrawalCapExceeded, got %v", err)
	}
}

func TestAccountDebitRejectsNonPositiveAmount(t *testing.T) {
	account := savingsAccount("100")

	for _, amount := range []string{"0", "-1"} {
		if err := account.Debit(decimal.RequireFromString(amount)); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %s, got %v", amount, err)
		}
	}
}

func TestAccountCreditRejectsNonPositiveAmount(t *testing.T) {
	account := checkingAccount("100")

	for _, amount := range []string{"0", "-5"} {
		if err := account.Credit(decimal.RequireFromString(amount)); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %s, got %v", amount, err)
		}
	}
	if got := account.Balance.StringFixed(2); got != "100.00" {
		t.Fatalf("expected balance unchanged, got %s", got)
	}
}

func TestAccountDebitCheckingMidBalanceOverdraft(t *testing.T) {
	account := checkingAccount("100")

	if err := account.Debit(decimal.RequireFromString("550")); err != nil {
		t.Fatalf("expected debit into overdraft to succeed, got %v", err)
	}
	if got := account.Balance.StringFixed(2); got != "-450.00" {
		t.Fatalf("expected balance -450.00, got %s", got)
	}
}

func TestAccountBalanceTracksCreditsAndDebits(t *testing.T) {
	account := checkingAccount("0")
	expected := decimal.Zero

	steps := []struct {
		credit bool
		amount string
	}{
		{true, "250"},
		{false, "100"},
		{true, "33.33"},
		{false, "400"},
		{true, "0.01"},
	}
	for _, step := range steps {
		amount := decimal.RequireFromString(step.amount)
		if step.credit {
			if err := account.Credit(amount); err != nil {
				t.Fatalf("credit %s: %v", step.amount, err)
			}
			expected = expected.Add(amount)
		} else {
			if err := account.Debit(amount); err != nil {
				t.Fatalf("debit %s: %v", step.amount, err)
			}
			expected = expected.Sub(amount)
		}
	}

	if !account.Balance.Equal(expected) {
		t.Fatalf("expected balance %s, got %s", expected, account.Balance)
	}
}

func TestAccountCreditAddsToBalance(t *testing.T) {
	account := savingsAccount("10.50")

	if err := account.Credit(decimal.RequireFromString("0.25")); err != nil {
		t.Fatalf("expected credit to succeed, got %v", err)
	}
	if got := account.Balance.StringFixed(2); got != "10.75" {
		t.Fatalf("expected balance 10.75, got %s", got)
	}
}
