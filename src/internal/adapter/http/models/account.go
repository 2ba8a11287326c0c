package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	ClientID    int64  `json:"clientId"`
	AccountType string `json:"accountType"`

	// Optional overrides; each falls back to the variant default when absent.
	OverdraftLimit *decimal.Decimal `json:"overdraftLimit,omitempty"`
	MaintenanceFee *decimal.Decimal `json:"maintenanceFee,omitempty"`
	WithdrawalCap  *decimal.Decimal `json:"withdrawalCap,omitempty"`
	InterestRate   *decimal.Decimal `json:"interestRate,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if r.ClientID <= 0 {
		errs = append(errs, "clientId is required")
	}

	accountType := strings.ToUpper(strings.TrimSpace(r.AccountType))
	switch accountType {
	case "":
		errs = append(errs, "accountType is required")
	case "CHECKING":
		if r.InterestRate != nil {
			errs = append(errs, "interestRate does not apply to checking accounts")
		}
	case "SAVINGS":
		if r.OverdraftLimit != nil {
			errs = append(errs, "overdraftLimit does not apply to savings accounts")
		}
		if r.MaintenanceFee != nil {
			errs = append(errs, "maintenanceFee does not apply to savings accounts")
		}
	default:
		errs = append(errs, "accountType must be CHECKING or SAVINGS")
	}

	if r.OverdraftLimit != nil && r.OverdraftLimit.IsNegative() {
		errs = append(errs, "overdraftLimit cannot be negative")
	}
	if r.MaintenanceFee != nil && r.MaintenanceFee.IsNegative() {
		errs = append(errs, "maintenanceFee cannot be negative")
	}
	if r.WithdrawalCap != nil && r.WithdrawalCap.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "withdrawalCap must be positive")
	}
	if r.InterestRate != nil && r.InterestRate.IsNegative() {
		errs = append(errs, "interestRate cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type AccountResponse struct {
	ID             int64  `json:"id"`
	AccountNumber  string `json:"accountNumber"`
	AccountType    string `json:"accountType"`
	Balance        string `json:"balance"`
	ClientID       int64  `json:"clientId"`
	OverdraftLimit string `json:"overdraftLimit,omitempty"`
	MaintenanceFee string `json:"maintenanceFee,omitempty"`
	WithdrawalCap  string `json:"withdrawalCap"`
	InterestRate   string `json:"interestRate,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

type BalanceResponse struct {
	AccountID     int64  `json:"accountId"`
	AccountNumber string `json:"accountNumber"`
	Balance       string `json:"balance"`
}

type AccountCountResponse struct {
	Count int64 `json:"count"`
}

type InterestAccrualResponse struct {
	AccountsCredited int    `json:"accountsCredited"`
	TotalInterest    string `json:"totalInterest"`
}
