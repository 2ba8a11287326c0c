package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	AccountID   int64           `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

func (r DepositRequest) Validate() error {
	if r.AccountID <= 0 {
		return errors.New("accountId is required")
	}
	return nil
}

type WithdrawRequest struct {
	AccountID   int64           `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

func (r WithdrawRequest) Validate() error {
	if r.AccountID <= 0 {
		return errors.New("accountId is required")
	}
	return nil
}

type TransferRequest struct {
	SourceAccountID      int64           `json:"sourceAccountId"`
	DestinationAccountID int64           `json:"destinationAccountId"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description,omitempty"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if r.SourceAccountID <= 0 {
		errs = append(errs, "sourceAccountId is required")
	}
	if r.DestinationAccountID <= 0 {
		errs = append(errs, "destinationAccountId is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type TransactionResponse struct {
	ID                   int64  `json:"id"`
	Reference            string `json:"reference"`
	TransactionType      string `json:"transactionType"`
	Amount               string `json:"amount"`
	Description          string `json:"description,omitempty"`
	SourceAccountID      *int64 `json:"sourceAccountId,omitempty"`
	DestinationAccountID *int64 `json:"destinationAccountId,omitempty"`
	Timestamp            string `json:"timestamp"`
}

type TransactionCountResponse struct {
	AccountID int64 `json:"accountId"`
	Count     int64 `json:"count"`
}

type TransactionTotalResponse struct {
	AccountID       int64  `json:"accountId"`
	TransactionType string `json:"transactionType"`
	Total           string `json:"total"`
}
