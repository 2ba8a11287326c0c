package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ega-bank/core-banking/src/internal/adapter/http/models"
	"github.com/ega-bank/core-banking/src/internal/adapter/repository/repo_interfaces"
	"github.com/ega-bank/core-banking/src/internal/commons"
	"github.com/ega-bank/core-banking/src/internal/domain"
	"github.com/ega-bank/core-banking/src/internal/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const accrualWorkers = 4

var hundred = decimal.NewFromInt(100)

// InterestService credits periodic interest to savings accounts. Each credit
// goes through the regular deposit posting path, so accrual shows up in the
// transaction history like any other movement.
type InterestService struct {
	accountRepo repo_interfaces.AccountRepository
	ledger      *LedgerService
}

func NewInterestService(accountRepo repo_interfaces.AccountRepository, ledger *LedgerService) *InterestService {
	return &InterestService{
		accountRepo: accountRepo,
		ledger:      ledger,
	}
}

func (s *InterestService) AccrueInterest(ctx context.Context) (commons.Response[models.InterestAccrualResponse], error) {
	logger.Info("interest service accrual sweep started", nil)

	accounts, err := s.accountRepo.ListByType(ctx, domain.AccountTypeSavings)
	if err != nil {
		return commons.ErrorResponse[models.InterestAccrualResponse]("failed to accrue interest", "Unable to accrue interest right now"), err
	}

	var (
		mu       sync.Mutex
		credited int
		total    = decimal.Zero
		failed   []error
	)

	// One failed account must not stop the sweep, so the group carries no
	// cancelling context; per-account failures are collected and reported
	// together after every account has been visited.
	var g errgroup.Group
	g.SetLimit(accrualWorkers)

	for _, account := range accounts {
		if account.Balance.LessThanOrEqual(decimal.Zero) || account.InterestRate.LessThanOrEqual(decimal.Zero) {
			continue
		}

		g.Go(func() error {
			amount := account.Balance.Mul(account.InterestRate).Div(hundred).Round(2)
			if amount.LessThanOrEqual(decimal.Zero) {
				return nil
			}

			_, err := s.ledger.Deposit(ctx, models.DepositRequest{
				AccountID:   account.ID,
				Amount:      amount,
				Description: "Interest accrual",
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, fmt.Errorf("accrue interest for account %d: %w", account.ID, err))
				return nil
			}
			credited++
			total = total.Add(amount)
			return nil
		})
	}

	_ = g.Wait()

	if err := errors.Join(failed...); err != nil {
		logger.Error("interest service accrual sweep finished with failures", err, logger.Fields{
			"accountsCredited": credited,
			"failedAccounts":   len(failed),
		})
		return commons.ErrorResponse[models.InterestAccrualResponse]("failed to accrue interest", err.Error()), err
	}

	response := models.InterestAccrualResponse{
		AccountsCredited: credited,
		TotalInterest:    total.StringFixed(2),
	}

	logger.Info("interest service accrual sweep finished", logger.Fields{
		"accountsCredited": credited,
		"totalInterest":    response.TotalInterest,
	})
	return commons.SuccessResponse("interest accrued successfully", response), nil
}
