package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ega-bank/core-banking/src/internal/adapter/http/models"
	"github.com/ega-bank/core-banking/src/internal/adapter/repository/repo_interfaces"
	"github.com/ega-bank/core-banking/src/internal/commons"
	"github.com/ega-bank/core-banking/src/internal/domain"
	"github.com/ega-bank/core-banking/src/internal/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const generationAttempts = 5

type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
	clientRepo  repo_interfaces.ClientRepository
}

func NewAccountService(accountRepo repo_interfaces.AccountRepository, clientRepo repo_interfaces.ClientRepository) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		clientRepo:  clientRepo,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service create account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service create account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	exists, err := s.clientRepo.ExistsByID(ctx, req.ClientID)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}
	if !exists {
		err := commons.ErrRecordNotFound
		return commons.ErrorResponse[models.AccountResponse]("Client not found"), err
	}

	account := domain.Account{
		Type:     domain.AccountType(strings.ToUpper(strings.TrimSpace(req.AccountType))),
		Balance:  decimal.Zero,
		ClientID: req.ClientID,
	}
	applyVariantDefaults(&account, req)

	created, err := s.createWithFreshNumber(ctx, account)
	if err != nil {
		logger.Error("account service create account repository failed", err, logger.Fields{
			"clientId": req.ClientID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	logger.Info("account service create account success", logger.Fields{
		"accountId":     created.ID,
		"accountNumber": created.AccountNumber,
		"accountType":   created.Type,
	})
	return commons.SuccessResponse("account created successfully", mapAccountToResponse(created)), nil
}

// createWithFreshNumber generates a candidate account number, checks it
// against the store and inserts. The unique constraint still backs the check:
// a concurrent insert of the same number surfaces as a duplicate and the loop
// draws a new one.
func (s *AccountService) createWithFreshNumber(ctx context.Context, account domain.Account) (domain.Account, error) {
	var lastErr error
	for attempt := 0; attempt < generationAttempts; attempt++ {
		number := generateAccountNumber()

		taken, err := s.accountRepo.ExistsByNumber(ctx, number)
		if err != nil {
			return domain.Account{}, err
		}
		if taken {
			continue
		}

		account.AccountNumber = number
		created, err := s.accountRepo.Create(ctx, account)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrDuplicateResource) {
			return domain.Account{}, err
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = domain.ErrDuplicateResource
	}
	return domain.Account{}, fmt.Errorf("exhausted account number generation attempts: %w", lastErr)
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (commons.Response[models.AccountResponse], error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to get account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("account fetched successfully", mapAccountToResponse(account)), nil
}

func (s *AccountService) GetAccountByNumber(ctx context.Context, accountNumber string) (commons.Response[models.AccountResponse], error) {
	account, err := s.accountRepo.GetByNumber(ctx, strings.TrimSpace(accountNumber))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to get account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("account fetched successfully", mapAccountToResponse(account)), nil
}

func (s *AccountService) ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return commons.ErrorResponse[[]models.AccountResponse]("failed to list accounts", "Unable to list accounts right now"), err
	}

	return commons.SuccessResponse("accounts fetched successfully", mapAccountsToResponses(accounts)), nil
}

func (s *AccountService) ListAccountsForClient(ctx context.Context, clientID int64) (commons.Response[[]models.AccountResponse], error) {
	exists, err := s.clientRepo.ExistsByID(ctx, clientID)
	if err != nil {
		return commons.ErrorResponse[[]models.AccountResponse]("failed to list accounts", "Unable to list accounts right now"), err
	}
	if !exists {
		err := commons.ErrRecordNotFound
		return commons.ErrorResponse[[]models.AccountResponse]("Client not found"), err
	}

	accounts, err := s.accountRepo.ListByClient(ctx, clientID)
	if err != nil {
		return commons.ErrorResponse[[]models.AccountResponse]("failed to list accounts", "Unable to list accounts right now"), err
	}

	return commons.SuccessResponse("accounts fetched successfully", mapAccountsToResponses(accounts)), nil
}

func (s *AccountService) GetBalance(ctx context.Context, id int64) (commons.Response[models.BalanceResponse], error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.BalanceResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.BalanceResponse]("failed to get balance", "Unable to fetch balance right now"), err
	}

	response := models.BalanceResponse{
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		Balance:       account.Balance.StringFixed(2),
	}
	return commons.SuccessResponse("balance fetched successfully", response), nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, id int64) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service delete account request", logger.Fields{"accountId": id})

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to delete account", "Unable to delete account right now"), err
	}

	if !account.Balance.IsZero() {
		err := domain.ErrBusinessRuleViolation
		logger.Error("account service delete account blocked", err, logger.Fields{
			"accountId": id,
			"balance":   account.Balance.StringFixed(2),
		})
		return commons.ErrorResponse[models.AccountResponse]("Account balance must be zero", "Current balance: "+account.Balance.StringFixed(2)), err
	}

	if err := s.accountRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		if errors.Is(err, domain.ErrBusinessRuleViolation) {
			logger.Error("account service delete account blocked", err, logger.Fields{"accountId": id})
			return commons.ErrorResponse[models.AccountResponse]("Account balance must be zero"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to delete account", "Unable to delete account right now"), err
	}

	logger.Info("account service delete account success", logger.Fields{"accountId": id})
	return commons.SuccessResponse("account deleted successfully", mapAccountToResponse(account)), nil
}

func (s *AccountService) CountAccounts(ctx context.Context) (commons.Response[models.AccountCountResponse], error) {
	count, err := s.accountRepo.Count(ctx)
	if err != nil {
		return commons.ErrorResponse[models.AccountCountResponse]("failed to count accounts", "Unable to count accounts right now"), err
	}

	return commons.SuccessResponse("accounts counted successfully", models.AccountCountResponse{Count: count}), nil
}

func applyVariantDefaults(account *domain.Account, req models.CreateAccountRequest) {
	switch account.Type {
	case domain.AccountTypeChecking:
		account.OverdraftLimit = valueOrDefault(req.OverdraftLimit, domain.DefaultOverdraftLimit)
		account.MaintenanceFee = valueOrDefault(req.MaintenanceFee, domain.DefaultMaintenanceFee)
		account.WithdrawalCap = valueOrDefault(req.WithdrawalCap, domain.DefaultWithdrawalCap)
		account.InterestRate = decimal.Zero
	case domain.AccountTypeSavings:
		account.OverdraftLimit = decimal.Zero
		account.MaintenanceFee = decimal.Zero
		account.WithdrawalCap = valueOrDefault(req.WithdrawalCap, domain.DefaultWithdrawalCap)
		account.InterestRate = valueOrDefault(req.InterestRate, domain.DefaultInterestRate)
	}
}

func valueOrDefault(value *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if value == nil {
		return fallback
	}
	return *value
}

func generateAccountNumber() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "CPT-" + token[:10]
}

func mapAccountToResponse(account domain.Account) models.AccountResponse {
	response := models.AccountResponse{
		ID:            account.ID,
		AccountNumber: account.AccountNumber,
		AccountType:   string(account.Type),
		Balance:       account.Balance.StringFixed(2),
		ClientID:      account.ClientID,
		WithdrawalCap: account.WithdrawalCap.StringFixed(2),
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
	}

	switch account.Type {
	case domain.AccountTypeChecking:
		response.OverdraftLimit = account.OverdraftLimit.StringFixed(2)
		response.MaintenanceFee = account.MaintenanceFee.StringFixed(2)
	case domain.AccountTypeSavings:
		response.InterestRate = account.InterestRate.String()
	}

	return response
}

func mapAccountsToResponses(accounts []domain.Account) []models.AccountResponse {
	responses := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, mapAccountToResponse(account))
	}
	return responses
}
