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

// LedgerService is the transaction engine: it validates fail-fast, hands the
// posting to the ledger repository as one atomic unit and owns transaction
// reference generation.
type LedgerService struct {
	ledgerRepo      repo_interfaces.LedgerRepository
	transactionRepo repo_interfaces.TransactionRepository
	accountRepo     repo_interfaces.AccountRepository
}

func NewLedgerService(
	ledgerRepo repo_interfaces.LedgerRepository,
	transactionRepo repo_interfaces.TransactionRepository,
	accountRepo repo_interfaces.AccountRepository,
) *LedgerService {
	return &LedgerService{
		ledgerRepo:      ledgerRepo,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
	}
}

func (s *LedgerService) Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("ledger service deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("ledger service deposit validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		err := domain.ErrInvalidAmount
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}

	accountID := req.AccountID
	txn := domain.Transaction{
		Type:                 domain.TransactionTypeDeposit,
		Amount:               req.Amount,
		Description:          descriptionOrDefault(req.Description, "Deposit"),
		DestinationAccountID: &accountID,
	}

	created, err := s.post(ctx, txn, s.ledgerRepo.PostDeposit)
	if err != nil {
		return s.mapPostingFailure(err, "deposit")
	}

	logger.Info("ledger service deposit success", logger.Fields{
		"reference": created.Reference,
		"accountId": accountID,
	})
	return commons.SuccessResponse("deposit recorded successfully", mapTransactionToResponse(created)), nil
}

func (s *LedgerService) Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("ledger service withdraw request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("ledger service withdraw validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		err := domain.ErrInvalidAmount
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}

	accountID := req.AccountID
	txn := domain.Transaction{
		Type:            domain.TransactionTypeWithdrawal,
		Amount:          req.Amount,
		Description:     descriptionOrDefault(req.Description, "Withdrawal"),
		SourceAccountID: &accountID,
	}

	created, err := s.post(ctx, txn, s.ledgerRepo.PostWithdrawal)
	if err != nil {
		return s.mapPostingFailure(err, "withdrawal")
	}

	logger.Info("ledger service withdraw success", logger.Fields{
		"reference": created.Reference,
		"accountId": accountID,
	})
	return commons.SuccessResponse("withdrawal recorded successfully", mapTransactionToResponse(created)), nil
}

func (s *LedgerService) Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("ledger service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("ledger service transfer validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		err := domain.ErrInvalidAmount
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}
	if req.SourceAccountID == req.DestinationAccountID {
		err := domain.ErrSameAccount
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}

	sourceID := req.SourceAccountID
	destinationID := req.DestinationAccountID
	txn := domain.Transaction{
		Type:                 domain.TransactionTypeTransfer,
		Amount:               req.Amount,
		Description:          descriptionOrDefault(req.Description, "Transfer"),
		SourceAccountID:      &sourceID,
		DestinationAccountID: &destinationID,
	}

	created, err := s.post(ctx, txn, s.ledgerRepo.PostTransfer)
	if err != nil {
		return s.mapPostingFailure(err, "transfer")
	}

	logger.Info("ledger service transfer success", logger.Fields{
		"reference":     created.Reference,
		"sourceId":      sourceID,
		"destinationId": destinationID,
	})
	return commons.SuccessResponse("transfer recorded successfully", mapTransactionToResponse(created)), nil
}

// post retries the whole posting with a fresh reference when the insert hits
// the reference unique constraint. The posting itself rolled back, so a retry
// starts clean. Exhausting the attempts indicates a generator problem, not a
// caller mistake, and surfaces as an infrastructure error.
func (s *LedgerService) post(
	ctx context.Context,
	txn domain.Transaction,
	poster func(context.Context, domain.Transaction) (domain.Transaction, error),
) (domain.Transaction, error) {
	var lastErr error
	for attempt := 0; attempt < generationAttempts; attempt++ {
		txn.Reference = generateTransactionReference()

		created, err := poster(ctx, txn)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrDuplicateResource) {
			return domain.Transaction{}, err
		}
		lastErr = err
	}

	return domain.Transaction{}, fmt.Errorf("exhausted transaction reference generation attempts: %w", lastErr)
}

func (s *LedgerService) mapPostingFailure(err error, operation string) (commons.Response[models.TransactionResponse], error) {
	switch {
	case errors.Is(err, commons.ErrRecordNotFound):
		return commons.ErrorResponse[models.TransactionResponse]("Account not found"), err
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrWithdrawalCapExceeded),
		errors.Is(err, domain.ErrOverdraftExceeded),
		errors.Is(err, domain.ErrInsufficientBalance):
		return commons.ErrorResponse[models.TransactionResponse](operation+" rejected", err.Error()), err
	default:
		logger.Error("ledger service posting failed", err, logger.Fields{"operation": operation})
		return commons.ErrorResponse[models.TransactionResponse]("failed to process "+operation, "Unable to process "+operation+" right now"), err
	}
}

func (s *LedgerService) History(ctx context.Context, accountID int64) (commons.Response[[]models.TransactionResponse], error) {
	exists, err := s.accountRepo.ExistsByID(ctx, accountID)
	if err != nil {
		return commons.ErrorResponse[[]models.TransactionResponse]("failed to fetch history", "Unable to fetch history right now"), err
	}
	if !exists {
		err := commons.ErrRecordNotFound
		return commons.ErrorResponse[[]models.TransactionResponse]("Account not found"), err
	}

	transactions, err := s.transactionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return commons.ErrorResponse[[]models.TransactionResponse]("failed to fetch history", "Unable to fetch history right now"), err
	}

	return commons.SuccessResponse("history fetched successfully", mapTransactionsToResponses(transactions)), nil
}

func (s *LedgerService) ByPeriod(ctx context.Context, start, end time.Time) (commons.Response[[]models.TransactionResponse], error) {
	if start.After(end) {
		err := domain.ErrInvalidRange
		return commons.ErrorResponse[[]models.TransactionResponse]("validation failed", err.Error()), err
	}

	transactions, err := s.transactionRepo.ListByPeriod(ctx, start, end)
	if err != nil {
		return commons.ErrorResponse[[]models.TransactionResponse]("failed to fetch transactions", "Unable to fetch transactions right now"), err
	}

	return commons.SuccessResponse("transactions fetched successfully", mapTransactionsToResponses(transactions)), nil
}

func (s *LedgerService) ListTransactions(ctx context.Context) (commons.Response[[]models.TransactionResponse], error) {
	transactions, err := s.transactionRepo.List(ctx)
	if err != nil {
		return commons.ErrorResponse[[]models.TransactionResponse]("failed to list transactions", "Unable to list transactions right now"), err
	}

	return commons.SuccessResponse("transactions fetched successfully", mapTransactionsToResponses(transactions)), nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id int64) (commons.Response[models.TransactionResponse], error) {
	txn, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("Transaction not found"), err
		}
		return commons.ErrorResponse[models.TransactionResponse]("failed to get transaction", "Unable to fetch transaction right now"), err
	}

	return commons.SuccessResponse("transaction fetched successfully", mapTransactionToResponse(txn)), nil
}

func (s *LedgerService) GetTransactionByReference(ctx context.Context, reference string) (commons.Response[models.TransactionResponse], error) {
	txn, err := s.transactionRepo.GetByReference(ctx, strings.TrimSpace(reference))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("Transaction not found"), err
		}
		return commons.ErrorResponse[models.TransactionResponse]("failed to get transaction", "Unable to fetch transaction right now"), err
	}

	return commons.SuccessResponse("transaction fetched successfully", mapTransactionToResponse(txn)), nil
}

func (s *LedgerService) CountTransactions(ctx context.Context, accountID int64) (commons.Response[models.TransactionCountResponse], error) {
	count, err := s.transactionRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return commons.ErrorResponse[models.TransactionCountResponse]("failed to count transactions", "Unable to count transactions right now"), err
	}

	response := models.TransactionCountResponse{AccountID: accountID, Count: count}
	return commons.SuccessResponse("transactions counted successfully", response), nil
}

func (s *LedgerService) TotalByType(ctx context.Context, accountID int64, txType domain.TransactionType) (commons.Response[models.TransactionTotalResponse], error) {
	total, err := s.transactionRepo.SumByAccountAndType(ctx, accountID, txType)
	if err != nil {
		return commons.ErrorResponse[models.TransactionTotalResponse]("failed to total transactions", "Unable to total transactions right now"), err
	}

	response := models.TransactionTotalResponse{
		AccountID:       accountID,
		TransactionType: string(txType),
		Total:           total.StringFixed(2),
	}
	return commons.SuccessResponse("transactions totalled successfully", response), nil
}

func descriptionOrDefault(description, fallback string) string {
	if trimmed := strings.TrimSpace(description); trimmed != "" {
		return trimmed
	}
	return fallback
}

func generateTransactionReference() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "TXN-" + token[:8]
}

func mapTransactionToResponse(txn domain.Transaction) models.TransactionResponse {
	return models.TransactionResponse{
		ID:                   txn.ID,
		Reference:            txn.Reference,
		TransactionType:      string(txn.Type),
		Amount:               txn.Amount.StringFixed(2),
		Description:          txn.Description,
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		Timestamp:            txn.Timestamp.Format(time.RFC3339),
	}
}

func mapTransactionsToResponses(transactions []domain.Transaction) []models.TransactionResponse {
	responses := make([]models.TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		responses = append(responses, mapTransactionToResponse(txn))
	}
	return responses
}
