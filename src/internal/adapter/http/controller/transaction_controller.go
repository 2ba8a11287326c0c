package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ega-bank/core-banking/src/internal/adapter/http/models"
	"github.com/ega-bank/core-banking/src/internal/commons"
	"github.com/ega-bank/core-banking/src/internal/domain"
)

type LedgerService interface {
	Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.TransactionResponse], error)
	Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error)
	Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransactionResponse], error)
	History(ctx context.Context, accountID int64) (commons.Response[[]models.TransactionResponse], error)
	ByPeriod(ctx context.Context, start, end time.Time) (commons.Response[[]models.TransactionResponse], error)
	ListTransactions(ctx context.Context) (commons.Response[[]models.TransactionResponse], error)
	GetTransaction(ctx context.Context, id int64) (commons.Response[models.TransactionResponse], error)
	GetTransactionByReference(ctx context.Context, reference string) (commons.Response[models.TransactionResponse], error)
	CountTransactions(ctx context.Context, accountID int64) (commons.Response[models.TransactionCountResponse], error)
	TotalByType(ctx context.Context, accountID int64, txType domain.TransactionType) (commons.Response[models.TransactionTotalResponse], error)
}

type TransactionController struct {
	service LedgerService
}

func NewTransactionController(service LedgerService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("POST /transactions/deposits", guarded(c.deposit, authMiddleware))
	mux.Handle("POST /transactions/withdrawals", guarded(c.withdraw, authMiddleware))
	mux.Handle("POST /transactions/transfers", guarded(c.transfer, authMiddleware))
	mux.Handle("GET /transactions", guarded(c.listTransactions, authMiddleware))
	mux.Handle("GET /transactions/reference/{reference}", guarded(c.getByReference, authMiddleware))
	mux.Handle("GET /transactions/{id}", guarded(c.getTransaction, authMiddleware))
	mux.Handle("GET /accounts/{id}/transactions", guarded(c.history, authMiddleware))
	mux.Handle("GET /accounts/{id}/transactions/count", guarded(c.countTransactions, authMiddleware))
	mux.Handle("GET /accounts/{id}/transactions/total", guarded(c.totalByType, authMiddleware))
}

func (c *TransactionController) deposit(w http.ResponseWriter, r *http.Request) {
	var req models.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.Deposit(r.Context(), req)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

func (c *TransactionController) withdraw(w http.ResponseWriter, r *http.Request) {
	var req models.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.Withdraw(r.Context(), req)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

func (c *TransactionController) transfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.Transfer(r.Context(), req)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// listTransactions serves both the full listing and the period query; start
// and end are inclusive RFC 3339 bounds.
func (c *TransactionController) listTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	startRaw := strings.TrimSpace(query.Get("start"))
	endRaw := strings.TrimSpace(query.Get("end"))

	if startRaw == "" && endRaw == "" {
		response, err := c.service.ListTransactions(r.Context())
		if err != nil {
			writeJSON(w, statusForError(err), response)
			return
		}
		writeJSON(w, http.StatusOK, response)
		return
	}

	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[[]models.TransactionResponse]("validation failed", "start must be an RFC 3339 timestamp"))
		return
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[[]models.TransactionResponse]("validation failed", "end must be an RFC 3339 timestamp"))
		return
	}

	response, err := c.service.ByPeriod(r.Context(), start, end)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *TransactionController) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("invalid transaction id"))
		return
	}

	response, err := c.service.GetTransaction(r.Context(), id)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *TransactionController) getByReference(w http.ResponseWriter, r *http.Request) {
	response, err := c.service.GetTransactionByReference(r.Context(), r.PathValue("reference"))
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *TransactionController) history(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[[]models.TransactionResponse]("invalid account id"))
		return
	}

	response, err := c.service.History(r.Context(), id)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *TransactionController) countTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionCountResponse]("invalid account id"))
		return
	}

	response, err := c.service.CountTransactions(r.Context(), id)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *TransactionController) totalByType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionTotalResponse]("invalid account id"))
		return
	}

	txType := domain.TransactionType(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("type"))))
	switch txType {
	case domain.TransactionTypeDeposit, domain.TransactionTypeWithdrawal, domain.TransactionTypeTransfer:
	default:
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionTotalResponse]("validation failed", "type must be DEPOSIT, WITHDRAWAL or TRANSFER"))
		return
	}

	response, err := c.service.TotalByType(r.Context(), id, txType)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}
