package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ega-bank/core-banking/src/internal/adapter/http/models"
	"github.com/ega-bank/core-banking/src/internal/commons"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, id int64) (commons.Response[models.AccountResponse], error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (commons.Response[models.AccountResponse], error)
	ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error)
	GetBalance(ctx context.Context, id int64) (commons.Response[models.BalanceResponse], error)
	DeleteAccount(ctx context.Context, id int64) (commons.Response[models.AccountResponse], error)
	CountAccounts(ctx context.Context) (commons.Response[models.AccountCountResponse], error)
}

type InterestService interface {
	AccrueInterest(ctx context.Context) (commons.Response[models.InterestAccrualResponse], error)
}

type AccountController struct {
	service  AccountService
	interest InterestService
}

func NewAccountController(service AccountService, interest InterestService) *AccountController {
	return &AccountController{service: service, interest: interest}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("POST /accounts", guarded(c.createAccount, authMiddleware))
	mux.Handle("GET /accounts", guarded(c.listAccounts, authMiddleware))
	mux.Handle("GET /accounts/count", guarded(c.countAccounts, authMiddleware))
	mux.Handle("GET /accounts/number/{accountNumber}", guarded(c.getAccountByNumber, authMiddleware))
	mux.Handle("GET /accounts/{id}", guarded(c.getAccount, authMiddleware))
	mux.Handle("GET /accounts/{id}/balance", guarded(c.getBalance, authMiddleware))
	mux.Handle("DELETE /accounts/{id}", guarded(c.deleteAccount, authMiddleware))
	mux.Handle("POST /accounts/interest-accruals", guarded(c.accrueInterest, authMiddleware))
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateAccount(r.Context(), req)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

func (c *AccountController) listAccounts(w http.ResponseWriter, r *http.Request) {
	response, err := c.service.ListAccounts(r.Context())
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *AccountController) getAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("invalid account id"))
		return
	}

	response, err := c.service.GetAccount(r.Context(), id)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *AccountController) getAccountByNumber(w http.ResponseWriter, r *http.Request) {
	response, err := c.service.GetAccountByNumber(r.Context(), r.PathValue("accountNumber"))
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *AccountController) getBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.BalanceResponse]("invalid account id"))
		return
	}

	response, err := c.service.GetBalance(r.Context(), id)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *AccountController) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("invalid account id"))
		return
	}

	response, err := c.service.DeleteAccount(r.Context(), id)
	if err != nil {
		logError(r, err, nil)
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *AccountController) countAccounts(w http.ResponseWriter, r *http.Request) {
	response, err := c.service.CountAccounts(r.Context())
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *AccountController) accrueInterest(w http.ResponseWriter, r *http.Request) {
	logRequest(r, nil)

	response, err := c.interest.AccrueInterest(r.Context())
	if err != nil {
		logError(r, err, nil)
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}
