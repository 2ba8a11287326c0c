package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ega-bank/core-banking/src/internal/adapter/http/models"
	"github.com/ega-bank/core-banking/src/internal/commons"
)

type ClientService interface {
	CreateClient(ctx context.Context, req models.ClientRequest) (commons.Response[models.ClientResponse], error)
	GetClient(ctx context.Context, id int64) (commons.Response[models.ClientResponse], error)
	GetClientWithAccounts(ctx context.Context, id int64) (commons.Response[models.ClientWithAccountsResponse], error)
	ListClients(ctx context.Context) (commons.Response[[]models.ClientResponse], error)
	UpdateClient(ctx context.Context, id int64, req models.ClientRequest) (commons.Response[models.ClientResponse], error)
	DeleteClient(ctx context.Context, id int64) (commons.Response[models.ClientResponse], error)
	GetClientByEmail(ctx context.Context, email string) (commons.Response[models.ClientResponse], error)
	GetClientByPhone(ctx context.Context, phone string) (commons.Response[models.ClientResponse], error)
	ListClientsByNationality(ctx context.Context, nationality string) (commons.Response[[]models.ClientResponse], error)
	SearchClientsByName(ctx context.Context, term string) (commons.Response[[]models.ClientResponse], error)
	CountClients(ctx context.Context) (commons.Response[models.ClientCountResponse], error)
}

type ClientController struct {
	service ClientService
}

func NewClientController(service ClientService) *ClientController {
	return &ClientController{service: service}
}

func (c *ClientController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("POST /clients", guarded(c.createClient, authMiddleware))
	mux.Handle("GET /clients", guarded(c.listClients, authMiddleware))
	mux.Handle("GET /clients/search", guarded(c.searchClients, authMiddleware))
	mux.Handle("GET /clients/count", guarded(c.countClients, authMiddleware))
	mux.Handle("GET /clients/{id}", guarded(c.getClient, authMiddleware))
	mux.Handle("PUT /clients/{id}", guarded(c.updateClient, authMiddleware))
	mux.Handle("DELETE /clients/{id}", guarded(c.deleteClient, authMiddleware))
	mux.Handle("GET /clients/{id}/accounts", guarded(c.getClientWithAccounts, authMiddleware))
}

func (c *ClientController) createClient(w http.ResponseWriter, r *http.Request) {
	var req models.ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.ClientResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.ClientResponse]("validation failed", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateClient(r.Context(), req)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

func (c *ClientController) listClients(w http.ResponseWriter, r *http.Request) {
	response, err := c.service.ListClients(r.Context())
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *ClientController) getClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.ClientResponse]("invalid client id"))
		return
	}

	response, err := c.service.GetClient(r.Context(), id)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *ClientController) getClientWithAccounts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.ClientWithAccountsResponse]("invalid client id"))
		return
	}

	response, err := c.service.GetClientWithAccounts(r.Context(), id)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *ClientController) updateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.ClientResponse]("invalid client id"))
		return
	}

	var req models.ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.ClientResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.ClientResponse]("validation failed", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.UpdateClient(r.Context(), id, req)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *ClientController) deleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.ClientResponse]("invalid client id"))
		return
	}

	response, err := c.service.DeleteClient(r.Context(), id)
	if err != nil {
		logError(r, err, nil)
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *ClientController) searchClients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	switch {
	case strings.TrimSpace(query.Get("email")) != "":
		response, err := c.service.GetClientByEmail(r.Context(), query.Get("email"))
		if err != nil {
			writeJSON(w, statusForError(err), response)
			return
		}
		writeJSON(w, http.StatusOK, response)
	case strings.TrimSpace(query.Get("phone")) != "":
		response, err := c.service.GetClientByPhone(r.Context(), query.Get("phone"))
		if err != nil {
			writeJSON(w, statusForError(err), response)
			return
		}
		writeJSON(w, http.StatusOK, response)
	case strings.TrimSpace(query.Get("nationality")) != "":
		response, err := c.service.ListClientsByNationality(r.Context(), query.Get("nationality"))
		if err != nil {
			writeJSON(w, statusForError(err), response)
			return
		}
		writeJSON(w, http.StatusOK, response)
	case strings.TrimSpace(query.Get("name")) != "":
		response, err := c.service.SearchClientsByName(r.Context(), query.Get("name"))
		if err != nil {
			writeJSON(w, statusForError(err), response)
			return
		}
		writeJSON(w, http.StatusOK, response)
	default:
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[[]models.ClientResponse]("validation failed", "one of email, phone, nationality or name is required"))
	}
}

func (c *ClientController) countClients(w http.ResponseWriter, r *http.Request) {
	response, err := c.service.CountClients(r.Context())
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}
