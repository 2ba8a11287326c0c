package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ega-bank/core-banking/src/internal/adapter/http/models"
	"github.com/ega-bank/core-banking/src/internal/adapter/repository/repo_interfaces"
	"github.com/ega-bank/core-banking/src/internal/commons"
	"github.com/ega-bank/core-banking/src/internal/domain"
	"github.com/ega-bank/core-banking/src/internal/logger"
)

type ClientService struct {
	clientRepo  repo_interfaces.ClientRepository
	accountRepo repo_interfaces.AccountRepository
}

func NewClientService(clientRepo repo_interfaces.ClientRepository, accountRepo repo_interfaces.AccountRepository) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		accountRepo: accountRepo,
	}
}

func (s *ClientService) CreateClient(ctx context.Context, req models.ClientRequest) (commons.Response[models.ClientResponse], error) {
	logger.Info("client service create client request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("client service create client validation failed", err, nil)
		return commons.ErrorResponse[models.ClientResponse]("validation failed", err.Error()), err
	}

	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)

	// Fast-path uniqueness checks; the unique constraints on the clients
	// table remain the authority under concurrent inserts.
	exists, err := s.clientRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return commons.ErrorResponse[models.ClientResponse]("failed to create client", "Unable to create client right now"), err
	}
	if exists {
		err := domain.ErrDuplicateResource
		return commons.ErrorResponse[models.ClientResponse]("Email is already registered"), err
	}

	exists, err = s.clientRepo.ExistsByPhone(ctx, phone)
	if err != nil {
		return commons.ErrorResponse[models.ClientResponse]("failed to create client", "Unable to create client right now"), err
	}
	if exists {
		err := domain.ErrDuplicateResource
		return commons.ErrorResponse[models.ClientResponse]("Phone is already registered"), err
	}

	created, err := s.clientRepo.Create(ctx, clientFromRequest(req))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateResource) {
			return commons.ErrorResponse[models.ClientResponse]("Email or phone is already registered"), err
		}
		logger.Error("client service create client repository failed", err, nil)
		return commons.ErrorResponse[models.ClientResponse]("failed to create client", "Unable to create client right now"), err
	}

	logger.Info("client service create client success", logger.Fields{
		"clientId": created.ID,
	})
	return commons.SuccessResponse("client created successfully", mapClientToResponse(created)), nil
}

func (s *ClientService) GetClient(ctx context.Context, id int64) (commons.Response[models.ClientResponse], error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ClientResponse]("Client not found"), err
		}
		return commons.ErrorResponse[models.ClientResponse]("failed to get client", "Unable to fetch client right now"), err
	}

	return commons.SuccessResponse("client fetched successfully", mapClientToResponse(client)), nil
}

func (s *ClientService) GetClientWithAccounts(ctx context.Context, id int64) (commons.Response[models.ClientWithAccountsResponse], error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ClientWithAccountsResponse]("Client not found"), err
		}
		return commons.ErrorResponse[models.ClientWithAccountsResponse]("failed to get client", "Unable to fetch client right now"), err
	}

	accounts, err := s.accountRepo.ListByClient(ctx, id)
	if err != nil {
		return commons.ErrorResponse[models.ClientWithAccountsResponse]("failed to get client accounts", "Unable to fetch client right now"), err
	}

	response := models.ClientWithAccountsResponse{
		Client:   mapClientToResponse(client),
		Accounts: mapAccountsToResponses(accounts),
	}
	return commons.SuccessResponse("client fetched successfully", response), nil
}

func (s *ClientService) ListClients(ctx context.Context) (commons.Response[[]models.ClientResponse], error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return commons.ErrorResponse[[]models.ClientResponse]("failed to list clients", "Unable to list clients right now"), err
	}

	return commons.SuccessResponse("clients fetched successfully", mapClientsToResponses(clients)), nil
}

// UpdateClient replaces every mutable field; partial updates are not
// supported. Email and phone uniqueness is re-checked only when the value
// actually changes.
func (s *ClientService) UpdateClient(ctx context.Context, id int64, req models.ClientRequest) (commons.Response[models.ClientResponse], error) {
	logger.Info("client service update client request", logger.Fields{
		"clientId": id,
		"payload":  logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("client service update client validation failed", err, nil)
		return commons.ErrorResponse[models.ClientResponse]("validation failed", err.Error()), err
	}

	current, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ClientResponse]("Client not found"), err
		}
		return commons.ErrorResponse[models.ClientResponse]("failed to update client", "Unable to update client right now"), err
	}

	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)

	if email != current.Email {
		exists, err := s.clientRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return commons.ErrorResponse[models.ClientResponse]("failed to update client", "Unable to update client right now"), err
		}
		if exists {
			err := domain.ErrDuplicateResource
			return commons.ErrorResponse[models.ClientResponse]("Email is already registered"), err
		}
	}

	if phone != current.Phone {
		exists, err := s.clientRepo.ExistsByPhone(ctx, phone)
		if err != nil {
			return commons.ErrorResponse[models.ClientResponse]("failed to update client", "Unable to update client right now"), err
		}
		if exists {
			err := domain.ErrDuplicateResource
			return commons.ErrorResponse[models.ClientResponse]("Phone is already registered"), err
		}
	}

	replacement := clientFromRequest(req)
	replacement.ID = id

	updated, err := s.clientRepo.Update(ctx, replacement)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ClientResponse]("Client not found"), err
		}
		if errors.Is(err, domain.ErrDuplicateResource) {
			return commons.ErrorResponse[models.ClientResponse]("Email or phone is already registered"), err
		}
		logger.Error("client service update client repository failed", err, logger.Fields{"clientId": id})
		return commons.ErrorResponse[models.ClientResponse]("failed to update client", "Unable to update client right now"), err
	}

	logger.Info("client service update client success", logger.Fields{"clientId": id})
	return commons.SuccessResponse("client updated successfully", mapClientToResponse(updated)), nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id int64) (commons.Response[models.ClientResponse], error) {
	logger.Info("client service delete client request", logger.Fields{"clientId": id})

	exists, err := s.clientRepo.ExistsByID(ctx, id)
	if err != nil {
		return commons.ErrorResponse[models.ClientResponse]("failed to delete client", "Unable to delete client right now"), err
	}
	if !exists {
		err := commons.ErrRecordNotFound
		return commons.ErrorResponse[models.ClientResponse]("Client not found"), err
	}

	owned, err := s.accountRepo.CountByClient(ctx, id)
	if err != nil {
		return commons.ErrorResponse[models.ClientResponse]("failed to delete client", "Unable to delete client right now"), err
	}
	if owned > 0 {
		err := domain.ErrBusinessRuleViolation
		logger.Error("client service delete client blocked", err, logger.Fields{
			"clientId":      id,
			"ownedAccounts": owned,
		})
		return commons.ErrorResponse[models.ClientResponse]("Client still owns accounts", "Close all accounts before deleting the client"), err
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ClientResponse]("Client not found"), err
		}
		if errors.Is(err, domain.ErrBusinessRuleViolation) {
			logger.Error("client service delete client blocked", err, logger.Fields{"clientId": id})
			return commons.ErrorResponse[models.ClientResponse]("Client still owns accounts", "Close all accounts before deleting the client"), err
		}
		return commons.ErrorResponse[models.ClientResponse]("failed to delete client", "Unable to delete client right now"), err
	}

	logger.Info("client service delete client success", logger.Fields{"clientId": id})
	return commons.SuccessResponse("client deleted successfully", models.ClientResponse{ID: id}), nil
}

func (s *ClientService) GetClientByEmail(ctx context.Context, email string) (commons.Response[models.ClientResponse], error) {
	client, err := s.clientRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ClientResponse]("Client not found"), err
		}
		return commons.ErrorResponse[models.ClientResponse]("failed to get client", "Unable to fetch client right now"), err
	}

	return commons.SuccessResponse("client fetched successfully", mapClientToResponse(client)), nil
}

func (s *ClientService) GetClientByPhone(ctx context.Context, phone string) (commons.Response[models.ClientResponse], error) {
	client, err := s.clientRepo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ClientResponse]("Client not found"), err
		}
		return commons.ErrorResponse[models.ClientResponse]("failed to get client", "Unable to fetch client right now"), err
	}

	return commons.SuccessResponse("client fetched successfully", mapClientToResponse(client)), nil
}

func (s *ClientService) ListClientsByNationality(ctx context.Context, nationality string) (commons.Response[[]models.ClientResponse], error) {
	clients, err := s.clientRepo.ListByNationality(ctx, strings.TrimSpace(nationality))
	if err != nil {
		return commons.ErrorResponse[[]models.ClientResponse]("failed to search clients", "Unable to search clients right now"), err
	}

	return commons.SuccessResponse("clients fetched successfully", mapClientsToResponses(clients)), nil
}

func (s *ClientService) SearchClientsByName(ctx context.Context, term string) (commons.Response[[]models.ClientResponse], error) {
	clients, err := s.clientRepo.SearchByName(ctx, strings.TrimSpace(term))
	if err != nil {
		return commons.ErrorResponse[[]models.ClientResponse]("failed to search clients", "Unable to search clients right now"), err
	}

	return commons.SuccessResponse("clients fetched successfully", mapClientsToResponses(clients)), nil
}

func (s *ClientService) CountClients(ctx context.Context) (commons.Response[models.ClientCountResponse], error) {
	count, err := s.clientRepo.Count(ctx)
	if err != nil {
		return commons.ErrorResponse[models.ClientCountResponse]("failed to count clients", "Unable to count clients right now"), err
	}

	return commons.SuccessResponse("clients counted successfully", models.ClientCountResponse{Count: count}), nil
}

func clientFromRequest(req models.ClientRequest) domain.Client {
	return domain.Client{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		BirthDate:   req.BirthDateValue(),
		Gender:      strings.TrimSpace(req.Gender),
		Address:     strings.TrimSpace(req.Address),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		Nationality: strings.TrimSpace(req.Nationality),
	}
}

func mapClientToResponse(client domain.Client) models.ClientResponse {
	return models.ClientResponse{
		ID:          client.ID,
		FirstName:   client.FirstName,
		LastName:    client.LastName,
		BirthDate:   client.BirthDate.Format("2006-01-02"),
		Gender:      client.Gender,
		Address:     client.Address,
		Phone:       client.Phone,
		Email:       client.Email,
		Nationality: client.Nationality,
		CreatedAt:   client.CreatedAt.Format(time.RFC3339),
	}
}

func mapClientsToResponses(clients []domain.Client) []models.ClientResponse {
	responses := make([]models.ClientResponse, 0, len(clients))
	for _, client := range clients {
		responses = append(responses, mapClientToResponse(client))
	}
	return responses
}
