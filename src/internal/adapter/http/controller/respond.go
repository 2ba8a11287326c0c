package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ega-bank/core-banking/src/internal/commons"
	"github.com/ega-bank/core-banking/src/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusForError translates the domain failure taxonomy to transport status
// codes; anything unrecognized is an infrastructure failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, commons.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateResource),
		errors.Is(err, domain.ErrBusinessRuleViolation):
		return http.StatusConflict
	case errors.Is(err, domain.ErrWithdrawalCapExceeded),
		errors.Is(err, domain.ErrOverdraftExceeded),
		errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func guarded(handler http.HandlerFunc, authMiddleware func(http.Handler) http.Handler) http.Handler {
	if authMiddleware == nil {
		return handler
	}
	return authMiddleware(handler)
}
