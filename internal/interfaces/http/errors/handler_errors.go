package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/manorfm/casting-agency/internal/domain"
)

func getStatus(err error) (int, string) {
	if authErr, ok := domain.AsAuthError(err); ok {
		return authErr.StatusCode(), authErr.Description
	}

	switch {
	case errors.Is(err, domain.ErrActorNotFound),
		errors.Is(err, domain.ErrMovieNotFound),
		errors.Is(err, domain.ErrPageNotFound):
		return http.StatusNotFound, MessageNotFound
	case errors.Is(err, domain.ErrUnprocessable),
		errors.Is(err, domain.ErrInvalidPage):
		return http.StatusUnprocessableEntity, MessageUnprocessable
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, MessageBadRequest
	}

	return http.StatusInternalServerError, MessageInternal
}

// RespondWithError sends a standardized error response. Authorization
// failures answer 401 with their description.
func RespondWithError(w http.ResponseWriter, err error) {
	status, message := getStatus(err)
	RespondWithStatus(w, status, message)
}

// RespondErrorWithDetails sends a standardized error response with details
func RespondErrorWithDetails(w http.ResponseWriter, err error, details []ErrorDetail) {
	status, message := getStatus(err)
	write(w, status, ErrorResponse{
		Success: false,
		Error:   status,
		Message: message,
		Details: details,
	})
}

// RespondWithStatus sends an error response with an explicit status and message
func RespondWithStatus(w http.ResponseWriter, status int, message string) {
	write(w, status, ErrorResponse{
		Success: false,
		Error:   status,
		Message: message,
	})
}

func write(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
