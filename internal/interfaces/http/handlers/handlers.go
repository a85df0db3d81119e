package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/manorfm/casting-agency/internal/domain"
	"github.com/manorfm/casting-agency/internal/interfaces/http/errors"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate reads a JSON body into req and validates it. It writes
// the error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}, logger *zap.Logger) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(req); err != nil {
		logger.Debug("Invalid request body", zap.Error(err))
		errors.RespondWithError(w, fmt.Errorf("%w: %v", domain.ErrBadRequest, err))
		return false
	}

	if err := validate.Struct(req); err != nil {
		details := errors.FromValidator(err)
		logger.Debug("Request validation failed", zap.Any("details", details))
		errors.RespondErrorWithDetails(w, domain.ErrUnprocessable, details.ToErrorDetails())
		return false
	}
	return true
}

// pageParam reads the 1-based page query parameter, defaulting to 1
func pageParam(r *http.Request) (int, error) {
	value := r.URL.Query().Get("page")
	if value == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(value)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidPage, value)
	}
	return page, nil
}

func respondJSON(w http.ResponseWriter, status int, body interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// respondError logs unexpected failures before answering
func respondError(w http.ResponseWriter, err error, msg string, logger *zap.Logger) {
	logger.Debug(msg, zap.Error(err))
	errors.RespondWithError(w, err)
}
