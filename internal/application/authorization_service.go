package application

import (
	"context"

	"github.com/manorfm/casting-agency/internal/domain"
	"github.com/manorfm/casting-agency/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// OutcomeGranted is the authorization outcome recorded for an allowed request
const OutcomeGranted = "granted"

// AuthorizationService guards protected operations: it extracts the bearer
// token, validates it and checks the required permission, in that order.
type AuthorizationService struct {
	validator domain.TokenValidator
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

var _ domain.Authorizer = (*AuthorizationService)(nil)

func NewAuthorizationService(validator domain.TokenValidator, m *metrics.Metrics, logger *zap.Logger) *AuthorizationService {
	return &AuthorizationService{
		validator: validator,
		metrics:   m,
		logger:    logger,
	}
}

// Authorize returns the decoded claims when the header carries a valid token
// granting permission. Every failure is a *domain.AuthError.
func (s *AuthorizationService) Authorize(ctx context.Context, authorizationHeader, permission string) (domain.Claims, error) {
	token, err := domain.ExtractBearerToken(authorizationHeader)
	if err != nil {
		return domain.Claims{}, s.reject(permission, err)
	}

	claims, err := s.validator.Validate(ctx, token)
	if err != nil {
		return domain.Claims{}, s.reject(permission, err)
	}

	if err := domain.CheckPermission(claims, permission); err != nil {
		s.logger.Info("Permission denied",
			zap.String("sub", claims.Subject),
			zap.String("permission", permission))
		return domain.Claims{}, s.reject(permission, err)
	}

	s.metrics.RecordAuthorization(OutcomeGranted)
	return claims, nil
}

func (s *AuthorizationService) reject(permission string, err error) error {
	authErr, ok := domain.AsAuthError(err)
	if !ok {
		s.logger.Error("Unexpected token validation failure", zap.Error(err))
		err, authErr = domain.ErrTokenUnparsable, domain.ErrTokenUnparsable
	}

	s.metrics.RecordAuthorization(string(authErr.Kind))
	s.logger.Debug("Request not authorized",
		zap.String("permission", permission),
		zap.String("code", authErr.Code),
		zap.Error(err))
	return err
}

// Require runs op with the decoded claims once authorizer grants permission
// for the header. op is never invoked when authorization fails, and its
// result is returned as is.
func Require[T any](ctx context.Context, authorizer domain.Authorizer, authorizationHeader, permission string, op func(context.Context, domain.Claims) (T, error)) (T, error) {
	claims, err := authorizer.Authorize(ctx, authorizationHeader, permission)
	if err != nil {
		var zero T
		return zero, err
	}
	return op(domain.WithClaims(ctx, claims), claims)
}
