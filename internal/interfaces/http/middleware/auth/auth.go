package auth

import (
	"context"
	"net/http"

	"github.com/manorfm/casting-agency/internal/application"
	"github.com/manorfm/casting-agency/internal/domain"
	httperrors "github.com/manorfm/casting-agency/internal/interfaces/http/errors"
	"go.uber.org/zap"
)

// ClaimsHandlerFunc is a handler that receives the decoded claims of an
// authorized request as its first argument.
type ClaimsHandlerFunc func(claims domain.Claims, w http.ResponseWriter, r *http.Request)

type AuthMiddleware struct {
	authorizer domain.Authorizer
	logger     *zap.Logger
}

func NewAuthMiddleware(authorizer domain.Authorizer, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{authorizer: authorizer, logger: logger}
}

// RequiresAuth guards next behind permission. Unauthorized requests get a 401
// and next is not called; authorized ones carry the claims in their context.
func (m *AuthMiddleware) RequiresAuth(permission string, next ClaimsHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := application.Require(r.Context(), m.authorizer, r.Header.Get("Authorization"), permission,
			func(ctx context.Context, claims domain.Claims) (struct{}, error) {
				next(claims, w, r.WithContext(ctx))
				return struct{}{}, nil
			})
		if err != nil {
			m.logger.Debug("Rejected request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("permission", permission),
				zap.Error(err))
			httperrors.RespondWithError(w, err)
		}
	}
}

// Require adapts a plain http.Handler; the claims are available through
// domain.GetClaims on the request context.
func (m *AuthMiddleware) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.RequiresAuth(permission, func(_ domain.Claims, w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
		})
	}
}
