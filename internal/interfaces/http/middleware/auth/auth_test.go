package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/manorfm/casting-agency/internal/application"
	"github.com/manorfm/casting-agency/internal/domain"
	jwtvalidator "github.com/manorfm/casting-agency/internal/infrastructure/jwt"
	"github.com/manorfm/casting-agency/internal/infrastructure/jwks"
	"github.com/manorfm/casting-agency/internal/infrastructure/jwks/jwkstest"
	httperrors "github.com/manorfm/casting-agency/internal/interfaces/http/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) Authorize(ctx context.Context, header, permission string) (domain.Claims, error) {
	args := m.Called(ctx, header, permission)
	return args.Get(0).(domain.Claims), args.Error(1)
}

func TestAuthMiddleware_RequiresAuth(t *testing.T) {
	granted := domain.Claims{Permissions: []string{domain.PermissionGetActors}}
	granted.Subject = "auth0|assistant"

	tests := []struct {
		name            string
		header          string
		mockSetup       func(*MockAuthorizer)
		expectedStatus  int
		expectedMessage string
		expectCalled    bool
	}{
		{
			name:   "missing header",
			header: "",
			mockSetup: func(m *MockAuthorizer) {
				m.On("Authorize", mock.Anything, "", domain.PermissionGetActors).Return(domain.Claims{}, domain.ErrAuthHeaderMissing)
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Authorization header is expected.",
		},
		{
			name:   "permission denied",
			header: "Bearer token",
			mockSetup: func(m *MockAuthorizer) {
				m.On("Authorize", mock.Anything, "Bearer token", domain.PermissionGetActors).Return(domain.Claims{}, domain.ErrPermissionNotFound)
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Permission not found.",
		},
		{
			name:   "expired",
			header: "Bearer token",
			mockSetup: func(m *MockAuthorizer) {
				m.On("Authorize", mock.Anything, "Bearer token", domain.PermissionGetActors).Return(domain.Claims{}, domain.ErrTokenExpired)
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Token expired.",
		},
		{
			name:   "granted",
			header: "Bearer token",
			mockSetup: func(m *MockAuthorizer) {
				m.On("Authorize", mock.Anything, "Bearer token", domain.PermissionGetActors).Return(granted, nil)
			},
			expectedStatus: http.StatusOK,
			expectCalled:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authorizer := new(MockAuthorizer)
			tt.mockSetup(authorizer)
			middleware := NewAuthMiddleware(authorizer, zap.NewNop())

			called := 0
			handler := middleware.RequiresAuth(domain.PermissionGetActors, func(claims domain.Claims, w http.ResponseWriter, r *http.Request) {
				called++
				assert.Equal(t, "auth0|assistant", claims.Subject)
				fromCtx, ok := domain.GetClaims(r.Context())
				assert.True(t, ok)
				assert.Equal(t, claims, fromCtx)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/actors", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectCalled {
				assert.Equal(t, 1, called)
			} else {
				assert.Zero(t, called)
				var body httperrors.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.False(t, body.Success)
				assert.Equal(t, 401, body.Error)
				assert.Equal(t, tt.expectedMessage, body.Message)
			}
			authorizer.AssertExpectations(t)
		})
	}
}

func TestAuthMiddleware_Require(t *testing.T) {
	authorizer := new(MockAuthorizer)
	claims := domain.Claims{Permissions: []string{domain.PermissionGetMovies}}
	claims.Subject = "auth0|director"
	authorizer.On("Authorize", mock.Anything, "Bearer token", domain.PermissionGetMovies).Return(claims, nil)
	middleware := NewAuthMiddleware(authorizer, zap.NewNop())

	r := chi.NewRouter()
	r.With(middleware.Require(domain.PermissionGetMovies)).Get("/movies", func(w http.ResponseWriter, r *http.Request) {
		sub, ok := domain.GetSubject(r.Context())
		assert.True(t, ok)
		w.Write([]byte(sub))
	})

	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "auth0|director", w.Body.String())
}

func TestAuthMiddleware_SignedTokens(t *testing.T) {
	p := jwkstest.NewProvider(t)
	cache := jwks.New(jwks.Config{URL: p.URL(), FetchTimeout: 2 * time.Second}, nil, zap.NewNop())
	validator, err := jwtvalidator.NewValidator(cache, jwtvalidator.Config{
		Audience:   jwkstest.Audience,
		Issuer:     jwkstest.Issuer,
		Algorithms: []string{"RS256"},
	}, zap.NewNop())
	require.NoError(t, err)
	middleware := NewAuthMiddleware(application.NewAuthorizationService(validator, nil, zap.NewNop()), zap.NewNop())

	handler := middleware.RequiresAuth(domain.PermissionDeleteActors, func(claims domain.Claims, w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	director := p.Sign(t, jwkstest.DefaultKeyID, jwkstest.Claims("director", []string{domain.PermissionDeleteActors}, time.Hour))
	assistant := p.Sign(t, jwkstest.DefaultKeyID, jwkstest.Claims("assistant", []string{domain.PermissionGetActors}, time.Hour))
	wrongAudience := jwkstest.Claims("director", []string{domain.PermissionDeleteActors}, time.Hour)
	wrongAudience["aud"] = "someone-else"

	tests := []struct {
		name            string
		header          string
		expectedStatus  int
		expectedMessage string
	}{
		{"granted", "Bearer " + director, http.StatusOK, ""},
		{"lacks permission", "Bearer " + assistant, http.StatusUnauthorized, "Permission not found."},
		{"lowercase scheme", "bearer " + director, http.StatusUnauthorized, `Authorization header must start with "Bearer".`},
		{"token only", director, http.StatusUnauthorized, `Authorization header must start with "Bearer".`},
		{"scheme only", "Bearer", http.StatusUnauthorized, "Token not found."},
		{"extra part", "Bearer " + director + " extra", http.StatusUnauthorized, "Authorization header must be bearer token."},
		{"wrong audience", "Bearer " + p.Sign(t, jwkstest.DefaultKeyID, wrongAudience), http.StatusUnauthorized, "Incorrect claims. Please, check the audience and issuer."},
		{"unknown key", "Bearer " + jwkstest.NewKey(t, "other").Sign(t, jwkstest.Claims("x", nil, time.Hour)), http.StatusUnauthorized, "Unable to find appropriate key."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/actors/1", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedMessage != "" {
				var body httperrors.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, tt.expectedMessage, body.Message)
			}
		})
	}
}
