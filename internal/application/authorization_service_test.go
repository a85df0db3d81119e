package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/manorfm/casting-agency/internal/domain"
	jwtvalidator "github.com/manorfm/casting-agency/internal/infrastructure/jwt"
	"github.com/manorfm/casting-agency/internal/infrastructure/jwks"
	"github.com/manorfm/casting-agency/internal/infrastructure/jwks/jwkstest"
	"github.com/manorfm/casting-agency/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) Validate(ctx context.Context, rawToken string) (domain.Claims, error) {
	args := m.Called(ctx, rawToken)
	return args.Get(0).(domain.Claims), args.Error(1)
}

func claimsWith(subject string, permissions ...string) domain.Claims {
	c := domain.Claims{Permissions: permissions}
	c.Subject = subject
	return c
}

func TestAuthorizationService_Authorize(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		header      string
		setup       func(v *MockTokenValidator)
		permission  string
		expectedErr error
		outcome     string
	}{
		{
			name:   "granted",
			header: "Bearer good",
			setup: func(v *MockTokenValidator) {
				v.On("Validate", ctx, "good").Return(claimsWith("director", domain.PermissionGetActors), nil)
			},
			permission: domain.PermissionGetActors,
			outcome:    OutcomeGranted,
		},
		{
			name:        "missing header",
			header:      "",
			permission:  domain.PermissionGetActors,
			expectedErr: domain.ErrAuthHeaderMissing,
			outcome:     string(domain.KindMissingHeader),
		},
		{
			name:        "wrong scheme",
			header:      "Basic abc",
			permission:  domain.PermissionGetActors,
			expectedErr: domain.ErrBearerPrefix,
			outcome:     string(domain.KindMalformedHeader),
		},
		{
			name:   "validator rejects token",
			header: "Bearer expired",
			setup: func(v *MockTokenValidator) {
				v.On("Validate", ctx, "expired").Return(domain.Claims{}, domain.ErrTokenExpired)
			},
			permission:  domain.PermissionGetActors,
			expectedErr: domain.ErrTokenExpired,
			outcome:     string(domain.KindTokenExpired),
		},
		{
			name:   "unexpected validator error",
			header: "Bearer odd",
			setup: func(v *MockTokenValidator) {
				v.On("Validate", ctx, "odd").Return(domain.Claims{}, errors.New("boom"))
			},
			permission:  domain.PermissionGetActors,
			expectedErr: domain.ErrTokenUnparsable,
			outcome:     string(domain.KindInvalidHeader),
		},
		{
			name:   "permissions claim missing",
			header: "Bearer noperms",
			setup: func(v *MockTokenValidator) {
				v.On("Validate", ctx, "noperms").Return(claimsWith("guest"), nil)
			},
			permission:  domain.PermissionGetActors,
			expectedErr: domain.ErrPermissionsMissing,
			outcome:     string(domain.KindInvalidClaims),
		},
		{
			name:   "permission not granted",
			header: "Bearer assistant",
			setup: func(v *MockTokenValidator) {
				v.On("Validate", ctx, "assistant").Return(claimsWith("assistant", domain.PermissionGetActors), nil)
			},
			permission:  domain.PermissionDeleteActors,
			expectedErr: domain.ErrPermissionNotFound,
			outcome:     string(domain.KindPermissionDenied),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := new(MockTokenValidator)
			if tt.setup != nil {
				tt.setup(validator)
			}
			m := metrics.New(prometheus.NewRegistry())
			service := NewAuthorizationService(validator, m, zap.NewNop())

			claims, err := service.Authorize(ctx, tt.header, tt.permission)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Equal(t, domain.Claims{}, claims)
				authErr, ok := domain.AsAuthError(err)
				require.True(t, ok)
				assert.Equal(t, 401, authErr.StatusCode())
			} else {
				assert.NoError(t, err)
				assert.True(t, claims.HasPermission(tt.permission))
			}

			assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthorizationTotal.WithLabelValues(tt.outcome)))
			validator.AssertExpectations(t)
		})
	}
}

func TestAuthorizationService_ExtractFailureSkipsValidation(t *testing.T) {
	validator := new(MockTokenValidator)
	service := NewAuthorizationService(validator, nil, zap.NewNop())

	for _, header := range []string{"", "Bearer", "Bearer a b", "Token abc", "bearer abc"} {
		_, err := service.Authorize(context.Background(), header, domain.PermissionGetMovies)
		assert.Error(t, err, header)
	}

	validator.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}

func TestRequire(t *testing.T) {
	ctx := context.Background()

	t.Run("invokes operation once with claims", func(t *testing.T) {
		validator := new(MockTokenValidator)
		validator.On("Validate", ctx, "good").Return(claimsWith("producer", domain.PermissionPostMovies), nil)
		service := NewAuthorizationService(validator, nil, zap.NewNop())

		calls := 0
		result, err := Require(ctx, service, "Bearer good", domain.PermissionPostMovies,
			func(opCtx context.Context, claims domain.Claims) (string, error) {
				calls++
				assert.Equal(t, "producer", claims.Subject)
				sub, ok := domain.GetSubject(opCtx)
				assert.True(t, ok)
				assert.Equal(t, "producer", sub)
				return "created", nil
			})

		require.NoError(t, err)
		assert.Equal(t, "created", result)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns operation error unchanged", func(t *testing.T) {
		validator := new(MockTokenValidator)
		validator.On("Validate", ctx, "good").Return(claimsWith("producer", domain.PermissionDeleteMovies), nil)
		service := NewAuthorizationService(validator, nil, zap.NewNop())

		result, err := Require(ctx, service, "Bearer good", domain.PermissionDeleteMovies,
			func(context.Context, domain.Claims) (*domain.Movie, error) {
				return nil, domain.ErrMovieNotFound
			})

		assert.Nil(t, result)
		assert.Same(t, domain.ErrMovieNotFound, err)
	})

	t.Run("never invokes operation when denied", func(t *testing.T) {
		validator := new(MockTokenValidator)
		validator.On("Validate", ctx, "assistant").Return(claimsWith("assistant", domain.PermissionGetMovies), nil)
		service := NewAuthorizationService(validator, nil, zap.NewNop())

		called := false
		result, err := Require(ctx, service, "Bearer assistant", domain.PermissionDeleteMovies,
			func(context.Context, domain.Claims) (int, error) {
				called = true
				return 42, nil
			})

		assert.ErrorIs(t, err, domain.ErrPermissionNotFound)
		assert.Zero(t, result)
		assert.False(t, called)
	})
}

func TestAuthorizationService_WithSignedTokens(t *testing.T) {
	p := jwkstest.NewProvider(t)
	cache := jwks.New(jwks.Config{URL: p.URL(), FetchTimeout: 2 * time.Second}, nil, zap.NewNop())
	validator, err := jwtvalidator.NewValidator(cache, jwtvalidator.Config{
		Audience:   jwkstest.Audience,
		Issuer:     jwkstest.Issuer,
		Algorithms: []string{"RS256"},
	}, zap.NewNop())
	require.NoError(t, err)
	service := NewAuthorizationService(validator, nil, zap.NewNop())

	assistant := "Bearer " + p.Sign(t, jwkstest.DefaultKeyID, jwkstest.Claims("assistant", []string{domain.PermissionGetActors, domain.PermissionGetMovies}, time.Hour))
	expired := "Bearer " + p.Sign(t, jwkstest.DefaultKeyID, jwkstest.Claims("assistant", []string{domain.PermissionGetActors}, -time.Minute))
	unknown := "Bearer " + jwkstest.NewKey(t, "stranger").Sign(t, jwkstest.Claims("assistant", []string{domain.PermissionGetActors}, time.Hour))

	tests := []struct {
		name        string
		header      string
		permission  string
		expectedErr error
	}{
		{"granted", assistant, domain.PermissionGetMovies, nil},
		{"permission not found", assistant, domain.PermissionDeleteActors, domain.ErrPermissionNotFound},
		{"expired", expired, domain.PermissionGetActors, domain.ErrTokenExpired},
		{"unknown key", unknown, domain.PermissionGetActors, domain.ErrSigningKeyNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.Authorize(context.Background(), tt.header, tt.permission)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "assistant", claims.Subject)
		})
	}
}

func TestAuthorizationService_ConcurrentRequestsAreIsolated(t *testing.T) {
	p := jwkstest.NewProvider(t)
	cache := jwks.New(jwks.Config{URL: p.URL()}, nil, zap.NewNop())
	validator, err := jwtvalidator.NewValidator(cache, jwtvalidator.Config{
		Audience:   jwkstest.Audience,
		Issuer:     jwkstest.Issuer,
		Algorithms: []string{"RS256"},
	}, zap.NewNop())
	require.NoError(t, err)
	service := NewAuthorizationService(validator, nil, zap.NewNop())

	const requests = 40
	headers := make([]string, requests)
	for i := range headers {
		perms := []string{domain.PermissionGetActors}
		if i%2 == 0 {
			perms = append(perms, domain.PermissionDeleteActors)
		}
		headers[i] = "Bearer " + p.Sign(t, jwkstest.DefaultKeyID, jwkstest.Claims(fmt.Sprintf("user-%d", i), perms, time.Hour))
	}

	var wg sync.WaitGroup
	subjects := make([]string, requests)
	errs := make([]error, requests)
	for i := range headers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			subjects[i], errs[i] = Require(context.Background(), service, headers[i], domain.PermissionDeleteActors,
				func(_ context.Context, claims domain.Claims) (string, error) {
					return claims.Subject, nil
				})
		}(i)
	}
	wg.Wait()

	for i := range headers {
		if i%2 == 0 {
			require.NoError(t, errs[i])
			assert.Equal(t, fmt.Sprintf("user-%d", i), subjects[i])
		} else {
			assert.ErrorIs(t, errs[i], domain.ErrPermissionNotFound)
			assert.Empty(t, subjects[i])
		}
	}
}
