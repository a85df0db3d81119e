package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/manorfm/casting-agency/internal/domain"
	httperrors "github.com/manorfm/casting-agency/internal/interfaces/http/errors"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockActorService struct {
	mock.Mock
}

func (m *MockActorService) ListActors(ctx context.Context, page int) (*domain.Page[*domain.Actor], error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Actor]), args.Error(1)
}

func (m *MockActorService) GetActor(ctx context.Context, id ulid.ULID) (*domain.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Actor), args.Error(1)
}

func (m *MockActorService) CreateActor(ctx context.Context, name string, age int, gender string) (*domain.Actor, error) {
	args := m.Called(ctx, name, age, gender)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Actor), args.Error(1)
}

func (m *MockActorService) UpdateActor(ctx context.Context, id ulid.ULID, patch domain.ActorPatch) (*domain.Actor, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Actor), args.Error(1)
}

func (m *MockActorService) DeleteActor(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) ListMovies(ctx context.Context, page int) (*domain.Page[*domain.Movie], error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Movie]), args.Error(1)
}

func (m *MockMovieService) GetMovie(ctx context.Context, id ulid.ULID) (*domain.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movie), args.Error(1)
}

func (m *MockMovieService) CreateMovie(ctx context.Context, title string, releaseDate time.Time) (*domain.Movie, error) {
	args := m.Called(ctx, title, releaseDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movie), args.Error(1)
}

func (m *MockMovieService) UpdateMovie(ctx context.Context, id ulid.ULID, patch domain.MoviePatch) (*domain.Movie, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movie), args.Error(1)
}

func (m *MockMovieService) DeleteMovie(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// withClaims adapts a claims handler for tests that bypass authorization
func withClaims(h func(domain.Claims, http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := domain.Claims{Permissions: []string{}}
		claims.Subject = "auth0|test"
		h(claims, w, r)
	}
}

func serve(t *testing.T, router chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httperrors.ErrorResponse {
	t.Helper()
	var body httperrors.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}
