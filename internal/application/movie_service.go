package application

import (
	"context"
	"time"

	"github.com/manorfm/casting-agency/internal/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type MovieService struct {
	repo     domain.MovieRepository
	pageSize int
	logger   *zap.Logger
}

var _ domain.MovieService = (*MovieService)(nil)

func NewMovieService(repo domain.MovieRepository, pageSize int, logger *zap.Logger) *MovieService {
	return &MovieService{
		repo:     repo,
		pageSize: pageSize,
		logger:   logger,
	}
}

// ListMovies returns one page of movies
func (s *MovieService) ListMovies(ctx context.Context, page int) (*domain.Page[*domain.Movie], error) {
	if page < 1 {
		return nil, domain.ErrInvalidPage
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	movies, err := s.repo.List(ctx, s.pageSize, domain.Offset(page, s.pageSize))
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 && page > 1 {
		return nil, domain.ErrPageNotFound
	}

	return &domain.Page[*domain.Movie]{Items: movies, Total: total, Page: page}, nil
}

func (s *MovieService) GetMovie(ctx context.Context, id ulid.ULID) (*domain.Movie, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *MovieService) CreateMovie(ctx context.Context, title string, releaseDate time.Time) (*domain.Movie, error) {
	movie := domain.NewMovie(title, releaseDate)
	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, err
	}

	s.logger.Info("Movie created", zap.String("id", movie.ID.String()))
	return movie, nil
}

func (s *MovieService) UpdateMovie(ctx context.Context, id ulid.ULID, patch domain.MoviePatch) (*domain.Movie, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	movie.Apply(patch)
	if err := s.repo.Update(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) DeleteMovie(ctx context.Context, id ulid.ULID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Movie deleted", zap.String("id", id.String()))
	return nil
}
