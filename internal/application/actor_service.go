package application

import (
	"context"

	"github.com/manorfm/casting-agency/internal/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type ActorService struct {
	repo     domain.ActorRepository
	pageSize int
	logger   *zap.Logger
}

var _ domain.ActorService = (*ActorService)(nil)

func NewActorService(repo domain.ActorRepository, pageSize int, logger *zap.Logger) *ActorService {
	return &ActorService{
		repo:     repo,
		pageSize: pageSize,
		logger:   logger,
	}
}

// ListActors returns one page of actors. A page past the last one is
// reported as not found, except for the first page of an empty listing.
func (s *ActorService) ListActors(ctx context.Context, page int) (*domain.Page[*domain.Actor], error) {
	if page < 1 {
		return nil, domain.ErrInvalidPage
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	actors, err := s.repo.List(ctx, s.pageSize, domain.Offset(page, s.pageSize))
	if err != nil {
		return nil, err
	}
	if len(actors) == 0 && page > 1 {
		return nil, domain.ErrPageNotFound
	}

	return &domain.Page[*domain.Actor]{Items: actors, Total: total, Page: page}, nil
}

// GetActor retrieves an actor by ID
func (s *ActorService) GetActor(ctx context.Context, id ulid.ULID) (*domain.Actor, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateActor stores a new actor
func (s *ActorService) CreateActor(ctx context.Context, name string, age int, gender string) (*domain.Actor, error) {
	actor := domain.NewActor(name, age, gender)
	if err := s.repo.Create(ctx, actor); err != nil {
		return nil, err
	}

	s.logger.Info("Actor created", zap.String("id", actor.ID.String()))
	return actor, nil
}

// UpdateActor applies a partial update to an existing actor
func (s *ActorService) UpdateActor(ctx context.Context, id ulid.ULID, patch domain.ActorPatch) (*domain.Actor, error) {
	actor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actor.Apply(patch)
	if err := s.repo.Update(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}

// DeleteActor removes an actor
func (s *ActorService) DeleteActor(ctx context.Context, id ulid.ULID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Actor deleted", zap.String("id", id.String()))
	return nil
}
