package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/manorfm/casting-agency/internal/domain"
	"github.com/manorfm/casting-agency/internal/infrastructure/database"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type ActorRepository struct {
	logger *zap.Logger
	db     *database.Postgres
}

var _ domain.ActorRepository = (*ActorRepository)(nil)

func NewActorRepository(db *database.Postgres, logger *zap.Logger) *ActorRepository {
	return &ActorRepository{db: db, logger: logger}
}

func (r *ActorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	err := r.db.Exec(ctx, `
		INSERT INTO actors (id, name, age, gender, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, actor.ID.String(), actor.Name, actor.Age, actor.Gender, actor.CreatedAt, actor.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create actor", zap.Error(err))
		return domain.ErrDatabaseQuery
	}
	return nil
}

func (r *ActorRepository) FindByID(ctx context.Context, id ulid.ULID) (*domain.Actor, error) {
	actor := &domain.Actor{}
	err := r.db.QueryRow(ctx, `
		SELECT id, name, age, gender, created_at, updated_at
		FROM actors WHERE id = $1
	`, id.String()).Scan(&actor.ID, &actor.Name, &actor.Age, &actor.Gender, &actor.CreatedAt, &actor.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrActorNotFound
	}
	if err != nil {
		r.logger.Error("failed to find actor by id", zap.String("id", id.String()), zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}
	return actor, nil
}

func (r *ActorRepository) List(ctx context.Context, limit, offset int) ([]*domain.Actor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, age, gender, created_at, updated_at
		FROM actors
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		r.logger.Error("failed to list actors", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}
	defer rows.Close()

	actors := []*domain.Actor{}
	for rows.Next() {
		actor := &domain.Actor{}
		if err := rows.Scan(&actor.ID, &actor.Name, &actor.Age, &actor.Gender, &actor.CreatedAt, &actor.UpdatedAt); err != nil {
			r.logger.Error("failed to scan actor", zap.Error(err))
			return nil, domain.ErrDatabaseQuery
		}
		actors = append(actors, actor)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("failed to iterate actors", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}
	return actors, nil
}

func (r *ActorRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM actors").Scan(&count); err != nil {
		r.logger.Error("failed to count actors", zap.Error(err))
		return 0, domain.ErrDatabaseQuery
	}
	return count, nil
}

func (r *ActorRepository) Update(ctx context.Context, actor *domain.Actor) error {
	tag, err := r.db.ExecRaw(ctx, `
		UPDATE actors
		SET name = $1, age = $2, gender = $3, updated_at = $4
		WHERE id = $5
	`, actor.Name, actor.Age, actor.Gender, actor.UpdatedAt, actor.ID.String())
	if err != nil {
		return domain.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActorNotFound
	}
	return nil
}

func (r *ActorRepository) Delete(ctx context.Context, id ulid.ULID) error {
	tag, err := r.db.ExecRaw(ctx, "DELETE FROM actors WHERE id = $1", id.String())
	if err != nil {
		return domain.ErrDatabaseQuery
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActorNotFound
	}
	return nil
}
