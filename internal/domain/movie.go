package domain

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// ReleaseDateLayout is the wire format of a movie release date
const ReleaseDateLayout = "2006-01-02"

// Movie represents a production the agency casts for
type Movie struct {
	ID          ulid.ULID `json:"id"`
	Title       string    `json:"title"`
	ReleaseDate time.Time `json:"release_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MoviePatch carries the fields of a partial movie update; nil means unchanged
type MoviePatch struct {
	Title       *string
	ReleaseDate *time.Time
}

// NewMovie creates a new movie instance
func NewMovie(title string, releaseDate time.Time) *Movie {
	now := time.Now().UTC()
	return &Movie{
		ID:          ulid.Make(),
		Title:       title,
		ReleaseDate: releaseDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply copies the set fields of the patch onto the movie
func (m *Movie) Apply(patch MoviePatch) {
	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.ReleaseDate != nil {
		m.ReleaseDate = *patch.ReleaseDate
	}
	m.UpdatedAt = time.Now().UTC()
}

type MovieService interface {
	ListMovies(ctx context.Context, page int) (*Page[*Movie], error)
	GetMovie(ctx context.Context, id ulid.ULID) (*Movie, error)
	CreateMovie(ctx context.Context, title string, releaseDate time.Time) (*Movie, error)
	UpdateMovie(ctx context.Context, id ulid.ULID, patch MoviePatch) (*Movie, error)
	DeleteMovie(ctx context.Context, id ulid.ULID) error
}

// MovieRepository defines the interface for movie data access
type MovieRepository interface {
	Create(ctx context.Context, movie *Movie) error
	FindByID(ctx context.Context, id ulid.ULID) (*Movie, error)
	List(ctx context.Context, limit, offset int) ([]*Movie, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id ulid.ULID) error
}
