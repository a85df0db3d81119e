package dto

import (
	"time"

	"github.com/manorfm/casting-agency/internal/domain"
)

// CreateMovieRequest is the body of POST /movies; release_date is YYYY-MM-DD
type CreateMovieRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	ReleaseDate string `json:"release_date" validate:"required,datetime=2006-01-02"`
}

// UpdateMovieRequest is the body of PATCH /movies/{id}
type UpdateMovieRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	ReleaseDate *string `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r UpdateMovieRequest) Empty() bool {
	return r.Title == nil && r.ReleaseDate == nil
}

// Patch converts the request to a domain patch. The release date must
// already have passed validation.
func (r UpdateMovieRequest) Patch() (domain.MoviePatch, error) {
	patch := domain.MoviePatch{Title: r.Title}
	if r.ReleaseDate != nil {
		date, err := ParseReleaseDate(*r.ReleaseDate)
		if err != nil {
			return domain.MoviePatch{}, err
		}
		patch.ReleaseDate = &date
	}
	return patch, nil
}

// ParseReleaseDate parses a YYYY-MM-DD date in UTC
func ParseReleaseDate(value string) (time.Time, error) {
	return time.ParseInLocation(domain.ReleaseDateLayout, value, time.UTC)
}

type MovieResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ReleaseDate string    `json:"release_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewMovieResponse(movie *domain.Movie) *MovieResponse {
	return &MovieResponse{
		ID:          movie.ID.String(),
		Title:       movie.Title,
		ReleaseDate: movie.ReleaseDate.Format(domain.ReleaseDateLayout),
		CreatedAt:   movie.CreatedAt,
		UpdatedAt:   movie.UpdatedAt,
	}
}

type MoviesResponse struct {
	Success     bool             `json:"success"`
	Movies      []*MovieResponse `json:"movies"`
	TotalMovies int              `json:"total_movies"`
}

func NewMoviesResponse(page *domain.Page[*domain.Movie]) *MoviesResponse {
	movies := make([]*MovieResponse, len(page.Items))
	for i, movie := range page.Items {
		movies[i] = NewMovieResponse(movie)
	}
	return &MoviesResponse{Success: true, Movies: movies, TotalMovies: page.Total}
}

type SingleMovieResponse struct {
	Success bool           `json:"success"`
	Movie   *MovieResponse `json:"movie"`
}

func NewSingleMovieResponse(movie *domain.Movie) *SingleMovieResponse {
	return &SingleMovieResponse{Success: true, Movie: NewMovieResponse(movie)}
}

// CreatedResponse acknowledges a created resource
type CreatedResponse struct {
	Success bool   `json:"success"`
	Created string `json:"created"`
}

// DeletedResponse acknowledges a deleted resource
type DeletedResponse struct {
	Success bool   `json:"success"`
	Deleted string `json:"deleted"`
}
