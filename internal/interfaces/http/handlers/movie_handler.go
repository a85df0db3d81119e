package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/manorfm/casting-agency/internal/domain"
	"github.com/manorfm/casting-agency/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service domain.MovieService
	logger  *zap.Logger
}

func NewMovieHandler(service domain.MovieService, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		logger:  logger,
	}
}

// ListMoviesHandler godoc
// @Summary List movies
// @Tags movies
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} dto.MoviesResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /movies [get]
func (h *MovieHandler) ListMoviesHandler(_ domain.Claims, w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		respondError(w, err, "invalid page", h.logger)
		return
	}

	movies, err := h.service.ListMovies(r.Context(), page)
	if err != nil {
		respondError(w, err, "failed to list movies", h.logger)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewMoviesResponse(movies), h.logger)
}

// GetMovieHandler godoc
// @Summary Get a movie
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} dto.SingleMovieResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovieHandler(_ domain.Claims, w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrMovieNotFound)
	if err != nil {
		respondError(w, err, "invalid movie id", h.logger)
		return
	}

	movie, err := h.service.GetMovie(r.Context(), id)
	if err != nil {
		respondError(w, err, "failed to get movie", h.logger)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSingleMovieResponse(movie), h.logger)
}

// CreateMovieHandler godoc
// @Summary Create a movie
// @Tags movies
// @Accept json
// @Produce json
// @Param request body dto.CreateMovieRequest true "Movie"
// @Success 200 {object} dto.CreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /movies [post]
func (h *MovieHandler) CreateMovieHandler(claims domain.Claims, w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMovieRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	releaseDate, err := dto.ParseReleaseDate(req.ReleaseDate)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", domain.ErrUnprocessable, err), "invalid release date", h.logger)
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), req.Title, releaseDate)
	if err != nil {
		respondError(w, err, "failed to create movie", h.logger)
		return
	}

	h.logger.Info("movie created", zap.String("id", movie.ID.String()), zap.String("sub", claims.Subject))
	respondJSON(w, http.StatusOK, dto.CreatedResponse{Success: true, Created: movie.ID.String()}, h.logger)
}

// UpdateMovieHandler godoc
// @Summary Update a movie
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID"
// @Param request body dto.UpdateMovieRequest true "Fields to change"
// @Success 200 {object} dto.SingleMovieResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /movies/{id} [patch]
func (h *MovieHandler) UpdateMovieHandler(_ domain.Claims, w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrMovieNotFound)
	if err != nil {
		respondError(w, err, "invalid movie id", h.logger)
		return
	}

	var req dto.UpdateMovieRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}
	if req.Empty() {
		respondError(w, domain.ErrUnprocessable, "empty movie update", h.logger)
		return
	}

	patch, err := req.Patch()
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", domain.ErrUnprocessable, err), "invalid release date", h.logger)
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), id, patch)
	if err != nil {
		respondError(w, err, "failed to update movie", h.logger)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSingleMovieResponse(movie), h.logger)
}

// DeleteMovieHandler godoc
// @Summary Delete a movie
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} dto.DeletedResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /movies/{id} [delete]
func (h *MovieHandler) DeleteMovieHandler(claims domain.Claims, w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrMovieNotFound)
	if err != nil {
		respondError(w, err, "invalid movie id", h.logger)
		return
	}

	if err := h.service.DeleteMovie(r.Context(), id); err != nil {
		respondError(w, err, "failed to delete movie", h.logger)
		return
	}

	h.logger.Info("movie deleted", zap.String("id", id.String()), zap.String("sub", claims.Subject))
	respondJSON(w, http.StatusOK, dto.DeletedResponse{Success: true, Deleted: id.String()}, h.logger)
}
