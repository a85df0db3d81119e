package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/manorfm/casting-agency/internal/domain"
	"github.com/manorfm/casting-agency/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

type ActorHandler struct {
	service domain.ActorService
	logger  *zap.Logger
}

func NewActorHandler(service domain.ActorService, logger *zap.Logger) *ActorHandler {
	return &ActorHandler{
		service: service,
		logger:  logger,
	}
}

// ListActorsHandler godoc
// @Summary List actors
// @Tags actors
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} dto.ActorsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /actors [get]
func (h *ActorHandler) ListActorsHandler(_ domain.Claims, w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		respondError(w, err, "invalid page", h.logger)
		return
	}

	actors, err := h.service.ListActors(r.Context(), page)
	if err != nil {
		respondError(w, err, "failed to list actors", h.logger)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewActorsResponse(actors), h.logger)
}

// GetActorHandler godoc
// @Summary Get an actor
// @Tags actors
// @Produce json
// @Param id path string true "Actor ID"
// @Success 200 {object} dto.SingleActorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /actors/{id} [get]
func (h *ActorHandler) GetActorHandler(_ domain.Claims, w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrActorNotFound)
	if err != nil {
		respondError(w, err, "invalid actor id", h.logger)
		return
	}

	actor, err := h.service.GetActor(r.Context(), id)
	if err != nil {
		respondError(w, err, "failed to get actor", h.logger)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSingleActorResponse(actor), h.logger)
}

// CreateActorHandler godoc
// @Summary Create an actor
// @Tags actors
// @Accept json
// @Produce json
// @Param request body dto.CreateActorRequest true "Actor"
// @Success 200 {object} dto.CreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /actors [post]
func (h *ActorHandler) CreateActorHandler(claims domain.Claims, w http.ResponseWriter, r *http.Request) {
	var req dto.CreateActorRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	actor, err := h.service.CreateActor(r.Context(), req.Name, req.Age, req.Gender)
	if err != nil {
		respondError(w, err, "failed to create actor", h.logger)
		return
	}

	h.logger.Info("actor created", zap.String("id", actor.ID.String()), zap.String("sub", claims.Subject))
	respondJSON(w, http.StatusOK, dto.CreatedResponse{Success: true, Created: actor.ID.String()}, h.logger)
}

// UpdateActorHandler godoc
// @Summary Update an actor
// @Tags actors
// @Accept json
// @Produce json
// @Param id path string true "Actor ID"
// @Param request body dto.UpdateActorRequest true "Fields to change"
// @Success 200 {object} dto.SingleActorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /actors/{id} [patch]
func (h *ActorHandler) UpdateActorHandler(_ domain.Claims, w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrActorNotFound)
	if err != nil {
		respondError(w, err, "invalid actor id", h.logger)
		return
	}

	var req dto.UpdateActorRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}
	if req.Empty() {
		respondError(w, domain.ErrUnprocessable, "empty actor update", h.logger)
		return
	}

	actor, err := h.service.UpdateActor(r.Context(), id, req.Patch())
	if err != nil {
		respondError(w, err, "failed to update actor", h.logger)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSingleActorResponse(actor), h.logger)
}

// DeleteActorHandler godoc
// @Summary Delete an actor
// @Tags actors
// @Produce json
// @Param id path string true "Actor ID"
// @Success 200 {object} dto.DeletedResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /actors/{id} [delete]
func (h *ActorHandler) DeleteActorHandler(claims domain.Claims, w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"), domain.ErrActorNotFound)
	if err != nil {
		respondError(w, err, "invalid actor id", h.logger)
		return
	}

	if err := h.service.DeleteActor(r.Context(), id); err != nil {
		respondError(w, err, "failed to delete actor", h.logger)
		return
	}

	h.logger.Info("actor deleted", zap.String("id", id.String()), zap.String("sub", claims.Subject))
	respondJSON(w, http.StatusOK, dto.DeletedResponse{Success: true, Deleted: id.String()}, h.logger)
}
