package dto

import (
	"time"

	"github.com/manorfm/casting-agency/internal/domain"
)

// CreateActorRequest is the body of POST /actors
type CreateActorRequest struct {
	Name   string `json:"name" validate:"required,max=255"`
	Age    int    `json:"age" validate:"required,min=1,max=150"`
	Gender string `json:"gender" validate:"max=32"`
}

// UpdateActorRequest is the body of PATCH /actors/{id}; at least one field must be set
type UpdateActorRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=255"`
	Age    *int    `json:"age" validate:"omitempty,min=1,max=150"`
	Gender *string `json:"gender" validate:"omitempty,max=32"`
}

// Empty reports whether the request changes nothing
func (r UpdateActorRequest) Empty() bool {
	return r.Name == nil && r.Age == nil && r.Gender == nil
}

// Patch converts the request to a domain patch
func (r UpdateActorRequest) Patch() domain.ActorPatch {
	return domain.ActorPatch{Name: r.Name, Age: r.Age, Gender: r.Gender}
}

type ActorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewActorResponse(actor *domain.Actor) *ActorResponse {
	return &ActorResponse{
		ID:        actor.ID.String(),
		Name:      actor.Name,
		Age:       actor.Age,
		Gender:    actor.Gender,
		CreatedAt: actor.CreatedAt,
		UpdatedAt: actor.UpdatedAt,
	}
}

type ActorsResponse struct {
	Success     bool             `json:"success"`
	Actors      []*ActorResponse `json:"actors"`
	TotalActors int              `json:"total_actors"`
}

func NewActorsResponse(page *domain.Page[*domain.Actor]) *ActorsResponse {
	actors := make([]*ActorResponse, len(page.Items))
	for i, actor := range page.Items {
		actors[i] = NewActorResponse(actor)
	}
	return &ActorsResponse{Success: true, Actors: actors, TotalActors: page.Total}
}

type SingleActorResponse struct {
	Success bool           `json:"success"`
	Actor   *ActorResponse `json:"actor"`
}

func NewSingleActorResponse(actor *domain.Actor) *SingleActorResponse {
	return &SingleActorResponse{Success: true, Actor: NewActorResponse(actor)}
}
