package domain

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Actor represents a performer managed by the agency
type Actor struct {
	ID        ulid.ULID `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActorPatch carries the fields of a partial actor update; nil means unchanged
type ActorPatch struct {
	Name   *string
	Age    *int
	Gender *string
}

// NewActor creates a new actor instance
func NewActor(name string, age int, gender string) *Actor {
	now := time.Now().UTC()
	return &Actor{
		ID:        ulid.Make(),
		Name:      name,
		Age:       age,
		Gender:    gender,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply copies the set fields of the patch onto the actor
func (a *Actor) Apply(patch ActorPatch) {
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Age != nil {
		a.Age = *patch.Age
	}
	if patch.Gender != nil {
		a.Gender = *patch.Gender
	}
	a.UpdatedAt = time.Now().UTC()
}

type ActorService interface {
	ListActors(ctx context.Context, page int) (*Page[*Actor], error)
	GetActor(ctx context.Context, id ulid.ULID) (*Actor, error)
	CreateActor(ctx context.Context, name string, age int, gender string) (*Actor, error)
	UpdateActor(ctx context.Context, id ulid.ULID, patch ActorPatch) (*Actor, error)
	DeleteActor(ctx context.Context, id ulid.ULID) error
}

// ActorRepository defines the interface for actor data access
type ActorRepository interface {
	// Create creates a new actor in the database
	Create(ctx context.Context, actor *Actor) error

	// FindByID finds an actor by ID
	FindByID(ctx context.Context, id ulid.ULID) (*Actor, error)

	// List lists actors with pagination
	List(ctx context.Context, limit, offset int) ([]*Actor, error)

	// Count returns the total number of actors
	Count(ctx context.Context) (int, error)

	// Update updates an actor
	Update(ctx context.Context, actor *Actor) error

	// Delete deletes an actor
	Delete(ctx context.Context, id ulid.ULID) error
}
