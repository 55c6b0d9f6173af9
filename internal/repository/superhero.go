// Package repository handles all interactions with the database.
//
// Each backend implements SuperheroRepository; the service layer only sees
// the interface.
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/superhero-catalog/internal/model"
)

// ErrSuperheroNotFound is returned when no superhero matches the given ID.
var ErrSuperheroNotFound = errors.New("superhero not found")

// SuperheroRepository persists superheroes. IDs are 24 character hex
// ObjectIDs for every backend.
type SuperheroRepository interface {
	Create(ctx context.Context, hero *model.Superhero) (*model.Superhero, error)
	List(ctx context.Context, offset int64, limit int) ([]model.SuperheroSummary, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*model.Superhero, error)
	Update(ctx context.Context, id string, patch *model.SuperheroPatch) (*model.Superhero, error)
	Delete(ctx context.Context, id string) error
}
