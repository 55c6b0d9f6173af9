package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/superhero-catalog/internal/errs"
	"github.com/deppfellow/superhero-catalog/internal/model"
	"github.com/deppfellow/superhero-catalog/internal/repository"
	"github.com/deppfellow/superhero-catalog/internal/server"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidID         = errs.NewBadRequestError("Invalid ID format", true, nil, nil, nil)
	ErrSuperheroNotFound = errs.NewNotFoundError("Superhero not found", true, nil)
)

func paginationErrors(page, limit int) []errs.FieldError {
	var fields []errs.FieldError
	if page < 1 {
		fields = append(fields, errs.FieldError{Field: "page", Error: "must be at least 1"})
	}
	if limit < 1 {
		fields = append(fields, errs.FieldError{Field: "limit", Error: "must be at least 1"})
	} else if limit > model.MaxLimit {
		fields = append(fields, errs.FieldError{Field: "limit", Error: fmt.Sprintf("must not exceed %d", model.MaxLimit)})
	}
	return fields
}

type SuperheroService struct {
	logger *zerolog.Logger
	repo   repository.SuperheroRepository
}

func NewSuperheroService(s *server.Server, repo repository.SuperheroRepository) *SuperheroService {
	return &SuperheroService{
		logger: s.Logger,
		repo:   repo,
	}
}

func (s *SuperheroService) Create(ctx context.Context, hero *model.Superhero) (*model.Superhero, error) {
	hero.Superpowers = cleanList(hero.Superpowers)
	hero.Images = cleanList(hero.Images)
	hero.Normalize()

	created, err := s.repo.Create(ctx, hero)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("superhero_id", created.ID).
		Str("nickname", created.Nickname).
		Msg("superhero created")

	return created, nil
}

// List returns one page of summaries, ordered by ID, along with the total
// number of superheroes.
func (s *SuperheroService) List(ctx context.Context, page, limit int) (*model.PaginatedResponse[model.SuperheroSummary], error) {
	if fields := paginationErrors(page, limit); len(fields) > 0 {
		return nil, errs.NewBadRequestError("Invalid pagination parameters", true, nil, fields, nil)
	}

	items, err := s.repo.List(ctx, model.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []model.SuperheroSummary{}
	}

	return &model.PaginatedResponse[model.SuperheroSummary]{
		Data:  items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// canonicalID validates id as an ObjectID and lower-cases it. Stores keyed by
// the hex text compare case-sensitively.
func canonicalID(id string) (string, bool) {
	if !primitive.IsValidObjectID(id) {
		return "", false
	}
	return strings.ToLower(id), true
}

func (s *SuperheroService) Get(ctx context.Context, id string) (*model.Superhero, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, ErrInvalidID
	}

	hero, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return hero, nil
}

// Update applies the fields present in patch and returns the stored result.
func (s *SuperheroService) Update(ctx context.Context, id string, patch *model.SuperheroPatch) (*model.Superhero, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, ErrInvalidID
	}

	if patch.Superpowers != nil {
		powers := cleanList(*patch.Superpowers)
		patch.Superpowers = &powers
	}
	if patch.Images != nil {
		images := cleanList(*patch.Images)
		patch.Images = &images
	}

	hero, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, notFound(err)
	}

	s.logger.Info().Str("superhero_id", id).Msg("superhero updated")

	return hero, nil
}

func (s *SuperheroService) Delete(ctx context.Context, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return ErrInvalidID
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}

	s.logger.Info().Str("superhero_id", id).Msg("superhero deleted")

	return nil
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrSuperheroNotFound) {
		return ErrSuperheroNotFound
	}
	return err
}

// cleanList trims items and drops blanks and exact duplicates, keeping order.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
