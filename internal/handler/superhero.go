package handler

import (
	"context"

	"github.com/deppfellow/superhero-catalog/internal/model"
	"github.com/deppfellow/superhero-catalog/internal/server"
	"github.com/deppfellow/superhero-catalog/internal/validation"
	"github.com/labstack/echo/v4"
)

// SuperheroService is the business API the superhero endpoints call.
type SuperheroService interface {
	Create(ctx context.Context, hero *model.Superhero) (*model.Superhero, error)
	List(ctx context.Context, page, limit int) (*model.PaginatedResponse[model.SuperheroSummary], error)
	Get(ctx context.Context, id string) (*model.Superhero, error)
	Update(ctx context.Context, id string, patch *model.SuperheroPatch) (*model.Superhero, error)
	Delete(ctx context.Context, id string) error
}

type CreateSuperheroRequest struct {
	Nickname          string   `json:"nickname" validate:"required,notblank,max=100"`
	RealName          string   `json:"real_name" validate:"required,notblank,max=100"`
	OriginDescription string   `json:"origin_description" validate:"max=5000"`
	Superpowers       []string `json:"superpowers" validate:"omitempty,dive,notblank,max=100"`
	CatchPhrase       string   `json:"catch_phrase" validate:"max=500"`
	Images            []string `json:"images" validate:"omitempty,dive,http_url"`
}

func (r *CreateSuperheroRequest) Validate() error {
	return validation.Struct(r)
}

func (r *CreateSuperheroRequest) toModel() *model.Superhero {
	return &model.Superhero{
		Nickname:          r.Nickname,
		RealName:          r.RealName,
		OriginDescription: r.OriginDescription,
		Superpowers:       r.Superpowers,
		CatchPhrase:       r.CatchPhrase,
		Images:            r.Images,
	}
}

type ListSuperheroesRequest struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

func (r *ListSuperheroesRequest) Validate() error {
	return validation.Struct(r)
}

type SuperheroIDRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *SuperheroIDRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateSuperheroRequest is a partial update: nil fields are left unchanged.
type UpdateSuperheroRequest struct {
	ID                string    `param:"id" json:"-" validate:"required"`
	Nickname          *string   `json:"nickname" validate:"omitempty,notblank,max=100"`
	RealName          *string   `json:"real_name" validate:"omitempty,notblank,max=100"`
	OriginDescription *string   `json:"origin_description" validate:"omitempty,max=5000"`
	Superpowers       *[]string `json:"superpowers" validate:"omitempty,dive,notblank,max=100"`
	CatchPhrase       *string   `json:"catch_phrase" validate:"omitempty,max=500"`
	Images            *[]string `json:"images" validate:"omitempty,dive,http_url"`
}

func (r *UpdateSuperheroRequest) Validate() error {
	return validation.Struct(r)
}

func (r *UpdateSuperheroRequest) toPatch() *model.SuperheroPatch {
	return &model.SuperheroPatch{
		Nickname:          r.Nickname,
		RealName:          r.RealName,
		OriginDescription: r.OriginDescription,
		Superpowers:       r.Superpowers,
		CatchPhrase:       r.CatchPhrase,
		Images:            r.Images,
	}
}

type SuperheroHandler struct {
	Handler
	service SuperheroService
}

func NewSuperheroHandler(s *server.Server, service SuperheroService) *SuperheroHandler {
	return &SuperheroHandler{
		Handler: NewHandler(s),
		service: service,
	}
}

func (h *SuperheroHandler) CreateSuperhero(c echo.Context, req *CreateSuperheroRequest) (*model.Superhero, error) {
	return h.service.Create(c.Request().Context(), req.toModel())
}

func (h *SuperheroHandler) ListSuperheroes(c echo.Context, req *ListSuperheroesRequest) (*model.PaginatedResponse[model.SuperheroSummary], error) {
	page, limit := req.Page, req.Limit
	if page == 0 {
		page = model.DefaultPage
	}
	if limit == 0 {
		limit = model.DefaultLimit
	}
	return h.service.List(c.Request().Context(), page, limit)
}

func (h *SuperheroHandler) GetSuperhero(c echo.Context, req *SuperheroIDRequest) (*model.Superhero, error) {
	return h.service.Get(c.Request().Context(), req.ID)
}

func (h *SuperheroHandler) UpdateSuperhero(c echo.Context, req *UpdateSuperheroRequest) (*model.Superhero, error) {
	return h.service.Update(c.Request().Context(), req.ID, req.toPatch())
}

func (h *SuperheroHandler) DeleteSuperhero(c echo.Context, req *SuperheroIDRequest) error {
	return h.service.Delete(c.Request().Context(), req.ID)
}
