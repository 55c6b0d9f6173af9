// Package handler is the HTTP layer of the API.
//
// It binds and validates requests through the validation package, calls the
// service layer and writes responses.
package handler

import (
	"github.com/deppfellow/superhero-catalog/internal/server"
	"github.com/deppfellow/superhero-catalog/internal/service"
)

// Handlers groups every HTTP handler.
type Handlers struct {
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
	Superhero *SuperheroHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s),
		Superhero: NewSuperheroHandler(s, services.Superhero),
	}
}
