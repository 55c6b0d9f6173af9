package service

import (
	"github.com/deppfellow/superhero-catalog/internal/repository"
	"github.com/deppfellow/superhero-catalog/internal/server"
)

type Services struct {
	Superhero *SuperheroService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Superhero: NewSuperheroService(s, repos.Superhero),
	}
}
