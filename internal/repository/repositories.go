package repository

import (
	"fmt"

	"github.com/deppfellow/superhero-catalog/internal/database"
	"github.com/deppfellow/superhero-catalog/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Superhero SuperheroRepository
}

// NewRepositories picks the implementation matching the connected database.
func NewRepositories(s *server.Server) (*Repositories, error) {
	switch {
	case s.DB.MongoDB != nil:
		return &Repositories{
			Superhero: NewMongoSuperheroRepository(s.DB.MongoDB, database.SuperheroesCollection),
		}, nil
	case s.DB.Pool != nil:
		return &Repositories{
			Superhero: NewPostgresSuperheroRepository(s.DB.Pool),
		}, nil
	default:
		return nil, fmt.Errorf("no database connection for driver %q", s.DB.Driver)
	}
}
