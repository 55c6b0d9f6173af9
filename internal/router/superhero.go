package router

import (
	"net/http"

	"github.com/deppfellow/superhero-catalog/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSuperheroRoutes mounts the superhero CRUD endpoints. Writes go
// through limitWrites.
func registerSuperheroRoutes(g *echo.Group, h *handler.Handlers, limitWrites echo.MiddlewareFunc) {
	heroes := g.Group("/superheroes")
	sh := h.Superhero

	heroes.GET("", handler.Handle(sh.Handler, sh.ListSuperheroes, http.StatusOK, &handler.ListSuperheroesRequest{}))
	heroes.GET("/:id", handler.Handle(sh.Handler, sh.GetSuperhero, http.StatusOK, &handler.SuperheroIDRequest{}))

	heroes.POST("", handler.Handle(sh.Handler, sh.CreateSuperhero, http.StatusCreated, &handler.CreateSuperheroRequest{}), limitWrites)
	heroes.PUT("/:id", handler.Handle(sh.Handler, sh.UpdateSuperhero, http.StatusOK, &handler.UpdateSuperheroRequest{}), limitWrites)
	heroes.DELETE("/:id", handler.HandleNoContent(sh.Handler, sh.DeleteSuperhero, http.StatusNoContent, &handler.SuperheroIDRequest{}), limitWrites)
}
