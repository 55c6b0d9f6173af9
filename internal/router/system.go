package router

import (
	"github.com/deppfellow/superhero-catalog/internal/handler"
	"github.com/deppfellow/superhero-catalog/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints outside the business API: health,
// the docs viewer and its embedded assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
