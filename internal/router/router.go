// Package router builds the Echo instance: global middleware, system routes
// and the versioned API groups.
package router

import (
	"github.com/deppfellow/superhero-catalog/internal/handler"
	"github.com/deppfellow/superhero-catalog/internal/middleware"
	"github.com/deppfellow/superhero-catalog/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerSuperheroRoutes(v1, h, middlewares.RateLimit.LimitWrites())

	return router
}
