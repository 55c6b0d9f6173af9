// Package web serves the server-rendered superhero catalog UI. It talks to
// the REST API through the client package.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/deppfellow/superhero-catalog/internal/client"
	"github.com/deppfellow/superhero-catalog/internal/middleware"
	"github.com/deppfellow/superhero-catalog/internal/model"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// SuperheroAPI is the subset of the API client the UI needs.
type SuperheroAPI interface {
	ListSuperheroes(ctx context.Context, page, limit int) (*client.SuperheroPage, error)
	GetSuperhero(ctx context.Context, id string) (*model.Superhero, error)
	CreateSuperhero(ctx context.Context, input *client.SuperheroInput) (*model.Superhero, error)
	UpdateSuperhero(ctx context.Context, id string, input *client.SuperheroInput) (*model.Superhero, error)
	DeleteSuperhero(ctx context.Context, id string) error
}

type App struct {
	api      SuperheroAPI
	logger   *zerolog.Logger
	pageSize int
	pages    map[string]*template.Template
}

func New(api SuperheroAPI, logger *zerolog.Logger, pageSize int) (*App, error) {
	if pageSize <= 0 {
		pageSize = model.DefaultLimit
	}

	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &App{
		api:      api,
		logger:   logger,
		pageSize: pageSize,
		pages:    pages,
	}, nil
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	},
}

// parseTemplates builds one template set per page, each combined with the
// shared layout.
func parseTemplates() (map[string]*template.Template, error) {
	pages := map[string]*template.Template{}
	for _, name := range []string{"list", "detail", "form", "error"} {
		t, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		pages[name] = t
	}
	return pages, nil
}

// Render implements echo.Renderer.
func (a *App) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := a.pages[name]
	if !ok {
		return errors.New("unknown page " + name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

// Router builds the Echo instance serving the UI.
func (a *App) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = a
	e.HTTPErrorHandler = a.errorHandler

	e.Use(
		echoMiddleware.Secure(),
		middleware.RequestID(),
		a.requestLogger(),
		echoMiddleware.Recover(),
	)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/heroes")
	})

	e.GET("/heroes", a.listHeroes)
	e.GET("/heroes/new", a.newHero)
	e.POST("/heroes", a.createHero)
	e.GET("/heroes/:id", a.showHero)
	e.GET("/heroes/:id/edit", a.editHero)
	e.POST("/heroes/:id", a.updateHero)
	e.POST("/heroes/:id/delete", a.deleteHero)

	return e
}

func (a *App) requestLogger() echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			e := a.logger.Info()
			if v.Status >= http.StatusInternalServerError {
				e = a.logger.Error()
			}
			e.
				Str("request_id", middleware.GetRequestID(c)).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("WEB")
			return nil
		},
	})
}

type pageData struct {
	Title  string
	Flash  *flash
	Heroes []model.SuperheroSummary
	Pager  pager
	Total  int64
	Hero   *model.Superhero
	Form   heroForm
	Errors map[string]string
	Action string
	IsEdit bool
	Status int
	Error  string
}

func (a *App) render(c echo.Context, status int, page string, data pageData) error {
	data.Flash = popFlash(c)
	return c.Render(status, page, data)
}

func (a *App) listHeroes(c echo.Context) error {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = model.DefaultPage
	}

	result, err := a.api.ListSuperheroes(c.Request().Context(), page, a.pageSize)
	if err != nil {
		return err
	}

	return a.render(c, http.StatusOK, "list", pageData{
		Title:  "Superheroes",
		Heroes: result.Data,
		Total:  result.Total,
		Pager:  newPager(page, result.Total, a.pageSize),
	})
}

func (a *App) showHero(c echo.Context) error {
	hero, err := a.api.GetSuperhero(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return a.render(c, http.StatusOK, "detail", pageData{Title: hero.Nickname, Hero: hero})
}

func (a *App) newHero(c echo.Context) error {
	return a.render(c, http.StatusOK, "form", pageData{
		Title:  "Create New Superhero",
		Action: "/heroes",
		Errors: map[string]string{},
	})
}

func (a *App) editHero(c echo.Context) error {
	hero, err := a.api.GetSuperhero(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return a.render(c, http.StatusOK, "form", pageData{
		Title:  "Edit " + hero.Nickname,
		Action: "/heroes/" + hero.ID,
		IsEdit: true,
		Hero:   hero,
		Form:   formFromHero(hero),
		Errors: map[string]string{},
	})
}

func (a *App) createHero(c echo.Context) error {
	data := pageData{Title: "Create New Superhero", Action: "/heroes"}

	hero, ok, err := a.submit(c, &data, func(ctx context.Context, in *client.SuperheroInput) (*model.Superhero, error) {
		return a.api.CreateSuperhero(ctx, in)
	})
	if err != nil || !ok {
		return err
	}

	setFlash(c, "success", "Superhero created successfully")
	return c.Redirect(http.StatusSeeOther, "/heroes/"+hero.ID)
}

func (a *App) updateHero(c echo.Context) error {
	id := c.Param("id")
	data := pageData{Title: "Edit Superhero", Action: "/heroes/" + id, IsEdit: true}

	hero, ok, err := a.submit(c, &data, func(ctx context.Context, in *client.SuperheroInput) (*model.Superhero, error) {
		return a.api.UpdateSuperhero(ctx, id, in)
	})
	if err != nil || !ok {
		return err
	}

	setFlash(c, "success", "Superhero updated successfully")
	return c.Redirect(http.StatusSeeOther, "/heroes/"+hero.ID)
}

// submit binds and validates the form and calls save. When the form or the
// API rejects the input it re-renders the form and reports ok=false.
func (a *App) submit(
	c echo.Context,
	data *pageData,
	save func(ctx context.Context, in *client.SuperheroInput) (*model.Superhero, error),
) (*model.Superhero, bool, error) {
	var form heroForm
	if err := c.Bind(&form); err != nil {
		return nil, false, echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	data.Form = form

	if data.Errors = form.validate(); len(data.Errors) > 0 {
		return nil, false, a.render(c, http.StatusUnprocessableEntity, "form", *data)
	}

	hero, err := save(c.Request().Context(), form.input())
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.IsValidation() {
			data.Errors = apiFieldErrors(apiErr)
			return nil, false, a.render(c, http.StatusUnprocessableEntity, "form", *data)
		}
		return nil, false, err
	}

	return hero, true, nil
}

func (a *App) deleteHero(c echo.Context) error {
	if err := a.api.DeleteSuperhero(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	setFlash(c, "success", "Superhero deleted successfully")
	return c.Redirect(http.StatusSeeOther, "/heroes")
}

// errorHandler renders API and routing failures as an error page.
func (a *App) errorHandler(err error, c echo.Context) {
	status := http.StatusBadGateway
	message := "Failed to reach the superhero service"

	var apiErr *client.APIError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
		switch {
		case apiErr.IsNotFound():
			status, message = http.StatusNotFound, "Superhero not found"
		case apiErr.StatusCode == http.StatusBadRequest:
			status, message = http.StatusBadRequest, apiErr.Message
		case apiErr.StatusCode == http.StatusTooManyRequests:
			status, message = http.StatusTooManyRequests, "Too many requests, please try again later"
		}
	case errors.As(err, &echoErr):
		status = echoErr.Code
		message = http.StatusText(status)
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		}
	}

	event := a.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = a.logger.Error()
	}
	event.Err(err).
		Str("request_id", middleware.GetRequestID(c)).
		Int("status", status).
		Msg("web request failed")

	if c.Response().Committed {
		return
	}

	if rerr := c.Render(status, "error", pageData{Title: "Error", Status: status, Error: message}); rerr != nil {
		a.logger.Error().Err(rerr).Msg("failed to render error page")
	}
}
