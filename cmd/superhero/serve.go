package main

import (
	"fmt"

	"github.com/deppfellow/superhero-catalog/internal/handler"
	"github.com/deppfellow/superhero-catalog/internal/repository"
	"github.com/deppfellow/superhero-catalog/internal/router"
	"github.com/deppfellow/superhero-catalog/internal/server"
	"github.com/deppfellow/superhero-catalog/internal/service"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Long: `Run the superhero REST API under /api/v1.

Configuration comes from SUPERHERO_* environment variables (and a .env file
when present). Example:
  SUPERHERO_DATABASE__DRIVER=postgres superhero serve --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadDeps()
			if err != nil {
				return err
			}
			defer rt.loggerService.Shutdown()

			if port != "" {
				rt.cfg.Server.Port = port
			}
			return runAPI(rt)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "override server.port")

	return cmd
}

func runAPI(rt *deps) error {
	srv, err := server.New(rt.cfg, &rt.logger, rt.loggerService)
	if err != nil {
		return err
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		return abort(&rt.logger, srv.Shutdown, fmt.Errorf("failed to create repositories: %w", err))
	}

	services := service.NewServices(srv, repos)
	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	return serveUntilSignal(&rt.logger, srv.Start, srv.Shutdown)
}
