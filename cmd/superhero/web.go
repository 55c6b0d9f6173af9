package main

import (
	"errors"
	"net/http"

	"github.com/deppfellow/superhero-catalog/internal/client"
	"github.com/deppfellow/superhero-catalog/internal/web"
	"github.com/spf13/cobra"
)

func newWebCommand() *cobra.Command {
	var port, apiURL string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Run the web UI",
		Long: `Run the server-rendered superhero catalog UI. It reads and writes
through the REST API at web.api_base_url.

Example:
  superhero web --api http://localhost:8080/api/v1 --port 3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadDeps()
			if err != nil {
				return err
			}
			defer rt.loggerService.Shutdown()

			if port != "" {
				rt.cfg.Web.Port = port
			}
			if apiURL != "" {
				rt.cfg.Web.APIBaseURL = apiURL
			}
			return runWeb(rt)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "override web.port")
	cmd.Flags().StringVar(&apiURL, "api", "", "override web.api_base_url")

	return cmd
}

func runWeb(rt *deps) error {
	cfg := rt.cfg.Web

	api, err := client.New(cfg.APIBaseURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(rt.logger.With().Str("component", "api_client").Logger()),
	)
	if err != nil {
		return err
	}

	app, err := web.New(api, &rt.logger, cfg.PageSize)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Router(),
		ReadTimeout:  serverTimeout(rt.cfg.Server.ReadTimeout),
		WriteTimeout: serverTimeout(rt.cfg.Server.WriteTimeout),
		IdleTimeout:  serverTimeout(rt.cfg.Server.IdleTimeout),
	}

	start := func() error {
		rt.logger.Info().
			Str("port", cfg.Port).
			Str("api", cfg.APIBaseURL).
			Msg("starting web UI")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	return serveUntilSignal(&rt.logger, start, httpServer.Shutdown)
}
