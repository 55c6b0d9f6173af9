package main

import (
	"context"
	"time"

	"github.com/deppfellow/superhero-catalog/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations or create indexes",
		Long: `Prepare the configured database.

For postgres this applies the embedded tern migrations. For mongo it creates
the collection indexes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadDeps()
			if err != nil {
				return err
			}
			defer rt.loggerService.Shutdown()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return database.Migrate(ctx, &rt.logger, rt.cfg)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "deadline for the whole migration")

	return cmd
}
