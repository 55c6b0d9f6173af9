package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/deppfellow/superhero-catalog/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate prepares the schema of the configured backend: tern migrations for
// postgres, collection indexes for mongo.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		return migrateMongo(ctx, logger, &cfg.Database.Mongo)
	case config.DriverPostgres:
		return migratePostgres(ctx, logger, &cfg.Database.Postgres)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func migrateMongo(ctx context.Context, logger *zerolog.Logger, cfg *config.MongoConfig) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return fmt.Errorf("connecting to mongo: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	names, err := EnsureIndexes(ctx, client.Database(cfg.Name))
	if err != nil {
		return err
	}

	logger.Info().Strs("indexes", names).Msg("superhero indexes ensured")
	return nil
}

func migratePostgres(ctx context.Context, logger *zerolog.Logger, cfg *config.PostgresConfig) error {
	conn, err := pgx.Connect(ctx, PostgresDSN(cfg))
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}
