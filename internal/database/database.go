// Package database opens the connection to the configured document store.
//
// MongoDB is the default backend. PostgreSQL is supported through a pgx
// connection pool for deployments that already run it. Both are wired to
// the application logger for slow query reporting and, when enabled, to New
// Relic datastore segments.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/superhero-catalog/internal/config"
	loggerConfig "github.com/deppfellow/superhero-catalog/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// DatabasePingTimeout is how long startup waits for the first ping.
const DatabasePingTimeout = 10 * time.Second

// SuperheroesCollection names the collection (or table) holding heroes.
const SuperheroesCollection = "superheroes"

// Database holds the handle of the configured backend. Exactly one of
// Mongo or Pool is set, matching Driver.
type Database struct {
	Driver string

	Mongo   *mongo.Client
	MongoDB *mongo.Database

	Pool *pgxpool.Pool

	log *zerolog.Logger
}

// New connects to the backend selected by cfg.Database.Driver and pings it.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout)
	defer cancel()

	db := &Database{Driver: cfg.Database.Driver, log: logger}

	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, err := newMongoClient(ctx, cfg, logger, loggerService)
		if err != nil {
			return nil, err
		}
		db.Mongo = client
		db.MongoDB = client.Database(cfg.Database.Mongo.Name)

	case config.DriverPostgres:
		pool, err := newPostgresPool(ctx, cfg, logger, loggerService)
		if err != nil {
			return nil, err
		}
		db.Pool = pool

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", db.Driver).Msg("connected to the database")

	return db, nil
}

// Ping checks connectivity of the active backend.
func (db *Database) Ping(ctx context.Context) error {
	switch {
	case db.Mongo != nil:
		return pingMongo(ctx, db.Mongo)
	case db.Pool != nil:
		return db.Pool.Ping(ctx)
	default:
		return fmt.Errorf("database not initialized")
	}
}

// Close releases the connection pool of the active backend.
func (db *Database) Close() error {
	db.log.Info().Str("driver", db.Driver).Msg("closing database connection")

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to disconnect mongo client: %w", err)
		}
	}

	if db.Pool != nil {
		db.Pool.Close()
	}

	return nil
}
