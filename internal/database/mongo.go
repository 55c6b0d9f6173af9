package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/superhero-catalog/internal/config"
	loggerConfig "github.com/deppfellow/superhero-catalog/internal/logger"
	"github.com/newrelic/go-agent/v3/integrations/nrmongo"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func newMongoClient(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*mongo.Client, error) {
	mongoCfg := cfg.Database.Mongo

	opts := options.Client().
		ApplyURI(mongoCfg.URI).
		SetAppName(config.ServiceName)

	if mongoCfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(mongoCfg.ConnectTimeout)
	}
	if mongoCfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(mongoCfg.MaxPoolSize)
	}

	var monitor *event.CommandMonitor
	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		monitor = slowCommandMonitor(logger, threshold)
	}

	// nrmongo wraps (and still calls) the monitor it is given.
	if loggerService.GetApplication() != nil {
		monitor = nrmongo.NewCommandMonitor(monitor)
	}

	if monitor != nil {
		opts.SetMonitor(monitor)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	return client, nil
}

func pingMongo(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

// slowCommandMonitor logs commands that took longer than threshold.
func slowCommandMonitor(logger *zerolog.Logger, threshold time.Duration) *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			if e.Duration < threshold {
				return
			}
			logger.Warn().
				Str("component", "database").
				Str("command", e.CommandName).
				Dur("duration", e.Duration).
				Msg("slow mongo command")
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			logger.Debug().
				Str("component", "database").
				Str("command", e.CommandName).
				Dur("duration", e.Duration).
				Msg("mongo command failed")
		},
	}
}

// superheroIndexes are created by Migrate for the mongo backend.
var superheroIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "nickname", Value: 1}},
		Options: options.Index().SetName("nickname_1"),
	},
	{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_-1"),
	},
}

// EnsureIndexes creates the superhero collection indexes. Existing indexes
// with the same definition are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) ([]string, error) {
	names, err := db.Collection(SuperheroesCollection).Indexes().CreateMany(ctx, superheroIndexes)
	if err != nil {
		return nil, fmt.Errorf("creating superhero indexes: %w", err)
	}
	return names, nil
}
