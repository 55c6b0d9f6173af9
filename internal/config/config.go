// Package config loads the application configuration.
//
// Values come from built-in defaults, then from environment variables
// prefixed with SUPERHERO_ (a `.env` file is loaded first when present).
// Nested keys are separated by a double underscore:
//
//	SUPERHERO_SERVER__PORT=8080          -> server.port
//	SUPERHERO_DATABASE__MONGO__URI=...   -> database.mongo.uri
//
// The result is validated with struct tags plus Validate methods for rules
// tags cannot express.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix every configuration variable must carry.
	EnvPrefix = "SUPERHERO_"

	// ServiceName identifies this service in logs and APM.
	ServiceName = "superhero-catalog"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config is the root configuration object.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Web           WebConfig            `koanf:"web"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig configures the REST API server. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig selects the document store backend and holds the settings
// of each driver. Only the block matching Driver is validated.
type DatabaseConfig struct {
	Driver   string         `koanf:"driver" validate:"required,oneof=mongo postgres"`
	Mongo    MongoConfig    `koanf:"mongo"`
	Postgres PostgresConfig `koanf:"postgres"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Name           string        `koanf:"name"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	MaxPoolSize    uint64        `koanf:"max_pool_size"`
}

// PostgresConfig holds PostgreSQL connection parameters and pool tuning.
type PostgresConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	User            string `koanf:"user"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
}

// RedisConfig contains Redis connection details. An empty Address disables
// Redis entirely.
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// RateLimitConfig limits write requests per client IP.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests" validate:"min=0"`
	Window   time.Duration `koanf:"window"`
}

// WebConfig configures the server-rendered frontend.
type WebConfig struct {
	Port           string        `koanf:"port"`
	APIBaseURL     string        `koanf:"api_base_url" validate:"omitempty,url"`
	PageSize       int           `koanf:"page_size" validate:"min=0,max=100"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

func defaults() map[string]interface{} {
	obs := DefaultObservabilityConfig()

	return map[string]interface{}{
		"primary.env": "local",

		"server.port":                 "8080",
		"server.read_timeout":         30,
		"server.write_timeout":        30,
		"server.idle_timeout":         60,
		"server.cors_allowed_origins": []string{"http://localhost:3000"},

		"database.driver":                      DriverMongo,
		"database.mongo.uri":                   "mongodb://localhost:27017",
		"database.mongo.name":                  "superheroes",
		"database.mongo.connect_timeout":       10 * time.Second,
		"database.mongo.max_pool_size":         50,
		"database.postgres.host":               "localhost",
		"database.postgres.port":               5432,
		"database.postgres.user":               "postgres",
		"database.postgres.name":               "superheroes",
		"database.postgres.ssl_mode":           "disable",
		"database.postgres.max_open_conns":     25,
		"database.postgres.max_idle_conns":     5,
		"database.postgres.conn_max_lifetime":  300,
		"database.postgres.conn_max_idle_time": 60,

		"rate_limit.enabled":  true,
		"rate_limit.requests": 60,
		"rate_limit.window":   time.Minute,

		"web.port":            "3000",
		"web.api_base_url":    "http://localhost:8080/api/v1",
		"web.page_size":       5,
		"web.request_timeout": 10 * time.Second,

		"observability.logging.level":                         obs.Logging.Level,
		"observability.logging.format":                        obs.Logging.Format,
		"observability.logging.slow_query_threshold":          obs.Logging.SlowQueryThreshold,
		"observability.new_relic.app_log_forwarding_enabled":  obs.NewRelic.AppLogForwardingEnabled,
		"observability.new_relic.distributed_tracing_enabled": obs.NewRelic.DistributedTracingEnabled,
		"observability.new_relic.debug_logging":               obs.NewRelic.DebugLogging,
		"observability.health_checks.enabled":                 obs.HealthChecks.Enabled,
		"observability.health_checks.timeout":                 obs.HealthChecks.Timeout,
		"observability.health_checks.checks":                  obs.HealthChecks.Checks,
	}
}

// envKey maps SUPERHERO_DATABASE__MONGO__URI to database.mongo.uri.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// envValue splits comma separated values so list settings such as
// cors_allowed_origins can be given in a single variable.
func envValue(key, value string) (string, interface{}) {
	k := envKey(key)
	if strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return k, out
	}
	return k, value
}

// LoadConfig builds the configuration from defaults and the environment.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load default config: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Validate runs tag validation and the cross-field rules of each block.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate_limit requests and window must be positive when enabled")
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}
	return nil
}

// Validate checks that the settings of the selected driver are present.
func (d *DatabaseConfig) Validate() error {
	switch d.Driver {
	case DriverMongo:
		if d.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required")
		}
		if d.Mongo.Name == "" {
			return fmt.Errorf("mongo.name is required")
		}
	case DriverPostgres:
		p := d.Postgres
		if p.Host == "" || p.Port == 0 || p.User == "" || p.Name == "" {
			return fmt.Errorf("postgres host, port, user and name are required")
		}
		if p.SSLMode == "" {
			return fmt.Errorf("postgres.ssl_mode is required")
		}
	default:
		return fmt.Errorf("unsupported driver %q", d.Driver)
	}
	return nil
}

// IsLocal reports whether the app runs in the local development environment.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}
