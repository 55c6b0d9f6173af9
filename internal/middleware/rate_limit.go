package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/superhero-catalog/internal/errs"
	"github.com/deppfellow/superhero-catalog/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	rateLimitKeyPrefix = "superhero:ratelimit:"
	redisCallTimeout   = 500 * time.Millisecond
)

type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RecordRateLimitHit records a RateLimitHit custom event in New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}

// LimitWrites limits POST, PUT and DELETE requests per client IP. Reads are
// never limited. The counter lives in Redis when a client is configured and
// in process memory otherwise.
func (r *RateLimitMiddleware) LimitWrites() echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit
	if !cfg.Enabled || cfg.Requests <= 0 || cfg.Window <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	var store middleware.RateLimiterStore
	if r.server.Redis != nil {
		store = NewRedisRateLimiterStore(r.server.Redis, cfg.Requests, cfg.Window, r.server.Logger)
	} else {
		store = middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
			Burst:     cfg.Requests,
			ExpiresIn: 3 * cfg.Window,
		})
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			switch c.Request().Method {
			case http.MethodPost, http.MethodPut, http.MethodDelete:
				return false
			}
			return true
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewForbiddenError("Unable to identify client", false)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().Str("identifier", identifier).Msg("rate limit exceeded")
			return errs.NewTooManyRequestsError("Too many requests, please try again later")
		},
	})
}

// RedisRateLimiterStore is a fixed window counter: INCR on every request,
// EXPIRE when the window opens. Redis failures allow the request.
type RedisRateLimiterStore struct {
	client   redis.Cmdable
	requests int
	window   time.Duration
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewRedisRateLimiterStore(client redis.Cmdable, requests int, window time.Duration, logger *zerolog.Logger) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		client:   client,
		requests: requests,
		window:   window,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *RedisRateLimiterStore) key(identifier string) string {
	bucket := s.now().UnixNano() / int64(s.window)
	return fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, identifier, bucket)
}

func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	key := s.key(identifier)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
		return true, err
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("failed to set rate limit window")
		}
	}

	return count <= int64(s.requests), nil
}
