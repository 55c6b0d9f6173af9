// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as request
// IDs, request logging, tracing, CORS, rate limiting and panic recovery.
package middleware
