// Package logger configures zerolog and the optional New Relic agent.
//
// In production with JSON output, log lines are forwarded through the New
// Relic zerolog writer so they are linked to APM traces.
package logger
