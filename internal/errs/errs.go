// Package errs defines the error shapes returned to API clients.
//
// Every failure leaving the HTTP layer is rendered as an HTTPError so the
// frontend can rely on one JSON envelope, including per-field validation
// errors for forms.
package errs
