// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives validated
// input from handlers, enforces domain rules such as ID format and
// pagination bounds, and calls the repositories.
package service
