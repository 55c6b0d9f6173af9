// Package model holds the domain types shared by the repository, service and
// handler layers, and the JSON shapes the API returns.
package model
