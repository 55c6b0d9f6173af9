// Package dberr turns datastore driver errors into errs.HTTPError values.
//
// Postgres errors are classified by SQLSTATE; MongoDB errors by the driver's
// write exception codes. Anything unrecognised becomes a generic 500 so
// driver messages never reach clients.
package dberr
