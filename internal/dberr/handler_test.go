package dberr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/superhero-catalog/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewBadRequestError("Invalid ID format", true, nil, nil, nil)
	assert.Same(t, original, HandleError(original))
}

func TestHandleErrorPgUniqueViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		Message:        "duplicate key value violates unique constraint",
		TableName:      "superheroes",
		ConstraintName: "superheroes_nickname_key",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "SUPERHERO_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Superhero with this Nickname already exists", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorPgNotNullViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		TableName:  "superheroes",
		ColumnName: "real_name",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "SUPERHERO_REQUIRED", httpErr.Code)
	assert.Equal(t, "The Real Name is required", httpErr.Message)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "real_name", httpErr.Errors[0].Field)
}

func TestHandleErrorPgUnknownCodeIsInternal(t *testing.T) {
	err := HandleError(&pgconn.PgError{Code: "XX000", Severity: "ERROR", Message: "internal detail"})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.NotContains(t, httpErr.Message, "internal detail")
}

func TestHandleErrorMongoDuplicateKey(t *testing.T) {
	writeErr := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{
			Code:    11000,
			Message: `E11000 duplicate key error collection: catalog.superheroes index: nickname_1 dup key: { nickname: "Superman" }`,
		}},
	}

	httpErr := asHTTPError(t, HandleError(writeErr))
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "SUPERHERO_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Superhero with this Nickname already exists", httpErr.Message)
}

func TestHandleErrorNoDocuments(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(mongo.ErrNoDocuments))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)

	annotated := fmt.Errorf("table:superheroes: %w", pgx.ErrNoRows)
	httpErr = asHTTPError(t, HandleError(annotated))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Superhero not found", httpErr.Message)
}

func TestHandleErrorUnknownIsInternal(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23503"})
	assert.Equal(t, ForeignKeyViolation, ErrCode(fmt.Errorf("wrapped: %w", converted)))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("something else"))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "nickname", extractColumnForUniqueViolation("unique_superheroes_nickname"))
	assert.Equal(t, "nickname", extractColumnForUniqueViolation("superheroes_nickname_key"))
	assert.Equal(t, "nickname", extractColumnForUniqueViolation("nickname_1"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}
