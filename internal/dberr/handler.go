package dberr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/superhero-catalog/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of err, or Other when err is not an *Error.
func ErrCode(err error) Code {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return Other
}

// ConvertPgError classifies a Postgres server error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// "E11000 duplicate key error collection: catalog.superheroes index: nickname_1 dup key: ..."
var mongoDupKeyRe = regexp.MustCompile(`collection: [^.\s]+\.(\S+) index: (\S+)`)

// ConvertMongoError classifies a MongoDB error. It returns nil for errors
// that are not server-side write or command failures.
func ConvertMongoError(src error) *Error {
	switch {
	case mongo.IsDuplicateKeyError(src):
		e := &Error{
			Code:         UniqueViolation,
			Severity:     SeverityError,
			DatabaseCode: "11000",
			Message:      src.Error(),
			driverErr:    src,
		}
		if m := mongoDupKeyRe.FindStringSubmatch(src.Error()); len(m) == 3 {
			e.TableName = m[1]
			e.ConstraintName = m[2]
		}
		return e
	case mongo.IsNetworkError(src):
		return &Error{
			Code:         ConnectionFailure,
			Severity:     SeverityFatal,
			DatabaseCode: "network",
			Message:      src.Error(),
			driverErr:    src,
		}
	}

	var cmdErr mongo.CommandError
	if errors.As(src, &cmdErr) {
		return &Error{
			Code:         Other,
			Severity:     SeverityError,
			DatabaseCode: fmt.Sprintf("%d", cmdErr.Code),
			Message:      cmdErr.Message,
			driverErr:    src,
		}
	}

	return nil
}

// generateErrorCode builds codes like SUPERHERO_ALREADY_EXISTS.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "OES") {
		domain = domain[:len(domain)-2]
	} else if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidText:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(dbErr *Error) string {
	entityName := getEntityName(dbErr.TableName, dbErr.ColumnName)

	switch dbErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)
	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entityName)
	case NotNullViolation:
		fieldName := humanizeText(dbErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)
	case CheckViolation:
		if fieldName := humanizeText(dbErr.ColumnName); fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"
	case InvalidText:
		return "One or more values have an invalid format"
	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers a foreign key column ("hero_id" -> "Hero"), then the
// singular table or collection name.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		entity := tableName
		switch {
		case strings.HasSuffix(entity, "oes"):
			entity = entity[:len(entity)-2]
		case strings.HasSuffix(entity, "s") && len(entity) > 1:
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var uniqueKeyRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation infers the column from a unique constraint
// or index name: "unique_superheroes_nickname", "superheroes_nickname_key"
// or the MongoDB form "nickname_1".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := uniqueKeyRe.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	if strings.HasSuffix(constraintName, "_1") || strings.HasSuffix(constraintName, "_-1") {
		return strings.Split(constraintName, "_")[0]
	}

	return ""
}

func httpErrorFor(dbErr *Error) error {
	errorCode := generateErrorCode(dbErr.TableName, dbErr.Code)
	userMessage := formatUserFriendlyMessage(dbErr)

	switch dbErr.Code {
	case ForeignKeyViolation:
		return errs.NewBadRequestError(userMessage, false, &errorCode, nil, nil)

	case UniqueViolation:
		if columnName := extractColumnForUniqueViolation(dbErr.ConstraintName); columnName != "" {
			userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
		}
		return errs.NewConflictError(userMessage, true, &errorCode)

	case NotNullViolation:
		fieldErrors := []errs.FieldError{
			{
				Field: strings.ToLower(dbErr.ColumnName),
				Error: "is required",
			},
		}
		return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)

	case CheckViolation, InvalidText:
		return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

	default:
		return errs.NewInternalServerError()
	}
}

// HandleError converts a datastore error into an application error.
// *errs.HTTPError values pass through unchanged.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var dbErr *Error
	if errors.As(err, &dbErr) {
		return httpErrorFor(dbErr)
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return httpErrorFor(ConvertPgError(pgerr))
	}

	if mongoErr := ConvertMongoError(err); mongoErr != nil {
		return httpErrorFor(mongoErr)
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows), errors.Is(err, mongo.ErrNoDocuments):
		// Repositories may annotate the error with "table:<name>:".
		errMsg := err.Error()
		tablePrefix := "table:"
		if strings.Contains(errMsg, tablePrefix) {
			table := strings.Split(strings.Split(errMsg, tablePrefix)[1], ":")[0]
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", getEntityName(table, "")), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
