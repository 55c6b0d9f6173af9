package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/superhero-catalog/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payloads that validate themselves,
// usually by calling Struct and adding rules tags cannot express.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a single failure that has no validator tag.
type CustomValidationError struct {
	Field   string
	Message string
}

type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds path params, query params and body into payload,
// then validates it. Failures are returned as 400 *errs.HTTPError.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func bindErrorMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return msg
		}
		return http.StatusText(echoErr.Code)
	}
	return "Invalid request"
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, e := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: e.Field, Error: e.Message})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Field: "body", Error: err.Error()}}
	}

	for _, err := range validationErrors {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fieldPath(err),
			Error: tagMessage(err),
		})
	}

	return "Validation failed", fieldErrors
}

// fieldPath drops the top-level struct name: "CreateSuperheroRequest.images[0]"
// becomes "images[0]".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return err.Field()
}

func tagMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "notblank":
		return "is required"

	case "min":
		switch err.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", err.Param())
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("must contain at least %s items", err.Param())
		default:
			return fmt.Sprintf("must be at least %s", err.Param())
		}

	case "max":
		switch err.Kind() {
		case reflect.String:
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("must not contain more than %s items", err.Param())
		default:
			return fmt.Sprintf("must not exceed %s", err.Param())
		}

	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	case "url", "http_url":
		return "must be a valid http(s) URL"

	case "mongodb":
		return "must be a valid ObjectID"

	default:
		if err.Param() != "" {
			return fmt.Sprintf("failed %s:%s", err.Tag(), err.Param())
		}
		return fmt.Sprintf("failed %s", err.Tag())
	}
}
