package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/superhero-catalog/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name   string   `json:"name" validate:"required,notblank,max=5"`
	Links  []string `json:"links" validate:"omitempty,dive,http_url"`
	Page   int      `query:"page" validate:"omitempty,min=1"`
	custom bool
}

func (p *samplePayload) Validate() error {
	if p.custom {
		return CustomValidationErrors{{Field: "name", Message: "is taken"}}
	}
	return Struct(p)
}

func bind(t *testing.T, method, target, body string, payload *samplePayload) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	return BindAndValidate(c, payload)
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	out := map[string]string{}
	for _, f := range httpErr.Errors {
		out[f.Field] = f.Error
	}
	return out
}

func TestBindAndValidateSuccess(t *testing.T) {
	var p samplePayload
	require.NoError(t, bind(t, http.MethodGet, "/?page=2", `{"name":"Bat","links":["https://example.com/a.png"]}`, &p))
	assert.Equal(t, "Bat", p.Name)
	assert.Equal(t, 2, p.Page)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	var p samplePayload
	err := bind(t, http.MethodPost, "/", `{"name":"   ","links":["ftp:/nope"]}`, &p)

	fields := fieldErrors(t, err)
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must be a valid http(s) URL", fields["links[0]"])
}

func TestBindAndValidateMax(t *testing.T) {
	var p samplePayload
	fields := fieldErrors(t, bind(t, http.MethodPost, "/", `{"name":"Superman"}`, &p))
	assert.Equal(t, "must not exceed 5 characters", fields["name"])
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	var p samplePayload
	err := bind(t, http.MethodPost, "/", `{"name":`, &p)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
	assert.NotEmpty(t, httpErr.Message)
}

func TestBindAndValidateQueryTypeMismatch(t *testing.T) {
	var p samplePayload
	err := bind(t, http.MethodGet, "/?page=abc", `{"name":"Bat"}`, &p)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestCustomValidationErrors(t *testing.T) {
	p := samplePayload{custom: true}
	fields := fieldErrors(t, bind(t, http.MethodPost, "/", `{"name":"Bat"}`, &p))
	assert.Equal(t, map[string]string{"name": "is taken"}, fields)
}
