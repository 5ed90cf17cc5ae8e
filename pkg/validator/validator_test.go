package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leadForm struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Message string `validate:"max=20"`
}

func TestValidate_Success(t *testing.T) {
	s := leadForm{Name: "Alice", Email: "alice@example.com", Message: "hello"}
	err := Validate(s)
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	s := leadForm{Email: "alice@example.com"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Name")
	assert.Equal(t, "is required", fields["Name"])
}

func TestValidate_InvalidEmail(t *testing.T) {
	s := leadForm{Name: "Alice", Email: "not-an-email"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Email")
	assert.Equal(t, "must be a valid email address", fields["Email"])
}

func TestValidate_MaxLength(t *testing.T) {
	s := leadForm{Name: "Alice", Email: "alice@example.com", Message: strings.Repeat("x", 21)}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Message")
	assert.Contains(t, fields["Message"], "20")
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := Validate(leadForm{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Name")
	assert.Contains(t, fields, "Email")
	assert.Contains(t, err.Error(), "Name")
	assert.Contains(t, err.Error(), "Email")
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"Name":"Alice","Email":"alice@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))

	var form leadForm
	err := DecodeAndValidate(req, &form)

	require.NoError(t, err)
	assert.Equal(t, "Alice", form.Name)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("{not json"))

	var form leadForm
	err := DecodeAndValidate(req, &form)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_FailsValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{"Name":"Alice"}`))

	var form leadForm
	err := DecodeAndValidate(req, &form)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "Email")
}
