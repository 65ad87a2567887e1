package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,oneof=Admin Editor"`
	Tags     string `json:"tags" validate:"uuidList"`
}

func (r *signupRequest) Validate() error {
	return Struct(r)
}

type rangeRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r *rangeRequest) Validate() error {
	if r.To < r.From {
		return CustomValidationErrors{{Field: "to", Message: "must not be before from"}}
	}
	return nil
}

func newJSONContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	return httpErr
}

func TestBindAndValidateSuccess(t *testing.T) {
	req := &signupRequest{}
	err := BindAndValidate(newJSONContext(`{"username":"robo","email":"robo@club.dev"}`), req)

	require.NoError(t, err)
	assert.Equal(t, "robo", req.Username)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	err := BindAndValidate(newJSONContext(`{"username":"ab","email":"nope","role":"Root","tags":"x,y"}`), &signupRequest{})

	httpErr := requireHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)

	got := map[string]string{}
	for _, fe := range httpErr.Errors {
		got[fe.Field] = fe.Error
	}
	assert.Equal(t, "must be at least 3 characters", got["username"])
	assert.Equal(t, "must be a valid email address", got["email"])
	assert.Equal(t, "must be one of: Admin Editor", got["role"])
	assert.Equal(t, "must be a comma-separated list of valid UUIDs", got["tags"])
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	err := BindAndValidate(newJSONContext(`{"username":`), &signupRequest{})

	httpErr := requireHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	err := BindAndValidate(newJSONContext(`{"from":5,"to":1}`), &rangeRequest{})

	httpErr := requireHTTPError(t, err)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "to", httpErr.Errors[0].Field)
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("6f1c1f8e-3f0b-4f6e-9a43-8b5b6f9d2c11"))
	assert.False(t, IsValidUUID("not-a-uuid"))
}
