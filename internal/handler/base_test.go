package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/deppfellow/robotics-club/internal/lib/utils"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string `json:"name" validate:"required"`
	Shout *bool  `json:"shout"`
}

func (r *echoRequest) Validate() error {
	return validation.Struct(r)
}

func echoName(_ echo.Context, req *echoRequest) (*model.MessageResponse, error) {
	if req.Shout != nil && *req.Shout {
		return message(strings.ToUpper(req.Name)), nil
	}
	return message(req.Name), nil
}

func serve(h echo.HandlerFunc, body string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestHandleBindsFreshRequestEachCall(t *testing.T) {
	h := Handle(echoName, http.StatusOK)

	rec, err := serve(h, `{"name":"robo","shout":true}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"ROBO"}`, rec.Body.String())

	// shout from the first call must not carry over.
	rec, err = serve(h, `{"name":"bot"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"bot"}`, rec.Body.String())
}

func TestHandleRejectsInvalidRequest(t *testing.T) {
	_, err := serve(Handle(echoName, http.StatusOK), `{}`)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestFileOrPrefersUpload(t *testing.T) {
	field := "/uploads/old.jpg"

	assert.Equal(t, "/uploads/new.jpg", *fileOr("/uploads/new.jpg", &field))
	assert.Equal(t, &field, fileOr("", &field))
	assert.Nil(t, fileOr("", nil))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Empty(t, firstNonEmpty("", ""))
}

func TestJSONValue(t *testing.T) {
	assert.Nil(t, jsonValue[model.HomeStats](nil))

	stats := &utils.JSON[model.HomeStats]{Value: model.HomeStats{Members: 4}}
	assert.Equal(t, 4, jsonValue(stats).Members)
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name string
		req  validation.Validatable
		ok   bool
	}{
		{
			name: "login needs email or username",
			req:  &LoginRequest{Password: "secret123"},
		},
		{
			name: "login by username",
			req:  &LoginRequest{Username: "ada", Password: "secret123"},
			ok:   true,
		},
		{
			name: "new password must differ",
			req:  &ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "secret123"},
		},
		{
			name: "negative stats",
			req:  &UpdateHomeRequest{Stats: &utils.JSON[model.HomeStats]{Value: model.HomeStats{Members: -1}}},
		},
		{
			name: "theme colors must be hex",
			req:  &UpdateSettingsRequest{ThemeColors: &utils.JSON[model.ThemeColors]{Value: model.ThemeColors{Primary: "blue"}}},
		},
		{
			name: "valid theme colors",
			req:  &UpdateSettingsRequest{ThemeColors: &utils.JSON[model.ThemeColors]{Value: model.ThemeColors{Primary: "#00aaff"}}},
			ok:   true,
		},
		{
			name: "unknown role",
			req:  &UpdateRoleRequest{Role: "Root"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
