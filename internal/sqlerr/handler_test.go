package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	err := fmt.Errorf("creating user: %w", &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		Message:        "duplicate key value violates unique constraint",
		TableName:      "users",
		ConstraintName: "users_email_key",
	})

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "USER_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A User with this email already exists", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23502", TableName: "events", ColumnName: "title"}

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, "EVENT_REQUIRED", httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "title", httpErr.Errors[0].Field)
}

func TestHandleErrorForeignKeyViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23503", TableName: "events", ColumnName: "created_by_id"}

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, "EVENT_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced Created By does not exist", httpErr.Message)
}

func TestHandleErrorNoRows(t *testing.T) {
	tagged := HandleError(WithTable("announcements", pgx.ErrNoRows))
	httpErr := asHTTPError(t, tagged)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Announcement not found", httpErr.Message)

	plain := asHTTPError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, "Resource not found", plain.Message)
}

func TestHandleErrorPassesHTTPErrorsThrough(t *testing.T) {
	original := errs.NewForbiddenError("nope", true)
	assert.Same(t, original, HandleError(original))
}

func TestHandleErrorUnknownIsInternal(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestIsNotFoundSurvivesWrapping(t *testing.T) {
	assert.True(t, IsNotFound(WithTable("events", pgx.ErrNoRows)))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.Nil(t, WithTable("events", nil))
}

func TestMapCodeAndErrCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, Other, MapCode("XX000"))
	assert.Equal(t, CheckViolation, ErrCode(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23514"})))
	assert.Equal(t, NotNullViolation, ErrCode(ConvertPgError(&pgconn.PgError{Code: "23502"})))
	assert.Equal(t, Other, ErrCode(errors.New("x")))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "username", extractColumnForUniqueViolation("unique_users_username"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("users_email_key"))
	assert.Equal(t, "", extractColumnForUniqueViolation("pk"))
}
