package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConstructorsCarryStatusAndType(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantType   ErrorType
		wantStatus int
	}{
		{"validation", NewValidationError("bad input"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("user"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("taken"), ErrorTypeConflict, http.StatusConflict},
		{"unauthorized", NewUnauthorizedError("nope"), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{"database", NewDatabaseError("create", errors.New("conn reset")), ErrorTypeDatabase, http.StatusInternalServerError},
		{"unavailable", NewUnavailableError("database"), ErrorTypeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
		})
	}
}

func TestNotFoundMessageNamesResource(t *testing.T) {
	assert.Equal(t, "user not found", NewNotFoundError("user").Message)
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("conn reset")
	err := NewDatabaseError("create", cause)

	assert.Contains(t, err.Error(), "DATABASE")
	assert.Contains(t, err.Error(), "conn reset")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewNotFoundError("user"))

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.True(t, IsAppError(wrapped))

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeNotFound, appErr.Type)
}

func TestPredicatesOnPlainError(t *testing.T) {
	err := errors.New("plain")

	assert.False(t, IsAppError(err))
	assert.Nil(t, GetAppError(err))
	assert.False(t, IsNotFound(err))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))

	wrapped := Wrap(NewConflictError("taken"), "creating user")
	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeConflict, appErr.Type)
	assert.Equal(t, "creating user: taken", appErr.Message)

	internal := Wrap(errors.New("disk full"), "saving")
	appErr = GetAppError(internal)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeInternal, appErr.Type)
}

func respondBody(t *testing.T, h *Handler, err error) (int, map[string]interface{}) {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/api/users/1", nil)
	w := httptest.NewRecorder()
	h.Respond(w, r, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandlerRespond_ClientErrorKeepsMessage(t *testing.T) {
	h := NewHandler(zap.NewNop(), false)

	code, body := respondBody(t, h, NewValidationError("name is required"))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "name is required", body["error"])
}

func TestHandlerRespond_ServerErrorIsGeneric(t *testing.T) {
	h := NewHandler(zap.NewNop(), false)

	code, body := respondBody(t, h, NewDatabaseError("create", errors.New("password=hunter2 dsn leaked")))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", body["error"])
}

func TestHandlerRespond_DebugEchoesServerError(t *testing.T) {
	h := NewHandler(zap.NewNop(), true)

	code, body := respondBody(t, h, NewDatabaseError("create", errors.New("conn reset")))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body["error"], "database operation")
}

func TestHandlerRespond_UnknownErrorIsGeneric(t *testing.T) {
	h := NewHandler(zap.NewNop(), false)

	code, body := respondBody(t, h, errors.New("something leaked"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", body["error"])
}
