package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigermood/moodcorner/internal/moodapi/service"
	dto "github.com/tigermood/moodcorner/pkg/models"
)

func TestFail_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{&service.ValidationError{Msg: "name is required"}, http.StatusBadRequest, "name is required"},
		{service.ErrInsufficientPoints, http.StatusBadRequest, "not enough points"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{service.ErrInvalidRefreshToken, http.StatusUnauthorized, "invalid refresh token"},
		{fmt.Errorf("load: %w", service.ErrNotFound), http.StatusNotFound, "not found"},
		{service.ErrConflict, http.StatusConflict, "already exists"},
		{service.ErrInvalidTransition, http.StatusConflict, "invalid status transition"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	for _, tt := range tests {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

		err := fail(c, "test_failed", tt.err)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, tt.code, he.Code, tt.err.Error())
		assert.Equal(t, tt.msg, he.Message)
	}
}

func TestErrorHandler_RendersEnvelope(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.GET("/boom", func(c echo.Context) error { return errors.New("boom") })
	e.GET("/conflict", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "already exists")
	})

	tests := []struct {
		path string
		code int
		msg  string
	}{
		{"/boom", http.StatusInternalServerError, "internal server error"},
		{"/conflict", http.StatusConflict, "already exists"},
		{"/missing", http.StatusNotFound, "Not Found"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

		assert.Equal(t, tt.code, rec.Code, tt.path)
		var env dto.Envelope[any]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.False(t, env.Success)
		assert.Equal(t, tt.msg, env.Message)
	}
}

func TestOK_WrapsData(t *testing.T) {
	t.Parallel()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, ok(c, http.StatusCreated, dto.Wish{ID: "w1", Content: "hi"}))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var env dto.Envelope[dto.Wish]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "w1", env.Data.ID)
}
