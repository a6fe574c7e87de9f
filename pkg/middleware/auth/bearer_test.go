package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigermood/moodcorner/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

func serve(t *testing.T, header string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error {
		return c.String(http.StatusOK, UserID(c))
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return rec, h(c)
}

func token(t *testing.T, role string, exp time.Time) string {
	t.Helper()

	tok, err := tokens.SignAccessToken("user-1", role, exp, secret)
	require.NoError(t, err)
	return tok
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	auth := NewBearerAuth(secret)
	valid := token(t, "user", time.Now().Add(time.Minute))
	expired := token(t, "user", time.Now().Add(-time.Minute))

	tests := []struct {
		name    string
		header  string
		code    int
		message string
	}{
		{name: "valid", header: "Bearer " + valid, code: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + valid, code: http.StatusOK},
		{name: "missing", header: "", code: http.StatusUnauthorized, message: "missing access token"},
		{name: "wrong scheme", header: "Basic abc", code: http.StatusUnauthorized, message: "missing access token"},
		{name: "expired", header: "Bearer " + expired, code: http.StatusUnauthorized, message: "access token expired"},
		{name: "garbage", header: "Bearer not-a-jwt", code: http.StatusUnauthorized, message: "invalid access token"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, err := serve(t, tt.header, auth.RequireAuth)
			if tt.code == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, "user-1", rec.Body.String())
				return
			}
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, tt.code, he.Code)
			assert.Equal(t, tt.message, he.Message)
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	auth := NewBearerAuth(secret)

	_, err := serve(t, "Bearer "+token(t, "user", time.Now().Add(time.Minute)), auth.RequireAuth, RequireRole("admin"))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)

	rec, err := serve(t, "Bearer "+token(t, "admin", time.Now().Add(time.Minute)), auth.RequireAuth, RequireRole("admin"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
