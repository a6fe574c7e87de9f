package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigermood/moodcorner/pkg/logging"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, "debug")

	e := echo.New()
	e.Use(RequestLogger(log))
	e.GET("/posts/:id", func(c echo.Context) error {
		assert.NotNil(t, logging.FromContext(c.Request().Context()))
		c.Set("user_id", "u1")
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	})

	req := httptest.NewRequest(http.MethodGet, "/posts/42", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "request_completed", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "/posts/:id", line["route"])
	assert.Equal(t, "/posts/42", line["path"])
	assert.Equal(t, "rid-1", line["request_id"])
	assert.Equal(t, "u1", line["user_id"])
	assert.EqualValues(t, http.StatusNotFound, line["status"])
}
