package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tigermood/moodcorner/internal/moodapi/service"
	"github.com/tigermood/moodcorner/pkg/logging"
	dto "github.com/tigermood/moodcorner/pkg/models"
)

func ok[T any](c echo.Context, code int, data T) error {
	return c.JSON(code, dto.Envelope[T]{Success: true, Data: data})
}

func okMessage(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, dto.Envelope[any]{Success: true, Message: msg})
}

// fail maps a service error to an HTTP error and logs it under event.
func fail(c echo.Context, event string, err error) error {
	l := logging.FromContext(c.Request().Context())

	var ve *service.ValidationError
	code, msg := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.As(err, &ve):
		code, msg = http.StatusBadRequest, ve.Msg
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInsufficientPoints):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidRefreshToken):
		code, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrInvalidTransition):
		code, msg = http.StatusConflict, err.Error()
	}

	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "error", err)
	} else {
		l.Warn(event, "status", code, "reason", msg)
	}
	return echo.NewHTTPError(code, msg)
}

func bind(c echo.Context, event string, req any) error {
	if err := c.Bind(req); err != nil {
		logging.FromContext(c.Request().Context()).Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return nil
}

// ErrorHandler renders every error as a failed envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := http.StatusInternalServerError, "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = fmt.Sprint(m)
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, dto.Envelope[any]{Success: false, Message: msg})
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", err)
	}
}
