package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tigermood/moodcorner/internal/moodapi/service"
	"github.com/tigermood/moodcorner/pkg/logging"
	mw "github.com/tigermood/moodcorner/pkg/middleware/auth"
	dto "github.com/tigermood/moodcorner/pkg/models"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bind(c, "register_error", &req); err != nil {
		return err
	}
	res, err := h.Svc.Register(c.Request().Context(), req)
	if err != nil {
		return fail(c, "register_error", err)
	}
	return ok(c, http.StatusCreated, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bind(c, "login_error", &req); err != nil {
		return err
	}
	res, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, "login_failed", err)
	}
	logging.FromContext(c.Request().Context()).Info("login_successful", "user_id", res.User.ID)
	return ok(c, http.StatusOK, res)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	var req dto.RefreshRequest
	if err := bind(c, "refresh_error", &req); err != nil {
		return err
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}
	pair, err := h.Svc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return fail(c, "refresh_failed", err)
	}
	return ok(c, http.StatusOK, pair)
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	var req dto.LogoutRequest
	if err := bind(c, "logout_error", &req); err != nil {
		return err
	}
	if err := h.Svc.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return fail(c, "logout_failed", err)
	}
	logging.FromContext(c.Request().Context()).Info("successful_logout")
	return okMessage(c, "logged out")
}

func (h *AuthHTTP) Me(c echo.Context) error {
	u, err := h.Svc.Me(c.Request().Context(), mw.UserID(c))
	if err != nil {
		return fail(c, "me_failed", err)
	}
	return ok(c, http.StatusOK, u)
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	var req dto.ChangePasswordRequest
	if err := bind(c, "change_password_error", &req); err != nil {
		return err
	}
	if err := h.Svc.ChangePassword(c.Request().Context(), mw.UserID(c), req); err != nil {
		return fail(c, "change_password_failed", err)
	}
	return okMessage(c, "password changed")
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	var req dto.UpdateProfileRequest
	if err := bind(c, "update_profile_error", &req); err != nil {
		return err
	}
	u, err := h.Svc.UpdateProfile(c.Request().Context(), mw.UserID(c), req)
	if err != nil {
		return fail(c, "update_profile_failed", err)
	}
	return ok(c, http.StatusOK, u)
}
