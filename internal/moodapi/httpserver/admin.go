package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tigermood/moodcorner/internal/moodapi/service"
	"github.com/tigermood/moodcorner/pkg/logging"
	dto "github.com/tigermood/moodcorner/pkg/models"
)

type AdminHTTP struct {
	Posts   *service.PostService
	Rewards *service.RewardService
}

func (h *AdminHTTP) Stats(c echo.Context) error {
	res, err := h.Rewards.Stats(c.Request().Context())
	if err != nil {
		return fail(c, "admin_stats_failed", err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *AdminHTTP) RedeemLogs(c echo.Context) error {
	page, limit := pageParams(c)
	res, err := h.Rewards.Logs(c.Request().Context(), page, limit, c.QueryParam("status"))
	if err != nil {
		return fail(c, "redeem_logs_failed", err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *AdminHTTP) UpdateRedeemStatus(c echo.Context) error {
	var req dto.UpdateRedeemStatusRequest
	if err := bind(c, "update_redeem_status_error", &req); err != nil {
		return err
	}
	res, err := h.Rewards.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return fail(c, "update_redeem_status_failed", err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *AdminHTTP) PinPost(c echo.Context) error {
	res, err := h.Posts.TogglePin(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, "pin_post_failed", err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *AdminHTTP) HighlightPost(c echo.Context) error {
	res, err := h.Posts.ToggleHighlight(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, "highlight_post_failed", err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *AdminHTTP) DeletePost(c echo.Context) error {
	id := c.Param("id")
	if err := h.Posts.Delete(c.Request().Context(), id); err != nil {
		return fail(c, "delete_post_failed", err)
	}
	logging.FromContext(c.Request().Context()).Info("post_deleted", "post_id", id)
	return okMessage(c, "post deleted")
}
