package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tigermood/moodcorner/internal/moodapi/service"
	mw "github.com/tigermood/moodcorner/pkg/middleware/auth"
	dto "github.com/tigermood/moodcorner/pkg/models"
	"github.com/tigermood/moodcorner/pkg/pagination"
)

func pageParams(c echo.Context) (int, int) {
	return pagination.ParseIntDefault(c.QueryParam("page"), pagination.DefaultPage),
		pagination.ParseIntDefault(c.QueryParam("limit"), pagination.DefaultLimit)
}

type PostHTTP struct {
	Svc *service.PostService
}

func (h *PostHTTP) List(c echo.Context) error {
	page, limit := pageParams(c)
	res, err := h.Svc.List(c.Request().Context(), page, limit)
	if err != nil {
		return fail(c, "list_posts_failed", err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *PostHTTP) Get(c echo.Context) error {
	res, err := h.Svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, "get_post_failed", err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *PostHTTP) Create(c echo.Context) error {
	var req dto.CreatePostRequest
	if err := bind(c, "create_post_error", &req); err != nil {
		return err
	}
	res, err := h.Svc.Create(c.Request().Context(), mw.UserID(c), req)
	if err != nil {
		return fail(c, "create_post_failed", err)
	}
	return ok(c, http.StatusCreated, res)
}

func (h *PostHTTP) Like(c echo.Context) error {
	res, err := h.Svc.Like(c.Request().Context(), mw.UserID(c), c.Param("id"))
	if err != nil {
		return fail(c, "like_failed", err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *PostHTTP) Unlike(c echo.Context) error {
	res, err := h.Svc.Unlike(c.Request().Context(), mw.UserID(c), c.Param("id"))
	if err != nil {
		return fail(c, "unlike_failed", err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *PostHTTP) Share(c echo.Context) error {
	res, err := h.Svc.Share(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, "share_failed", err)
	}
	return ok(c, http.StatusOK, res)
}

type RewardHTTP struct {
	Svc *service.RewardService
}

func (h *RewardHTTP) List(c echo.Context) error {
	page, limit := pageParams(c)
	res, err := h.Svc.List(c.Request().Context(), mw.UserID(c), page, limit)
	if err != nil {
		return fail(c, "list_rewards_failed", err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *RewardHTTP) Redeem(c echo.Context) error {
	var req dto.CreateRedeemRequest
	if err := bind(c, "redeem_error", &req); err != nil {
		return err
	}
	res, err := h.Svc.Redeem(c.Request().Context(), mw.UserID(c), req)
	if err != nil {
		return fail(c, "redeem_failed", err)
	}
	return ok(c, http.StatusCreated, res)
}

func (h *RewardHTTP) History(c echo.Context) error {
	res, err := h.Svc.History(c.Request().Context(), mw.UserID(c))
	if err != nil {
		return fail(c, "redeem_history_failed", err)
	}
	return ok(c, http.StatusOK, res)
}

type WishHTTP struct {
	Svc *service.WishService
}

func (h *WishHTTP) Create(c echo.Context) error {
	var req dto.CreateWishRequest
	if err := bind(c, "create_wish_error", &req); err != nil {
		return err
	}
	res, err := h.Svc.Create(c.Request().Context(), mw.UserID(c), req)
	if err != nil {
		return fail(c, "create_wish_failed", err)
	}
	return ok(c, http.StatusCreated, res)
}

func (h *WishHTTP) List(c echo.Context) error {
	page, limit := pageParams(c)
	res, err := h.Svc.List(c.Request().Context(), page, limit)
	if err != nil {
		return fail(c, "list_wishes_failed", err)
	}
	return ok(c, http.StatusOK, res)
}
