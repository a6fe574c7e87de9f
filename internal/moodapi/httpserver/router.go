package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	mw "github.com/tigermood/moodcorner/pkg/middleware/auth"
	dto "github.com/tigermood/moodcorner/pkg/models"
)

type Deps struct {
	Auth      *AuthHTTP
	Posts     *PostHTTP
	Rewards   *RewardHTTP
	Wishes    *WishHTTP
	Admin     *AdminHTTP
	JWTSecret []byte
	DB        *gorm.DB
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	authMw := mw.NewBearerAuth(d.JWTSecret)

	e.POST("/auth/register", d.Auth.Register)
	e.POST("/auth/login", d.Auth.Login)
	e.POST("/auth/refresh", d.Auth.Refresh)
	e.POST("/auth/logout", d.Auth.LogOut)

	private := e.Group("")
	private.Use(authMw.RequireAuth)

	private.GET("/auth/me", d.Auth.Me)
	private.PUT("/auth/password", d.Auth.ChangePassword)
	private.PUT("/users/me", d.Auth.UpdateProfile)

	private.GET("/posts", d.Posts.List)
	private.POST("/posts", d.Posts.Create)
	private.GET("/posts/:id", d.Posts.Get)
	private.POST("/posts/:id/like", d.Posts.Like)
	private.DELETE("/posts/:id/like", d.Posts.Unlike)
	private.POST("/posts/:id/share", d.Posts.Share)

	private.GET("/rewards", d.Rewards.List)
	private.POST("/rewards/redeem", d.Rewards.Redeem)
	private.GET("/rewards/history", d.Rewards.History)

	private.GET("/wishes", d.Wishes.List)
	private.POST("/wishes", d.Wishes.Create)

	admin := private.Group("/admin", mw.RequireRole(dto.RoleAdmin))
	admin.GET("/stats", d.Admin.Stats)
	admin.GET("/redeem-logs", d.Admin.RedeemLogs)
	admin.PUT("/redeem-logs/:id/status", d.Admin.UpdateRedeemStatus)
	admin.POST("/posts/:id/pin", d.Admin.PinPost)
	admin.POST("/posts/:id/highlight", d.Admin.HighlightPost)
	admin.DELETE("/posts/:id", d.Admin.DeletePost)
}

func (d *Deps) ready(c echo.Context) error {
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
	}
	return c.NoContent(http.StatusOK)
}
