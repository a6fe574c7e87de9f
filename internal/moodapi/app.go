// Package moodapi assembles the development backend: storage, services,
// event publishing and the echo router.
package moodapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/tigermood/moodcorner/internal/moodapi/events"
	"github.com/tigermood/moodcorner/internal/moodapi/httpserver"
	"github.com/tigermood/moodcorner/internal/moodapi/models"
	"github.com/tigermood/moodcorner/internal/moodapi/repo"
	"github.com/tigermood/moodcorner/internal/moodapi/service"
	loggingmw "github.com/tigermood/moodcorner/pkg/middleware/logging"
)

type Options struct {
	DB            *gorm.DB
	Events        events.Publisher
	Logger        *slog.Logger
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	AdminEmail    string
	AdminPassword string
	CORSOrigins   []string
	Catalog       []models.Reward
}

func commonMiddleware(o Options) []echo.MiddlewareFunc {
	mws := []echo.MiddlewareFunc{
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Secure(),
	}
	if len(o.CORSOrigins) > 0 {
		mws = append(mws, middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: o.CORSOrigins,
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		}))
	}
	return append(mws, loggingmw.RequestLogger(o.Logger))
}

// New migrates the schema, seeds the admin account and the reward catalog,
// and returns a ready router.
func New(ctx context.Context, o Options) (*echo.Echo, error) {
	if len(o.AccessSecret) == 0 || len(o.RefreshSecret) == 0 {
		return nil, fmt.Errorf("jwt secrets are required")
	}
	if o.Events == nil {
		o.Events = events.Nop{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Catalog == nil {
		o.Catalog = service.DefaultCatalog
	}

	r := repo.New(o.DB)
	if err := r.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	authSvc := &service.AuthService{
		Repo:          r,
		AccessSecret:  o.AccessSecret,
		RefreshSecret: o.RefreshSecret,
		AccessTTL:     o.AccessTTL,
		RefreshTTL:    o.RefreshTTL,
	}
	postSvc := &service.PostService{Repo: r, Events: o.Events}
	rewardSvc := &service.RewardService{Repo: r, Events: o.Events}
	wishSvc := &service.WishService{Repo: r, Events: o.Events}

	if o.AdminEmail != "" && o.AdminPassword != "" {
		if err := authSvc.EnsureAdmin(ctx, o.AdminEmail, o.AdminPassword); err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}
	created, err := rewardSvc.SeedCatalog(ctx, o.Catalog)
	if err != nil {
		return nil, fmt.Errorf("seed rewards: %w", err)
	}
	if created > 0 {
		o.Logger.Info("rewards_seeded", "count", created)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Use(commonMiddleware(o)...)

	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc},
		Posts:     &httpserver.PostHTTP{Svc: postSvc},
		Rewards:   &httpserver.RewardHTTP{Svc: rewardSvc},
		Wishes:    &httpserver.WishHTTP{Svc: wishSvc},
		Admin:     &httpserver.AdminHTTP{Posts: postSvc, Rewards: rewardSvc},
		JWTSecret: o.AccessSecret,
		DB:        o.DB,
	})
	return e, nil
}
