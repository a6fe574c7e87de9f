// Package tokenstore persists the client session: an access token and a
// refresh token under fixed key names.
package tokenstore

import (
	"context"

	"github.com/tigermood/moodcorner/pkg/models"
)

const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// Store is the session storage used by the API client. Missing keys load as
// empty strings. Save with an empty RefreshToken keeps the stored one.
type Store interface {
	Load(ctx context.Context) (models.TokenPair, error)
	Save(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
}
