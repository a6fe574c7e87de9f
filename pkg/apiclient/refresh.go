package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tigermood/moodcorner/pkg/models"
)

const refreshFlightKey = "refresh"

// refreshAccess returns an access token to replay a request that failed with
// stale. Concurrent callers share one refresh call.
func (c *Client) refreshAccess(ctx context.Context, stale string) (string, error) {
	ch := c.flight.DoChan(refreshFlightKey, func() (any, error) {
		// Detached from the first caller so its cancellation does not fail
		// everyone waiting on the same flight.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.rotate(fctx, stale)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Client) rotate(ctx context.Context, stale string) (string, error) {
	pair, err := c.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load tokens: %w", err)
	}

	// Someone replaced the token after this request was sent.
	if pair.AccessToken != "" && pair.AccessToken != stale {
		return pair.AccessToken, nil
	}

	if pair.RefreshToken == "" {
		c.clearSession(ctx)
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, ErrNoRefreshToken)
	}

	fresh, err := c.RefreshTokens(ctx, pair.RefreshToken)
	if err != nil {
		c.log.Warn("refresh_failed", "error", err)
		c.clearSession(ctx)
		return "", fmt.Errorf("%w: refresh failed: %w", ErrUnauthorized, err)
	}

	if err := c.store.Save(ctx, *fresh); err != nil {
		return "", fmt.Errorf("save tokens: %w", err)
	}
	c.log.Info("tokens_refreshed", "rotated", fresh.RefreshToken != "")
	return fresh.AccessToken, nil
}

// RefreshTokens exchanges refreshToken for a new pair. It bypasses the auth
// interceptors and does not touch the store.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	req, err := c.newRequest(ctx, http.MethodPost, c.refreshPath, models.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	status, raw, err := send(c.raw, req)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope[models.TokenPair](status, raw)
	if err != nil {
		return nil, err
	}
	if env.Data.AccessToken == "" {
		return nil, errors.New("refresh response has no access token")
	}
	return &env.Data, nil
}
