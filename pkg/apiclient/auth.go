package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tigermood/moodcorner/pkg/models"
)

// Login authenticates and stores the issued token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	res, err := callPtr[models.AuthResult](withoutRefresh(ctx), c, http.MethodPost, "/auth/login",
		models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := c.saveSession(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Register creates the account and stores the issued token pair.
func (c *Client) Register(ctx context.Context, email, password, name string) (*models.AuthResult, error) {
	res, err := callPtr[models.AuthResult](withoutRefresh(ctx), c, http.MethodPost, "/auth/register",
		models.RegisterRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return nil, err
	}
	if err := c.saveSession(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) saveSession(ctx context.Context, res *models.AuthResult) error {
	err := c.store.Save(ctx, models.TokenPair{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
	if err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	return nil
}

func (c *Client) GetCurrentUser(ctx context.Context) (*models.User, error) {
	return callPtr[models.User](ctx, c, http.MethodGet, "/auth/me", nil)
}

// Logout tells the server to revoke the session and clears the stored
// tokens whatever the server answers. Only a store failure is returned.
func (c *Client) Logout(ctx context.Context) error {
	var body models.LogoutRequest
	if pair, err := c.store.Load(ctx); err == nil {
		body.RefreshToken = pair.RefreshToken
	}

	if _, err := call[json.RawMessage](withoutRefresh(ctx), c, http.MethodPost, "/auth/logout", body); err != nil {
		c.log.Warn("logout_request_failed", "error", err)
	}

	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

func (c *Client) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodPut, "/auth/password", req)
	return err
}

func (c *Client) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	return callPtr[models.User](ctx, c, http.MethodPut, "/users/me", req)
}
