package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/tigermood/moodcorner/pkg/models"
	"github.com/tigermood/moodcorner/pkg/pagination"
)

// Admin endpoints. The server answers 403 for non-admin sessions, which
// surfaces as ErrValidation.

func (c *Client) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	return callPtr[models.AdminStats](ctx, c, http.MethodGet, "/admin/stats", nil)
}

// GetRedeemLogs lists redeem requests, optionally filtered by status.
func (c *Client) GetRedeemLogs(ctx context.Context, page, limit int, status string) (*models.Page[models.RedeemRequest], error) {
	path := "/admin/redeem-logs?" + pagination.Query(page, limit)
	if status != "" {
		path += "&status=" + url.QueryEscape(status)
	}
	return callPtr[models.Page[models.RedeemRequest]](ctx, c, http.MethodGet, path, nil)
}

func (c *Client) UpdateRedeemStatus(ctx context.Context, id, status string) (*models.RedeemRequest, error) {
	return callPtr[models.RedeemRequest](ctx, c, http.MethodPut, pathID("/admin/redeem-logs", id, "/status"),
		models.UpdateRedeemStatusRequest{Status: status})
}

// PinPost toggles the pinned flag.
func (c *Client) PinPost(ctx context.Context, id string) (*models.Post, error) {
	return callPtr[models.Post](ctx, c, http.MethodPost, pathID("/admin/posts", id, "/pin"), nil)
}

// HighlightPost toggles the highlighted flag.
func (c *Client) HighlightPost(ctx context.Context, id string) (*models.Post, error) {
	return callPtr[models.Post](ctx, c, http.MethodPost, pathID("/admin/posts", id, "/highlight"), nil)
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, pathID("/admin/posts", id, ""), nil)
	return err
}
