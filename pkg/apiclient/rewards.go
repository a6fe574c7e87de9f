package apiclient

import (
	"context"
	"net/http"

	"github.com/tigermood/moodcorner/pkg/models"
	"github.com/tigermood/moodcorner/pkg/pagination"
)

func (c *Client) GetRewards(ctx context.Context, page, limit int) (*models.Page[models.Reward], error) {
	return callPtr[models.Page[models.Reward]](ctx, c, http.MethodGet, "/rewards?"+pagination.Query(page, limit), nil)
}

func (c *Client) CreateRedeemRequest(ctx context.Context, req models.CreateRedeemRequest) (*models.RedeemRequest, error) {
	return callPtr[models.RedeemRequest](ctx, c, http.MethodPost, "/rewards/redeem", req)
}

func (c *Client) GetRedeemHistory(ctx context.Context) ([]models.RedeemRequest, error) {
	return call[[]models.RedeemRequest](ctx, c, http.MethodGet, "/rewards/history", nil)
}
