package apiclient

import (
	"context"
	"net/http"

	"github.com/tigermood/moodcorner/pkg/models"
	"github.com/tigermood/moodcorner/pkg/pagination"
)

func (c *Client) CreateWish(ctx context.Context, req models.CreateWishRequest) (*models.Wish, error) {
	return callPtr[models.Wish](ctx, c, http.MethodPost, "/wishes", req)
}

func (c *Client) GetWishes(ctx context.Context, page, limit int) (*models.Page[models.Wish], error) {
	return callPtr[models.Page[models.Wish]](ctx, c, http.MethodGet, "/wishes?"+pagination.Query(page, limit), nil)
}
