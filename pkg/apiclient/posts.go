package apiclient

import (
	"context"
	"net/http"

	"github.com/tigermood/moodcorner/pkg/models"
	"github.com/tigermood/moodcorner/pkg/pagination"
)

// GetPosts lists the feed. Zero page or limit fall back to 1 and 10.
func (c *Client) GetPosts(ctx context.Context, page, limit int) (*models.Page[models.Post], error) {
	return callPtr[models.Page[models.Post]](ctx, c, http.MethodGet, "/posts?"+pagination.Query(page, limit), nil)
}

func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return callPtr[models.Post](ctx, c, http.MethodGet, pathID("/posts", id, ""), nil)
}

func (c *Client) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	return callPtr[models.Post](ctx, c, http.MethodPost, "/posts", req)
}

// LikePost returns the whole envelope rather than its data: callers show the
// server's message alongside the new counter.
func (c *Client) LikePost(ctx context.Context, id string) (*models.Envelope[models.LikeResult], error) {
	return callEnvelope[models.LikeResult](ctx, c, http.MethodPost, pathID("/posts", id, "/like"), nil)
}

func (c *Client) UnlikePost(ctx context.Context, id string) (*models.LikeResult, error) {
	return callPtr[models.LikeResult](ctx, c, http.MethodDelete, pathID("/posts", id, "/like"), nil)
}

func (c *Client) SharePost(ctx context.Context, id string) (*models.Post, error) {
	return callPtr[models.Post](ctx, c, http.MethodPost, pathID("/posts", id, "/share"), nil)
}
