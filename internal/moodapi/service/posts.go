package service

import (
	"context"
	"strings"

	"github.com/tigermood/moodcorner/internal/moodapi/events"
	"github.com/tigermood/moodcorner/internal/moodapi/models"
	"github.com/tigermood/moodcorner/internal/moodapi/repo"
	"github.com/tigermood/moodcorner/pkg/logging"
	dto "github.com/tigermood/moodcorner/pkg/models"
	"github.com/tigermood/moodcorner/pkg/pagination"
)

const (
	PostPoints    = 10
	maxCaptionLen = 500
)

type PostService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *PostService) List(ctx context.Context, page, limit int) (*dto.Page[dto.Post], error) {
	page, limit = pagination.Normalize(page, limit)
	offset, size := pagination.Calculate(page, limit)

	posts, total, err := s.Repo.ListPosts(ctx, offset, size)
	if err != nil {
		return nil, err
	}

	items := make([]dto.Post, 0, len(posts))
	for i := range posts {
		items = append(items, posts[i].DTO())
	}
	return newPage(items, page, size, total), nil
}

func (s *PostService) Get(ctx context.Context, id string) (*dto.Post, error) {
	p, err := s.Repo.GetPost(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	out := p.DTO()
	return &out, nil
}

// Create stores the post and credits the author with PostPoints.
func (s *PostService) Create(ctx context.Context, userID string, req dto.CreatePostRequest) (*dto.Post, error) {
	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL == "" {
		return nil, invalid("imageUrl is required")
	}
	if len([]rune(req.Caption)) > maxCaptionLen {
		return nil, invalid("caption is too long")
	}

	p := &models.Post{UserID: userID, ImageURL: imageURL, Caption: strings.TrimSpace(req.Caption)}
	if err := s.Repo.CreatePost(ctx, p, PostPoints); err != nil {
		return nil, mapRepoErr(err)
	}

	logging.FromContext(ctx).Info("post_created", "post_id", p.ID, "user_id", userID)
	publish(ctx, s.Events, events.TopicPosts, p.ID, events.Event{
		Type:    events.PostCreated,
		UserID:  userID,
		Payload: map[string]any{"postId": p.ID, "points": PostPoints},
	})

	out := p.DTO()
	return &out, nil
}

func (s *PostService) Like(ctx context.Context, userID, postID string) (*dto.LikeResult, error) {
	return s.setLike(ctx, userID, postID, true)
}

func (s *PostService) Unlike(ctx context.Context, userID, postID string) (*dto.LikeResult, error) {
	return s.setLike(ctx, userID, postID, false)
}

func (s *PostService) setLike(ctx context.Context, userID, postID string, liked bool) (*dto.LikeResult, error) {
	likes, err := s.Repo.SetLike(ctx, postID, userID, liked)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if liked {
		publish(ctx, s.Events, events.TopicPosts, postID, events.Event{
			Type:    events.PostLiked,
			UserID:  userID,
			Payload: map[string]any{"postId": postID, "likes": likes},
		})
	}
	return &dto.LikeResult{PostID: postID, Likes: likes, Liked: liked}, nil
}

func (s *PostService) Share(ctx context.Context, postID string) (*dto.Post, error) {
	return s.update(s.Repo.SharePost(ctx, postID))
}

func (s *PostService) TogglePin(ctx context.Context, postID string) (*dto.Post, error) {
	return s.update(s.Repo.TogglePostFlag(ctx, postID, "pinned"))
}

func (s *PostService) ToggleHighlight(ctx context.Context, postID string) (*dto.Post, error) {
	return s.update(s.Repo.TogglePostFlag(ctx, postID, "highlighted"))
}

func (s *PostService) Delete(ctx context.Context, postID string) error {
	return mapRepoErr(s.Repo.DeletePost(ctx, postID))
}

func (s *PostService) update(p *models.Post, err error) (*dto.Post, error) {
	if err != nil {
		return nil, mapRepoErr(err)
	}
	out := p.DTO()
	return &out, nil
}

func newPage[T any](items []T, page, limit int, total int64) *dto.Page[T] {
	return &dto.Page[T]{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
	}
}
