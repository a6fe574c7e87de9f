package service

import (
	"context"
	"strings"

	"github.com/tigermood/moodcorner/internal/moodapi/events"
	"github.com/tigermood/moodcorner/internal/moodapi/models"
	"github.com/tigermood/moodcorner/internal/moodapi/repo"
	dto "github.com/tigermood/moodcorner/pkg/models"
	"github.com/tigermood/moodcorner/pkg/pagination"
)

const (
	WishPoints     = 5
	maxWishContent = 300
)

type WishService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *WishService) Create(ctx context.Context, userID string, req dto.CreateWishRequest) (*dto.Wish, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, invalid("content is required")
	}
	if len([]rune(content)) > maxWishContent {
		return nil, invalid("content is too long")
	}

	w := &models.Wish{UserID: userID, Content: content}
	if err := s.Repo.CreateWish(ctx, w, WishPoints); err != nil {
		return nil, mapRepoErr(err)
	}

	publish(ctx, s.Events, events.TopicWishes, w.ID, events.Event{
		Type:    events.WishCreated,
		UserID:  userID,
		Payload: map[string]any{"wishId": w.ID, "points": WishPoints},
	})

	out := w.DTO()
	return &out, nil
}

func (s *WishService) List(ctx context.Context, page, limit int) (*dto.Page[dto.Wish], error) {
	page, limit = pagination.Normalize(page, limit)
	offset, size := pagination.Calculate(page, limit)

	wishes, total, err := s.Repo.ListWishes(ctx, offset, size)
	if err != nil {
		return nil, err
	}

	items := make([]dto.Wish, 0, len(wishes))
	for i := range wishes {
		items = append(items, wishes[i].DTO())
	}
	return newPage(items, page, size, total), nil
}
