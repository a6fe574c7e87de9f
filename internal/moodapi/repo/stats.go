package repo

import (
	"context"

	"github.com/tigermood/moodcorner/internal/moodapi/models"
	dto "github.com/tigermood/moodcorner/pkg/models"
)

func (r *GormRepo) Stats(ctx context.Context) (*dto.AdminStats, error) {
	db := r.DB.WithContext(ctx)
	var s dto.AdminStats

	counts := []struct {
		model any
		where string
		dest  *int64
	}{
		{&models.User{}, "", &s.TotalUsers},
		{&models.Post{}, "", &s.TotalPosts},
		{&models.Wish{}, "", &s.TotalWishes},
		{&models.RedeemRequest{}, "", &s.TotalRedeems},
		{&models.RedeemRequest{}, dto.StatusPending, &s.PendingRedeems},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where("status = ?", c.where)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}
