package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tigermood/moodcorner/internal/moodapi/models"
)

func (r *GormRepo) CreateWish(ctx context.Context, w *models.Wish, points int) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := addPoints(tx, w.UserID, points); err != nil {
			return err
		}
		if err := tx.Omit("User").Create(w).Error; err != nil {
			return err
		}
		return tx.Preload("User").First(w, "id = ?", w.ID).Error
	})
}

func (r *GormRepo) ListWishes(ctx context.Context, offset, limit int) ([]models.Wish, int64, error) {
	db := r.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Wish{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var wishes []models.Wish
	err := db.Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&wishes).Error
	if err != nil {
		return nil, 0, err
	}
	return wishes, total, nil
}
