package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tigermood/moodcorner/internal/moodapi/models"
)

// CreatePost stores p and credits its author with points in one transaction.
func (r *GormRepo) CreatePost(ctx context.Context, p *models.Post, points int) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := addPoints(tx, p.UserID, points); err != nil {
			return err
		}
		if err := tx.Omit("User").Create(p).Error; err != nil {
			return err
		}
		return tx.Preload("User").First(p, "id = ?", p.ID).Error
	})
}

// ListPosts returns the feed page: pinned posts first, then newest.
func (r *GormRepo) ListPosts(ctx context.Context, offset, limit int) ([]models.Post, int64, error) {
	db := r.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := db.Preload("User").
		Order("pinned DESC").
		Order("created_at DESC").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *GormRepo) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return getPost(r.DB.WithContext(ctx), id)
}

func getPost(db *gorm.DB, id string) (*models.Post, error) {
	var p models.Post
	if err := db.Preload("User").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// SetLike records or removes the user's like. Repeating the same call does
// not change the counter.
func (r *GormRepo) SetLike(ctx context.Context, postID, userID string, liked bool) (int, error) {
	var likes int
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getPost(tx, postID); err != nil {
			return err
		}

		var res *gorm.DB
		if liked {
			res = tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.PostLike{PostID: postID, UserID: userID})
		} else {
			res = tx.Where("post_id = ? AND user_id = ?", postID, userID).
				Delete(&models.PostLike{})
		}
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			delta := 1
			if !liked {
				delta = -1
			}
			err := tx.Model(&models.Post{}).
				Where("id = ?", postID).
				Update("likes", gorm.Expr("likes + ?", delta)).Error
			if err != nil {
				return err
			}
		}

		var p models.Post
		if err := tx.Select("likes").Where("id = ?", postID).First(&p).Error; err != nil {
			return err
		}
		likes = p.Likes
		return nil
	})
	return likes, err
}

func (r *GormRepo) SharePost(ctx context.Context, id string) (*models.Post, error) {
	return r.updatePost(ctx, id, "shares", gorm.Expr("shares + 1"))
}

// TogglePostFlag flips a boolean column (pinned or highlighted).
func (r *GormRepo) TogglePostFlag(ctx context.Context, id, column string) (*models.Post, error) {
	return r.updatePost(ctx, id, column, gorm.Expr("NOT "+column))
}

func (r *GormRepo) updatePost(ctx context.Context, id, column string, value any) (*models.Post, error) {
	var p *models.Post
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", id).Update(column, value)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		var err error
		p, err = getPost(tx, id)
		return err
	})
	return p, err
}

func (r *GormRepo) DeletePost(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
