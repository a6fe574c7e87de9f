package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tigermood/moodcorner/internal/moodapi/models"
	dto "github.com/tigermood/moodcorner/pkg/models"
)

// CreateRewardIfNotExists inserts rw unless a reward with the same name exists.
func (r *GormRepo) CreateRewardIfNotExists(ctx context.Context, rw *models.Reward) (bool, error) {
	if rw.ID == "" {
		rw.ID = uuid.NewString()
	}
	tx := r.DB.WithContext(ctx).Where("name = ?", rw.Name).FirstOrCreate(rw)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *GormRepo) ListRewards(ctx context.Context, offset, limit int) ([]models.Reward, int64, error) {
	db := r.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Reward{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rewards []models.Reward
	err := db.Order("active DESC").
		Order("points_cost").
		Order("name").
		Offset(offset).
		Limit(limit).
		Find(&rewards).Error
	if err != nil {
		return nil, 0, err
	}
	return rewards, total, nil
}

// Redeem takes the reward's cost from the user, decrements stock and stores
// the pending request, all in one transaction.
func (r *GormRepo) Redeem(ctx context.Context, rq *models.RedeemRequest) error {
	if rq.ID == "" {
		rq.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reward models.Reward
		if err := tx.Where("id = ?", rq.RewardID).First(&reward).Error; err != nil {
			return notFound(err)
		}
		if !reward.Active || reward.Stock < 1 {
			return ErrRewardUnavailable
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND points >= ?", rq.UserID, reward.PointsCost).
			Update("points", gorm.Expr("points - ?", reward.PointsCost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if _, err := getUser(tx, rq.UserID); err != nil {
				return err
			}
			return ErrInsufficientPoints
		}

		res = tx.Model(&models.Reward{}).
			Where("id = ? AND stock > 0", reward.ID).
			Update("stock", gorm.Expr("stock - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRewardUnavailable
		}

		rq.Status = dto.StatusPending
		rq.PointsUsed = reward.PointsCost
		if err := tx.Omit("User", "Reward").Create(rq).Error; err != nil {
			return err
		}
		return loadRedeem(tx, rq.ID, rq)
	})
}

func loadRedeem(db *gorm.DB, id string, out *models.RedeemRequest) error {
	err := db.Preload("User").Preload("Reward").Where("id = ?", id).First(out).Error
	return notFound(err)
}

func (r *GormRepo) RedeemHistory(ctx context.Context, userID string) ([]models.RedeemRequest, error) {
	var out []models.RedeemRequest
	err := r.DB.WithContext(ctx).
		Preload("User").
		Preload("Reward").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ListRedeems is the admin log, newest first, optionally filtered by status.
func (r *GormRepo) ListRedeems(ctx context.Context, offset, limit int, status string) ([]models.RedeemRequest, int64, error) {
	byStatus := func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	}
	db := r.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.RedeemRequest{}).Scopes(byStatus).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.RedeemRequest
	err := db.Scopes(byStatus).
		Preload("User").
		Preload("Reward").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateRedeemStatus moves a request to status. Rejecting refunds the points
// and returns the item to stock.
func (r *GormRepo) UpdateRedeemStatus(ctx context.Context, id, status string) (*models.RedeemRequest, error) {
	var rq models.RedeemRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&rq).Error; err != nil {
			return notFound(err)
		}
		if !dto.CanTransition(rq.Status, status) {
			return ErrInvalidTransition
		}

		res := tx.Model(&models.RedeemRequest{}).
			Where("id = ? AND status = ?", id, rq.Status).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if status == dto.StatusRejected {
			if err := addPoints(tx, rq.UserID, rq.PointsUsed); err != nil {
				return err
			}
			err := tx.Model(&models.Reward{}).
				Where("id = ?", rq.RewardID).
				Update("stock", gorm.Expr("stock + 1")).Error
			if err != nil {
				return err
			}
		}
		return loadRedeem(tx, id, &rq)
	})
	if err != nil {
		return nil, err
	}
	return &rq, nil
}
