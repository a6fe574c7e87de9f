package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tigermood/moodcorner/internal/moodapi/models"
	"github.com/tigermood/moodcorner/pkg/hash"
)

func (r *GormRepo) AddRefresh(ctx context.Context, token models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(&token).Error
}

// FindRefresh looks a refresh token up by jti and checks the presented token
// against the stored hash.
func (r *GormRepo) FindRefresh(ctx context.Context, jti, rawToken string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.DB.WithContext(ctx).
		Where("jti = ? AND token = ?", jti, hash.Sha256Hex(rawToken)).
		First(&token).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &token, nil
}

func refreshExpiredOrRevoked(db *gorm.DB, jti string) (bool, error) {
	var refresh models.RefreshToken
	if err := db.Where("jti = ?", jti).First(&refresh).Error; err != nil {
		return false, notFound(err)
	}
	return refresh.ExpiresAt < time.Now().Unix() || refresh.Revoked, nil
}

// RotateRefreshToken revokes oldJTI and stores newToken in one transaction.
// A token that is already revoked cannot be rotated twice.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, newToken models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired, err := refreshExpiredOrRevoked(tx, oldJTI)
		if err != nil {
			return err
		}
		if expired {
			return ErrTokenRevoked
		}

		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND revoked = ?", oldJTI, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenRevoked
		}

		return tx.Create(&newToken).Error
	})
}

func (r *GormRepo) RevokeRefresh(ctx context.Context, rawToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", hash.Sha256Hex(rawToken)).
		Update("revoked", true).Error
}

func (r *GormRepo) RevokeAllRefresh(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}
