package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tigermood/moodcorner/internal/moodapi/models"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrUserAlreadyExist   = errors.New("user already exist")
	ErrTokenRevoked       = errors.New("token expired or revoked")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrRewardUnavailable  = errors.New("reward unavailable")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// GormRepo works on any gorm dialect. With sqlite the pool holds a single
// connection, so code inside a transaction must only use tx.
type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
