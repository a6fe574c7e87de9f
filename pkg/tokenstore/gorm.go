package tokenstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tigermood/moodcorner/pkg/models"
)

// Entry is one row of the local key/value table.
type Entry struct {
	Key       string `gorm:"primaryKey;column:storage_key;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "local_storage" }

type GormStore struct {
	DB *gorm.DB
}

// NewGormStore migrates the local_storage table and returns a store on it.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate local_storage: %w", err)
	}
	return &GormStore{DB: db}, nil
}

func (s *GormStore) Load(ctx context.Context) (models.TokenPair, error) {
	var entries []Entry
	err := s.DB.WithContext(ctx).
		Where("storage_key IN ?", []string{AccessTokenKey, RefreshTokenKey}).
		Find(&entries).Error
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("load tokens: %w", err)
	}

	var pair models.TokenPair
	for _, e := range entries {
		switch e.Key {
		case AccessTokenKey:
			pair.AccessToken = e.Value
		case RefreshTokenKey:
			pair.RefreshToken = e.Value
		}
	}
	return pair, nil
}

func (s *GormStore) Save(ctx context.Context, pair models.TokenPair) error {
	now := time.Now().UTC()
	entries := []Entry{{Key: AccessTokenKey, Value: pair.AccessToken, UpdatedAt: now}}
	if pair.RefreshToken != "" {
		entries = append(entries, Entry{Key: RefreshTokenKey, Value: pair.RefreshToken, UpdatedAt: now})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&entries).Error
	})
	if err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	return nil
}

func (s *GormStore) Clear(ctx context.Context) error {
	err := s.DB.WithContext(ctx).
		Where("storage_key IN ?", []string{AccessTokenKey, RefreshTokenKey}).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}
