package models

import (
	"time"

	dto "github.com/tigermood/moodcorner/pkg/models"
)

type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"not null"`
	AvatarURL    string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null"`
	Points       int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"                   json:"id"`
	Token     string `gorm:"uniqueIndex;not null;size:64" json:"-"`
	UserID    string `gorm:"index;not null;size:36"       json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null;size:36" json:"jti"`
	ExpiresAt int64  `gorm:"not null"                     json:"expires_at"`
	Revoked   bool   `gorm:"default:false"                json:"revoked"`
	CreatedAt time.Time
}

type Post struct {
	ID          string    `gorm:"primaryKey;size:36"`
	UserID      string    `gorm:"index;not null;size:36"`
	User        User      `gorm:"foreignKey:UserID"`
	ImageURL    string    `gorm:"not null"`
	Caption     string
	Likes       int       `gorm:"not null;default:0"`
	Comments    int       `gorm:"not null;default:0"`
	Shares      int       `gorm:"not null;default:0"`
	Pinned      bool      `gorm:"not null;default:false;index"`
	Highlighted bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"index"`
}

// PostLike is one user's like on one post; the composite key keeps likes
// unique per user.
type PostLike struct {
	PostID    string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
}

type Reward struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	PointsCost  int `gorm:"not null"`
	ImageURL    string
	Stock       int  `gorm:"not null;default:0"`
	Active      bool `gorm:"not null"`
	CreatedAt   time.Time
}

type RedeemRequest struct {
	ID              string `gorm:"primaryKey;size:36"`
	UserID          string `gorm:"index;not null;size:36"`
	User            User   `gorm:"foreignKey:UserID"`
	RewardID        string `gorm:"index;not null;size:36"`
	Reward          Reward `gorm:"foreignKey:RewardID"`
	ReceiverName    string `gorm:"not null"`
	ReceiverPhone   string `gorm:"not null"`
	ReceiverAddress string `gorm:"not null"`
	Status          string `gorm:"not null;index"`
	PointsUsed      int    `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Wish struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"index;not null;size:36"`
	User      User      `gorm:"foreignKey:UserID"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}

// All lists every table for AutoMigrate.
func All() []any {
	return []any{&User{}, &RefreshToken{}, &Post{}, &PostLike{}, &Reward{}, &RedeemRequest{}, &Wish{}}
}

func (u *User) DTO() dto.User {
	return dto.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		Points:    u.Points,
		CreatedAt: u.CreatedAt,
	}
}

func (u *User) Author() dto.Author {
	return dto.Author{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

func (p *Post) DTO() dto.Post {
	return dto.Post{
		ID:          p.ID,
		Author:      p.User.Author(),
		ImageURL:    p.ImageURL,
		Caption:     p.Caption,
		Likes:       p.Likes,
		Comments:    p.Comments,
		Shares:      p.Shares,
		Pinned:      p.Pinned,
		Highlighted: p.Highlighted,
		CreatedAt:   p.CreatedAt,
	}
}

// DTO renders the reward for a user holding the given points.
func (r *Reward) DTO(points int) dto.Reward {
	return dto.Reward{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		PointsCost:  r.PointsCost,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		Active:      r.Active,
		Eligible:    r.Active && points >= r.PointsCost,
	}
}

func (rq *RedeemRequest) DTO() dto.RedeemRequest {
	return dto.RedeemRequest{
		ID:              rq.ID,
		User:            rq.User.Author(),
		RewardID:        rq.RewardID,
		RewardName:      rq.Reward.Name,
		ReceiverName:    rq.ReceiverName,
		ReceiverPhone:   rq.ReceiverPhone,
		ReceiverAddress: rq.ReceiverAddress,
		Status:          rq.Status,
		PointsUsed:      rq.PointsUsed,
		CreatedAt:       rq.CreatedAt,
	}
}

func (w *Wish) DTO() dto.Wish {
	return dto.Wish{
		ID:        w.ID,
		User:      w.User.Author(),
		Content:   w.Content,
		CreatedAt: w.CreatedAt,
	}
}
