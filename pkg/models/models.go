// Package models holds the wire types shared by the API client and the
// development backend.
package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Redeem request statuses.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

// Envelope is the wrapper every API response is sent in.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Page is the data payload of list endpoints.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Role      string    `json:"role"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// AuthResult is returned by login and register.
type AuthResult struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type Post struct {
	ID          string    `json:"id"`
	Author      Author    `json:"author"`
	ImageURL    string    `json:"imageUrl"`
	Caption     string    `json:"caption"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Shares      int       `json:"shares"`
	Pinned      bool      `json:"pinned"`
	Highlighted bool      `json:"highlighted"`
	CreatedAt   time.Time `json:"createdAt"`
}

type LikeResult struct {
	PostID string `json:"postId"`
	Likes  int    `json:"likes"`
	Liked  bool   `json:"liked"`
}

type Reward struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PointsCost  int    `json:"pointsCost"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Stock       int    `json:"stock"`
	Active      bool   `json:"active"`
	Eligible    bool   `json:"eligible"`
}

type RedeemRequest struct {
	ID              string    `json:"id"`
	User            Author    `json:"user"`
	RewardID        string    `json:"rewardId"`
	RewardName      string    `json:"rewardName"`
	ReceiverName    string    `json:"receiverName"`
	ReceiverPhone   string    `json:"receiverPhone"`
	ReceiverAddress string    `json:"receiverAddress"`
	Status          string    `json:"status"`
	PointsUsed      int       `json:"pointsUsed"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Wish struct {
	ID        string    `json:"id"`
	User      Author    `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type AdminStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalPosts     int64 `json:"totalPosts"`
	TotalWishes    int64 `json:"totalWishes"`
	TotalRedeems   int64 `json:"totalRedeems"`
	PendingRedeems int64 `json:"pendingRedeems"`
}

// Request bodies.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type CreatePostRequest struct {
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption"`
}

type CreateRedeemRequest struct {
	RewardID        string `json:"rewardId"`
	ReceiverName    string `json:"receiverName"`
	ReceiverPhone   string `json:"receiverPhone"`
	ReceiverAddress string `json:"receiverAddress"`
}

type UpdateRedeemStatusRequest struct {
	Status string `json:"status"`
}

type CreateWishRequest struct {
	Content string `json:"content"`
}

// ValidRedeemStatus reports whether s is one of the known statuses.
func ValidRedeemStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether an admin may move a redeem request from one
// status to another.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusCompleted
	}
	return false
}
