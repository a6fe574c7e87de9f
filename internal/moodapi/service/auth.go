package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/tigermood/moodcorner/internal/moodapi/models"
	"github.com/tigermood/moodcorner/internal/moodapi/repo"
	"github.com/tigermood/moodcorner/pkg/hash"
	"github.com/tigermood/moodcorner/pkg/logging"
	dto "github.com/tigermood/moodcorner/pkg/models"
	"github.com/tigermood/moodcorner/pkg/tokens"
)

const minPasswordLen = 6

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, invalid("invalid email")
	}
	if len(req.Password) < minPasswordLen {
		return nil, invalid("password must be at least 6 characters")
	}
	if name == "" {
		return nil, invalid("name is required")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: pwHash,
		Role:         dto.RoleUser,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, ErrConflict
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID)
	return s.issue(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked, so each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "bad token", "error", err)
		return nil, ErrInvalidRefreshToken
	}
	if _, err := s.Repo.FindRefresh(ctx, claims.ID, refreshToken); err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "unknown token", "error", err)
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.Repo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	access, err := s.accessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, record, err := s.refreshToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, record); err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "token expired or revoked", "error", err)
		return nil, mapRepoErr(err)
	}

	return &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout revokes the presented refresh token. An unknown or empty token is
// not an error; the client drops its session either way.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefresh(ctx, refreshToken)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*dto.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	out := user.DTO()
	return &out, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLen {
		return invalid("password must be at least 6 characters")
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return mapRepoErr(err)
	}
	if !hash.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return invalid("current password is incorrect")
	}

	pwHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if _, err := s.Repo.UpdateUser(ctx, userID, map[string]any{"password_hash": pwHash}); err != nil {
		return mapRepoErr(err)
	}
	return s.Repo.RevokeAllRefresh(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.User, error) {
	fields := map[string]any{}
	if name := strings.TrimSpace(req.Name); name != "" {
		fields["name"] = name
	}
	if req.AvatarURL != "" {
		fields["avatar_url"] = req.AvatarURL
	}
	user, err := s.Repo.UpdateUser(ctx, userID, fields)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	out := user.DTO()
	return &out, nil
}

// EnsureAdmin creates the admin account if the email is not taken yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	err = s.Repo.CreateUserIfNotExists(ctx, &models.User{
		Email:        normalizeEmail(email),
		Name:         "Admin",
		PasswordHash: pwHash,
		Role:         dto.RoleAdmin,
	})
	if errors.Is(err, repo.ErrUserAlreadyExist) {
		return nil
	}
	return err
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*dto.AuthResult, error) {
	access, err := s.accessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, record, err := s.refreshToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddRefresh(ctx, record); err != nil {
		return nil, err
	}
	return &dto.AuthResult{User: user.DTO(), AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) accessToken(user *models.User) (string, error) {
	return tokens.SignAccessToken(user.ID, user.Role, time.Now().Add(s.AccessTTL), s.AccessSecret)
}

func (s *AuthService) refreshToken(user *models.User) (string, models.RefreshToken, error) {
	exp := time.Now().Add(s.RefreshTTL)
	signed, jti, err := tokens.SignRefreshToken(user.ID, exp, s.RefreshSecret)
	if err != nil {
		return "", models.RefreshToken{}, err
	}
	return signed, models.RefreshToken{
		Token:     hash.Sha256Hex(signed),
		UserID:    user.ID,
		JTI:       jti,
		ExpiresAt: exp.Unix(),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
