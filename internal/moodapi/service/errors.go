package service

import (
	"context"
	"errors"

	"github.com/tigermood/moodcorner/internal/moodapi/events"
	"github.com/tigermood/moodcorner/internal/moodapi/repo"
	"github.com/tigermood/moodcorner/pkg/logging"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInsufficientPoints  = errors.New("not enough points")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// ValidationError carries the message shown to the client; it matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string        { return e.Msg }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// mapRepoErr turns storage errors into the service's sentinels.
func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrUserAlreadyExist):
		return ErrConflict
	case errors.Is(err, repo.ErrInsufficientPoints):
		return ErrInsufficientPoints
	case errors.Is(err, repo.ErrRewardUnavailable):
		return invalid("reward is not available")
	case errors.Is(err, repo.ErrInvalidTransition):
		return ErrInvalidTransition
	case errors.Is(err, repo.ErrTokenRevoked):
		return ErrInvalidRefreshToken
	}
	return err
}

// publish sends ev and only logs a failure; events never fail a request.
func publish(ctx context.Context, pub events.Publisher, topic, key string, ev events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(context.WithoutCancel(ctx), topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", topic, "event", ev.Type, "error", err)
	}
}
