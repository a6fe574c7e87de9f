package service

import (
	"context"
	"strings"

	"github.com/tigermood/moodcorner/internal/moodapi/events"
	"github.com/tigermood/moodcorner/internal/moodapi/models"
	"github.com/tigermood/moodcorner/internal/moodapi/repo"
	"github.com/tigermood/moodcorner/pkg/logging"
	dto "github.com/tigermood/moodcorner/pkg/models"
	"github.com/tigermood/moodcorner/pkg/pagination"
)

type RewardService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// List renders the catalog with eligibility computed for userID.
func (s *RewardService) List(ctx context.Context, userID string, page, limit int) (*dto.Page[dto.Reward], error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	page, limit = pagination.Normalize(page, limit)
	offset, size := pagination.Calculate(page, limit)
	rewards, total, err := s.Repo.ListRewards(ctx, offset, size)
	if err != nil {
		return nil, err
	}

	items := make([]dto.Reward, 0, len(rewards))
	for i := range rewards {
		items = append(items, rewards[i].DTO(user.Points))
	}
	return newPage(items, page, size, total), nil
}

func (s *RewardService) Redeem(ctx context.Context, userID string, req dto.CreateRedeemRequest) (*dto.RedeemRequest, error) {
	l := logging.FromContext(ctx).With("svc", "rewards.redeem", "user_id", userID)

	rq := &models.RedeemRequest{
		UserID:          userID,
		RewardID:        strings.TrimSpace(req.RewardID),
		ReceiverName:    strings.TrimSpace(req.ReceiverName),
		ReceiverPhone:   strings.TrimSpace(req.ReceiverPhone),
		ReceiverAddress: strings.TrimSpace(req.ReceiverAddress),
	}
	switch {
	case rq.RewardID == "":
		return nil, invalid("rewardId is required")
	case rq.ReceiverName == "", rq.ReceiverPhone == "", rq.ReceiverAddress == "":
		return nil, invalid("receiver name, phone and address are required")
	}

	if err := s.Repo.Redeem(ctx, rq); err != nil {
		err = mapRepoErr(err)
		l.Warn("redeem_failed", "reward_id", rq.RewardID, "error", err)
		return nil, err
	}

	l.Info("redeem_requested", "redeem_id", rq.ID, "points", rq.PointsUsed)
	publish(ctx, s.Events, events.TopicRewards, rq.ID, events.Event{
		Type:    events.RedeemRequested,
		UserID:  userID,
		Payload: map[string]any{"redeemId": rq.ID, "rewardId": rq.RewardID, "points": rq.PointsUsed},
	})

	out := rq.DTO()
	return &out, nil
}

func (s *RewardService) History(ctx context.Context, userID string) ([]dto.RedeemRequest, error) {
	rqs, err := s.Repo.RedeemHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return redeemDTOs(rqs), nil
}

func (s *RewardService) Logs(ctx context.Context, page, limit int, status string) (*dto.Page[dto.RedeemRequest], error) {
	if status != "" && !dto.ValidRedeemStatus(status) {
		return nil, invalid("unknown status " + status)
	}
	page, limit = pagination.Normalize(page, limit)
	offset, size := pagination.Calculate(page, limit)

	rqs, total, err := s.Repo.ListRedeems(ctx, offset, size, status)
	if err != nil {
		return nil, err
	}
	return newPage(redeemDTOs(rqs), page, size, total), nil
}

func (s *RewardService) UpdateStatus(ctx context.Context, id, status string) (*dto.RedeemRequest, error) {
	if !dto.ValidRedeemStatus(status) {
		return nil, invalid("unknown status " + status)
	}

	rq, err := s.Repo.UpdateRedeemStatus(ctx, id, status)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	logging.FromContext(ctx).Info("redeem_status_changed", "redeem_id", id, "status", status)
	publish(ctx, s.Events, events.TopicRewards, id, events.Event{
		Type:    events.RedeemStatusChanged,
		UserID:  rq.UserID,
		Payload: map[string]any{"redeemId": id, "status": status},
	})

	out := rq.DTO()
	return &out, nil
}

func (s *RewardService) Stats(ctx context.Context) (*dto.AdminStats, error) {
	return s.Repo.Stats(ctx)
}

// DefaultCatalog is seeded on startup when missing.
var DefaultCatalog = []models.Reward{
	{Name: "Tiger Mug", Description: "Ceramic mug with the Tiger Mood Corner logo", PointsCost: 50, Stock: 100, Active: true},
	{Name: "Coffee Voucher", Description: "One free coffee at a partner cafe", PointsCost: 30, Stock: 200, Active: true},
	{Name: "Tiger Plush", Description: "Limited edition plush tiger", PointsCost: 150, Stock: 20, Active: true},
	{Name: "Cinema Ticket", Description: "Two tickets for any weekday show", PointsCost: 200, Stock: 50, Active: true},
}

// SeedCatalog inserts the rewards that do not exist yet and returns how many
// were created.
func (s *RewardService) SeedCatalog(ctx context.Context, catalog []models.Reward) (int, error) {
	var created int
	for _, rw := range catalog {
		ok, err := s.Repo.CreateRewardIfNotExists(ctx, &rw)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func redeemDTOs(rqs []models.RedeemRequest) []dto.RedeemRequest {
	out := make([]dto.RedeemRequest, 0, len(rqs))
	for i := range rqs {
		out = append(out, rqs[i].DTO())
	}
	return out
}
