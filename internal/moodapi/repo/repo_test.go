package repo

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigermood/moodcorner/internal/moodapi/models"
	"github.com/tigermood/moodcorner/pkg/db"
	"github.com/tigermood/moodcorner/pkg/hash"
	dto "github.com/tigermood/moodcorner/pkg/models"
)

func newRepo(t *testing.T) *GormRepo {
	t.Helper()

	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := New(gdb)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func seedUser(t *testing.T, r *GormRepo, email string, points int) *models.User {
	t.Helper()

	u := &models.User{Email: email, Name: "Tiger", PasswordHash: "x", Role: dto.RoleUser, Points: points}
	require.NoError(t, r.CreateUserIfNotExists(context.Background(), u))
	return u
}

func seedReward(t *testing.T, r *GormRepo, cost, stock int) *models.Reward {
	t.Helper()

	rw := &models.Reward{Name: "Voucher", PointsCost: cost, Stock: stock, Active: true}
	created, err := r.CreateRewardIfNotExists(context.Background(), rw)
	require.NoError(t, err)
	require.True(t, created)
	return rw
}

func TestCreateUserIfNotExists_Duplicate(t *testing.T) {
	t.Parallel()
	r := newRepo(t)
	ctx := context.Background()

	seedUser(t, r, "a@b.c", 0)
	err := r.CreateUserIfNotExists(ctx, &models.User{Email: "a@b.c", Name: "Other", PasswordHash: "y", Role: dto.RoleUser})
	assert.ErrorIs(t, err, ErrUserAlreadyExist)

	_, err = r.GetUserByEmail(ctx, "missing@b.c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRotateRefreshToken_OnlyOnce(t *testing.T) {
	t.Parallel()
	r := newRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@b.c", 0)

	exp := time.Now().Add(time.Hour).Unix()
	require.NoError(t, r.AddRefresh(ctx, models.RefreshToken{Token: hash.Sha256Hex("old"), UserID: u.ID, JTI: "jti-old", ExpiresAt: exp}))

	found, err := r.FindRefresh(ctx, "jti-old", "old")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.UserID)

	_, err = r.FindRefresh(ctx, "jti-old", "forged")
	assert.ErrorIs(t, err, ErrNotFound)

	next := models.RefreshToken{Token: hash.Sha256Hex("new"), UserID: u.ID, JTI: "jti-new", ExpiresAt: exp}
	require.NoError(t, r.RotateRefreshToken(ctx, "jti-old", next))

	again := models.RefreshToken{Token: hash.Sha256Hex("newer"), UserID: u.ID, JTI: "jti-newer", ExpiresAt: exp}
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "jti-old", again), ErrTokenRevoked)

	require.NoError(t, r.RevokeRefresh(ctx, "new"))
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "jti-new", again), ErrTokenRevoked)
}

func TestCreatePost_AwardsPointsAndFeedOrder(t *testing.T) {
	t.Parallel()
	r := newRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@b.c", 0)

	var ids []string
	for _, caption := range []string{"first", "second", "third"} {
		p := &models.Post{UserID: u.ID, ImageURL: "https://img/" + caption, Caption: caption}
		require.NoError(t, r.CreatePost(ctx, p, 10))
		assert.Equal(t, u.Name, p.User.Name)
		ids = append(ids, p.ID)
		time.Sleep(2 * time.Millisecond)
	}

	got, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Points)

	pinned, err := r.TogglePostFlag(ctx, ids[0], "pinned")
	require.NoError(t, err)
	assert.True(t, pinned.Pinned)

	posts, total, err := r.ListPosts(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{ids[0], ids[2], ids[1]}, []string{posts[0].ID, posts[1].ID, posts[2].ID})

	page, _, err := r.ListPosts(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ID)

	unpinned, err := r.TogglePostFlag(ctx, ids[0], "pinned")
	require.NoError(t, err)
	assert.False(t, unpinned.Pinned)
}

func TestSetLike_Idempotent(t *testing.T) {
	t.Parallel()
	r := newRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@b.c", 0)
	other := seedUser(t, r, "b@b.c", 0)

	p := &models.Post{UserID: u.ID, ImageURL: "https://img/1"}
	require.NoError(t, r.CreatePost(ctx, p, 10))

	steps := []struct {
		user  string
		liked bool
		want  int
	}{
		{u.ID, true, 1},
		{u.ID, true, 1},
		{other.ID, true, 2},
		{u.ID, false, 1},
		{u.ID, false, 1},
	}
	for _, s := range steps {
		likes, err := r.SetLike(ctx, p.ID, s.user, s.liked)
		require.NoError(t, err)
		assert.Equal(t, s.want, likes)
	}

	_, err := r.SetLike(ctx, "missing", u.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePost(t *testing.T) {
	t.Parallel()
	r := newRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@b.c", 0)

	p := &models.Post{UserID: u.ID, ImageURL: "https://img/1"}
	require.NoError(t, r.CreatePost(ctx, p, 10))
	_, err := r.SetLike(ctx, p.ID, u.ID, true)
	require.NoError(t, err)

	require.NoError(t, r.DeletePost(ctx, p.ID))
	_, err = r.GetPost(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.DeletePost(ctx, p.ID), ErrNotFound)
}

func TestRedeem(t *testing.T) {
	t.Parallel()
	r := newRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@b.c", 120)
	rw := seedReward(t, r, 100, 1)

	rq := &models.RedeemRequest{UserID: u.ID, RewardID: rw.ID, ReceiverName: "Tiger", ReceiverPhone: "1", ReceiverAddress: "Street"}
	require.NoError(t, r.Redeem(ctx, rq))
	assert.Equal(t, dto.StatusPending, rq.Status)
	assert.Equal(t, 100, rq.PointsUsed)
	assert.Equal(t, "Voucher", rq.Reward.Name)

	user, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, user.Points)

	second := &models.RedeemRequest{UserID: u.ID, RewardID: rw.ID, ReceiverName: "Tiger", ReceiverPhone: "1", ReceiverAddress: "Street"}
	assert.ErrorIs(t, r.Redeem(ctx, second), ErrRewardUnavailable)

	history, err := r.RedeemHistory(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRedeem_InsufficientPoints(t *testing.T) {
	t.Parallel()
	r := newRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@b.c", 50)
	rw := seedReward(t, r, 100, 5)

	err := r.Redeem(ctx, &models.RedeemRequest{UserID: u.ID, RewardID: rw.ID, ReceiverName: "n", ReceiverPhone: "p", ReceiverAddress: "a"})
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	user, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, user.Points)

	_, total, err := r.ListRedeems(ctx, 0, 10, "")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdateRedeemStatus(t *testing.T) {
	t.Parallel()
	r := newRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@b.c", 300)
	rw := seedReward(t, r, 100, 10)

	redeem := func() *models.RedeemRequest {
		rq := &models.RedeemRequest{UserID: u.ID, RewardID: rw.ID, ReceiverName: "n", ReceiverPhone: "p", ReceiverAddress: "a"}
		require.NoError(t, r.Redeem(ctx, rq))
		return rq
	}
	kept, refunded := redeem(), redeem()

	_, err := r.UpdateRedeemStatus(ctx, kept.ID, dto.StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	approved, err := r.UpdateRedeemStatus(ctx, kept.ID, dto.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, dto.StatusApproved, approved.Status)

	completed, err := r.UpdateRedeemStatus(ctx, kept.ID, dto.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, dto.StatusCompleted, completed.Status)

	rejected, err := r.UpdateRedeemStatus(ctx, refunded.ID, dto.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, dto.StatusRejected, rejected.Status)

	_, err = r.UpdateRedeemStatus(ctx, refunded.ID, dto.StatusApproved)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = r.UpdateRedeemStatus(ctx, "missing", dto.StatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)

	user, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 200, user.Points)

	rewards, _, err := r.ListRewards(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.Equal(t, 9, rewards[0].Stock)

	logs, total, err := r.ListRedeems(ctx, 0, 10, dto.StatusRejected)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, refunded.ID, logs[0].ID)
}

func TestRedeem_ConcurrentLastItem(t *testing.T) {
	t.Parallel()
	r := newRepo(t)
	ctx := context.Background()
	rw := seedReward(t, r, 10, 1)

	users := []*models.User{seedUser(t, r, "a@b.c", 10), seedUser(t, r, "b@b.c", 10)}
	errs := make([]error, len(users))
	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(i int, u *models.User) {
			defer wg.Done()
			errs[i] = r.Redeem(ctx, &models.RedeemRequest{UserID: u.ID, RewardID: rw.ID, ReceiverName: "n", ReceiverPhone: "p", ReceiverAddress: "a"})
		}(i, u)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrRewardUnavailable)
	}
	assert.Equal(t, 1, ok)
}

func TestWishesAndStats(t *testing.T) {
	t.Parallel()
	r := newRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "a@b.c", 0)

	w := &models.Wish{UserID: u.ID, Content: "Happy new year"}
	require.NoError(t, r.CreateWish(ctx, w, 5))
	assert.Equal(t, u.Name, w.User.Name)

	wishes, total, err := r.ListWishes(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, wishes, 1)

	user, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, user.Points)

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.AdminStats{TotalUsers: 1, TotalWishes: 1}, *stats)
}
