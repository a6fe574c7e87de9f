package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigermood/moodcorner/internal/moodapi"
	"github.com/tigermood/moodcorner/pkg/db"
	"github.com/tigermood/moodcorner/pkg/logging"
	"github.com/tigermood/moodcorner/pkg/models"
)

type cli struct {
	t    *testing.T
	opts options
}

func newCLI(t *testing.T) *cli {
	t.Helper()

	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	e, err := moodapi.New(context.Background(), moodapi.Options{
		DB:            gdb,
		Logger:        logging.Discard(),
		AccessSecret:  []byte("a"),
		RefreshSecret: []byte("r"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		AdminEmail:    "admin@tiger.test",
		AdminPassword: "admin-secret",
	})
	require.NoError(t, err)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return &cli{t: t, opts: options{
		APIURL:    srv.URL,
		SessionDB: filepath.Join(t.TempDir(), "session.db"),
		LogLevel:  "error",
	}}
}

func (c *cli) run(args ...string) (int, string, string) {
	c.t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), c.opts, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	return v
}

func TestSessionSurvivesInvocations(t *testing.T) {
	c := newCLI(t)

	code, out, stderr := c.run("register", "-email", "tiger@tiger.test", "-password", "secret1", "-name", "Tiger")
	require.Equal(t, 0, code, stderr)
	reg := decode[models.AuthResult](t, out)
	assert.Equal(t, "Tiger", reg.User.Name)

	code, out, stderr = c.run("me")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, reg.User.ID, decode[models.User](t, out).ID)

	code, out, stderr = c.run("create-post", "-image", "https://img/1.png", "-caption", "roar")
	require.Equal(t, 0, code, stderr)
	post := decode[models.Post](t, out)

	code, out, stderr = c.run("like", post.ID)
	require.Equal(t, 0, code, stderr)
	env := decode[models.Envelope[models.LikeResult]](t, out)
	assert.True(t, env.Success)
	assert.Equal(t, 1, env.Data.Likes)

	code, out, stderr = c.run("posts", "-limit", "5")
	require.Equal(t, 0, code, stderr)
	page := decode[models.Page[models.Post]](t, out)
	assert.Equal(t, 5, page.Limit)
	require.Len(t, page.Items, 1)

	code, out, stderr = c.run("wish", "Happy", "new", "year")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Happy new year", decode[models.Wish](t, out).Content)

	code, out, _ = c.run("logout")
	require.Equal(t, 0, code)
	assert.Empty(t, out)

	code, _, stderr = c.run("me")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "moodctl login")
}

func TestAdminCommands(t *testing.T) {
	c := newCLI(t)

	code, _, stderr := c.run("register", "-email", "tiger@tiger.test", "-password", "secret1", "-name", "Tiger")
	require.Equal(t, 0, code, stderr)
	for i := 0; i < 3; i++ {
		code, _, stderr = c.run("create-post", "-image", "https://img/p.png")
		require.Equal(t, 0, code, stderr)
	}

	code, out, stderr := c.run("rewards")
	require.Equal(t, 0, code, stderr)
	rewards := decode[models.Page[models.Reward]](t, out)
	require.NotEmpty(t, rewards.Items)
	var cheapest models.Reward
	for _, rw := range rewards.Items {
		if rw.Eligible {
			cheapest = rw
			break
		}
	}
	require.NotEmpty(t, cheapest.ID)

	code, out, stderr = c.run("redeem", "-reward", cheapest.ID, "-name", "Tiger", "-phone", "1", "-address", "Jungle")
	require.Equal(t, 0, code, stderr)
	rq := decode[models.RedeemRequest](t, out)

	code, _, _ = c.run("stats")
	assert.Equal(t, 1, code)

	code, _, stderr = c.run("login", "-email", "admin@tiger.test", "-password", "admin-secret")
	require.Equal(t, 0, code, stderr)

	code, out, stderr = c.run("redeem-logs", "-status", "pending")
	require.Equal(t, 0, code, stderr)
	logs := decode[models.Page[models.RedeemRequest]](t, out)
	require.Len(t, logs.Items, 1)
	assert.Equal(t, rq.ID, logs.Items[0].ID)

	code, out, stderr = c.run("set-status", rq.ID, "approved")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, models.StatusApproved, decode[models.RedeemRequest](t, out).Status)

	code, out, stderr = c.run("stats")
	require.Equal(t, 0, code, stderr)
	assert.EqualValues(t, 3, decode[models.AdminStats](t, out).TotalPosts)
}

func TestUsageErrors(t *testing.T) {
	c := newCLI(t)

	tests := [][]string{
		{},
		{"bogus"},
		{"login", "-email", "a@b.c"},
		{"post"},
		{"set-status", "id", "shipped"},
		{"redeem-logs", "-status", "lost"},
		{"-nope"},
	}
	for _, args := range tests {
		code, _, stderr := c.run(args...)
		assert.Equal(t, 2, code, "%v: %s", args, stderr)
	}
}
