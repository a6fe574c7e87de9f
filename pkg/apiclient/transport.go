package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tigermood/moodcorner/pkg/tokenstore"
)

var errBodyNotReplayable = errors.New("request body cannot be replayed")

// authTransport is the interceptor pair around the base transport: the
// request side attaches the bearer token, the response side turns a 401 into
// one refresh and one replay.
type authTransport struct {
	base    http.RoundTripper
	store   tokenstore.Store
	refresh func(ctx context.Context, stale string) (string, error)
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	pair, err := t.store.Load(ctx)
	if err != nil {
		closeRequestBody(req)
		return nil, fmt.Errorf("load tokens: %w", err)
	}

	resp, err := t.base.RoundTrip(withBearer(req, pair.AccessToken))
	if err != nil || resp.StatusCode != http.StatusUnauthorized || refreshDisabled(ctx) {
		return resp, err
	}

	retry, err := rewind(req)
	if err != nil {
		return resp, nil
	}
	discard(resp)

	access, err := t.refresh(ctx, pair.AccessToken)
	if err != nil {
		closeRequestBody(retry)
		return nil, err
	}

	// The replay goes straight to the base transport: a second 401 is final.
	return t.base.RoundTrip(withBearer(retry, access))
}

func withBearer(req *http.Request, token string) *http.Request {
	r := req.Clone(req.Context())
	if token == "" {
		r.Header.Del("Authorization")
		return r
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// rewind returns a copy of req with a fresh body for the replay.
func rewind(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return r, nil
	}
	if req.GetBody == nil {
		return nil, errBodyNotReplayable
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBodyNotReplayable, err)
	}
	r.Body = body
	return r, nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

func closeRequestBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
