package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestProducer_Publish(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := &Producer{writer: w}

	err := p.Publish(context.Background(), TopicPosts, "post-1", Event{
		Type:    PostCreated,
		UserID:  "user-1",
		Payload: map[string]any{"postId": "post-1"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicPosts, msg.Topic)
	assert.Equal(t, "post-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, PostCreated, string(msg.Headers[0].Value))

	var ev Event
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, PostCreated, ev.Type)
	assert.Equal(t, "user-1", ev.UserID)
	assert.Equal(t, "post-1", ev.Payload["postId"])
	assert.False(t, ev.OccurredAt.IsZero())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishError(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	p := &Producer{writer: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), TopicWishes, "w", Event{Type: WishCreated})
	assert.ErrorIs(t, err, boom)
}

func TestNew(t *testing.T) {
	t.Parallel()

	assert.IsType(t, Nop{}, New(nil))
	p := New([]string{"localhost:9092"})
	assert.IsType(t, &Producer{}, p)
	require.NoError(t, p.Close())
}
