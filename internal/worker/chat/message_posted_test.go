package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/rentcamp/internal/messaging"
	"github.com/Additional-Code/rentcamp/internal/service/tracking"
)

type fakeBroadcaster struct {
	orderID string
	payload []byte
	err     error
}

func (f *fakeBroadcaster) Broadcast(_ context.Context, orderID string, payload []byte) error {
	f.orderID, f.payload = orderID, payload
	return f.err
}

func messagePosted(t *testing.T) messaging.Message {
	t.Helper()
	env, err := messaging.NewEnvelope("test", tracking.EventMessagePosted, "RC-1", tracking.MessagePostedEvent{
		OrderID: "RC-1",
		ID:      2,
		Sender:  "admin",
		Body:    "Sudah dikirim kemarin.",
		SentAt:  time.Date(2024, 1, 19, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	return messaging.Message{Value: raw, Headers: map[string]string{messaging.HeaderEventType: tracking.EventMessagePosted}}
}

func TestMessagePostedHandler(t *testing.T) {
	b := &fakeBroadcaster{}
	reg := NewMessagePostedHandler(zap.NewNop(), b)
	assert.Equal(t, tracking.EventMessagePosted, reg.EventType)

	require.NoError(t, reg.Handler(context.Background(), messagePosted(t)))
	assert.Equal(t, "RC-1", b.orderID)

	var out struct {
		ID     int64  `json:"id"`
		Sender string `json:"sender"`
		Body   string `json:"body"`
	}
	require.NoError(t, json.Unmarshal(b.payload, &out))
	assert.Equal(t, int64(2), out.ID)
	assert.Equal(t, "admin", out.Sender)
}

func TestMessagePostedHandler_BroadcastFailureIsSwallowed(t *testing.T) {
	reg := NewMessagePostedHandler(zap.NewNop(), &fakeBroadcaster{err: errors.New("no subscribers")})
	assert.NoError(t, reg.Handler(context.Background(), messagePosted(t)))
}
