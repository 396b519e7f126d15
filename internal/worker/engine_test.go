package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Additional-Code/rentcamp/internal/config"
	"github.com/Additional-Code/rentcamp/internal/messaging"
)

func TestDispatch_RoutesByEventType(t *testing.T) {
	var got []string
	record := func(name string) messaging.Handler {
		return func(context.Context, messaging.Message) error {
			got = append(got, name)
			return nil
		}
	}

	engine := NewEngine(Params{
		Logger: zap.NewNop(),
		Config: config.Config{},
		Registrations: []HandlerRegistration{
			{EventType: "order.status_changed", Handler: record("status")},
			{EventType: "chat.message_posted", Handler: record("chat")},
			{EventType: "chat.message_posted", Handler: record("duplicate")},
			{EventType: "", Handler: record("blank")},
		},
	})

	msg := func(eventType string) messaging.Message {
		return messaging.Message{Topic: "rentcamp.orders.events", Headers: map[string]string{messaging.HeaderEventType: eventType}}
	}

	ctx := context.Background()
	assert.NoError(t, engine.dispatch(ctx, msg("chat.message_posted")))
	assert.NoError(t, engine.dispatch(ctx, msg("order.status_changed")))
	assert.NoError(t, engine.dispatch(ctx, msg("order.unknown")))
	assert.NoError(t, engine.dispatch(ctx, messaging.Message{}))

	assert.Equal(t, []string{"chat", "status"}, got)
}

func TestDispatch_PropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	engine := NewEngine(Params{
		Logger: zap.NewNop(),
		Registrations: []HandlerRegistration{{
			EventType: "order.status_changed",
			Handler:   func(context.Context, messaging.Message) error { return boom },
		}},
	})

	err := engine.dispatch(context.Background(), messaging.Message{Headers: map[string]string{messaging.HeaderEventType: "order.status_changed"}})
	assert.ErrorIs(t, err, boom)
}

func TestStart_DisabledIsNoop(t *testing.T) {
	engine := NewEngine(Params{Logger: zap.NewNop(), Config: config.Config{}})
	assert.NoError(t, engine.start(context.Background()))
	assert.NoError(t, engine.stop(context.Background()))
}
