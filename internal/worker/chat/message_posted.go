package chat

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/rentcamp/internal/dto"
	"github.com/Additional-Code/rentcamp/internal/messaging"
	"github.com/Additional-Code/rentcamp/internal/realtime"
	"github.com/Additional-Code/rentcamp/internal/service/tracking"
	"github.com/Additional-Code/rentcamp/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/rentcamp/worker/chat")

// Module registers chat worker handlers.
var Module = fx.Module("worker_chat",
	fx.Provide(
		fx.Annotate(
			NewMessagePostedHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewMessagePostedHandler forwards stored support messages to live subscribers.
func NewMessagePostedHandler(logger *zap.Logger, broadcaster realtime.Broadcaster) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		var event tracking.MessagePostedEvent
		if _, err := messaging.DecodeEvent(msg, &event); err != nil {
			logger.Error("failed to decode message posted", zap.Error(err))
			return nil
		}

		ctx, span := workerTracer.Start(ctx, "worker.chat.message_posted", trace.WithAttributes(
			attribute.String("order.id", event.OrderID),
			attribute.Int64("chat.seq", event.ID),
		))
		defer span.End()

		payload, err := json.Marshal(dto.ChatMessageResponse{
			ID:      event.ID,
			OrderID: event.OrderID,
			Sender:  event.Sender,
			Body:    event.Body,
			SentAt:  event.SentAt,
		})
		if err != nil {
			return err
		}

		if err := broadcaster.Broadcast(ctx, event.OrderID, payload); err != nil {
			// Live delivery is best effort; subscribers refetch the thread on reconnect.
			logger.Warn("chat broadcast failed", zap.String("id", event.OrderID), zap.Error(err))
			span.RecordError(err)
		}
		return nil
	}

	return worker.HandlerRegistration{
		EventType: tracking.EventMessagePosted,
		Handler:   handler,
	}
}
