package order

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/rentcamp/internal/messaging"
	ordersvc "github.com/Additional-Code/rentcamp/internal/service/order"
	"github.com/Additional-Code/rentcamp/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/rentcamp/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		func(s *ordersvc.Service) Invalidator { return s },
		fx.Annotate(
			NewStatusChangedHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
		fx.Annotate(
			NewOrderPlacedHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// Invalidator drops cached order snapshots.
type Invalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// NewStatusChangedHandler evicts the cached order so every replica serves the new status.
func NewStatusChangedHandler(logger *zap.Logger, cache Invalidator) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.status_changed", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.StatusChangedEvent
		env, err := messaging.DecodeEvent(msg, &event)
		if err != nil {
			logger.Error("failed to decode status changed", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			// Redelivery cannot fix a malformed payload.
			return nil
		}

		if err := cache.Invalidate(ctx, event.OrderID); err != nil {
			span.RecordError(err)
			return err
		}

		logger.Info("order status change processed",
			zap.String("event_id", env.EventID),
			zap.String("id", event.OrderID),
			zap.String("from", event.From),
			zap.String("to", event.To),
		)
		return nil
	}

	return worker.HandlerRegistration{
		EventType: ordersvc.EventOrderStatusChanged,
		Handler:   handler,
	}
}

// NewOrderPlacedHandler logs new orders for the operations feed.
func NewOrderPlacedHandler(logger *zap.Logger) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		_, span := workerTracer.Start(ctx, "worker.orders.placed")
		defer span.End()

		var event ordersvc.OrderPlacedEvent
		if _, err := messaging.DecodeEvent(msg, &event); err != nil {
			logger.Error("failed to decode order placed", zap.Error(err))
			span.RecordError(err)
			return nil
		}
		logger.Info("order placed",
			zap.String("id", event.OrderID),
			zap.String("status", event.Status),
			zap.Int64("total_price", event.TotalPrice),
		)
		return nil
	}

	return worker.HandlerRegistration{
		EventType: ordersvc.EventOrderPlaced,
		Handler:   handler,
	}
}
