package tracking

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/rentcamp/internal/config"
	"github.com/Additional-Code/rentcamp/internal/entity"
	"github.com/Additional-Code/rentcamp/internal/lifecycle"
	"github.com/Additional-Code/rentcamp/internal/messaging"
	"github.com/Additional-Code/rentcamp/internal/observability"
	repoorder "github.com/Additional-Code/rentcamp/internal/repository/order"
	"github.com/Additional-Code/rentcamp/internal/thread"
	"github.com/Additional-Code/rentcamp/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/rentcamp/service/tracking")

// EventMessagePosted is published after a support message is stored.
const EventMessagePosted = "chat.message_posted"

//go:generate mockgen -source=service.go -destination=mocks/mock_order_source.go -package=mocks

// OrderSource looks up orders by id.
type OrderSource interface {
	Get(ctx context.Context, id string) (*entity.Order, error)
}

// View is an order together with its derived timeline.
type View struct {
	Order    *entity.Order
	Timeline lifecycle.Timeline
	Current  lifecycle.TimelineStage
}

// Service combines the lifecycle engine and the support thread for one order.
type Service struct {
	orders      OrderSource
	threads     thread.Store
	publisher   messaging.Client
	producer    string
	logger      *zap.Logger
	instruments *observability.Instruments
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Orders      OrderSource
	Threads     thread.Store
	Publisher   messaging.Client
	Config      config.Config
	Logger      *zap.Logger
	Instruments *observability.Instruments `optional:"true"`
}

// NewService wires a tracking Service.
func NewService(p Params) *Service {
	return &Service{
		orders:      p.Orders,
		threads:     p.Threads,
		publisher:   p.Publisher,
		producer:    p.Config.Observability.ServiceName,
		logger:      p.Logger,
		instruments: p.Instruments,
	}
}

// Track loads the order and derives its 8-stage timeline.
func (s *Service) Track(ctx context.Context, orderID string) (View, error) {
	ctx, span := serviceTracer.Start(ctx, "TrackingService.Track", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return View{}, translate(err)
	}

	timeline, err := lifecycle.BuildTimeline(order.Status)
	if err != nil {
		s.instruments.TimelineBuilt(ctx, "invalid_status")
		span.SetStatus(codes.Error, "invalid status")
		s.logger.Warn("order carries unrecognised status", zap.String("id", orderID), zap.String("status", order.Status))
		return View{}, translate(err)
	}
	s.instruments.TimelineBuilt(ctx, "ok")

	current, _ := timeline.Current()
	return View{Order: order, Timeline: timeline, Current: current}, nil
}

// Messages returns the support thread of an existing order.
func (s *Service) Messages(ctx context.Context, orderID string) ([]thread.Message, error) {
	ctx, span := serviceTracer.Start(ctx, "TrackingService.Messages", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	if _, err := s.orders.Get(ctx, orderID); err != nil {
		return nil, translate(err)
	}

	msgs, err := s.threads.List(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, translate(err)
	}
	return msgs, nil
}

// Post appends a message to the order's support thread and announces it.
// A failed announcement is logged and does not fail the append.
func (s *Service) Post(ctx context.Context, orderID string, sender thread.Sender, body string) (thread.Message, error) {
	ctx, span := serviceTracer.Start(ctx, "TrackingService.Post", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("chat.sender", string(sender)),
	))
	defer span.End()

	if err := thread.Validate(sender, body); err != nil {
		return thread.Message{}, translate(err)
	}
	if _, err := s.orders.Get(ctx, orderID); err != nil {
		return thread.Message{}, translate(err)
	}

	msg, err := s.threads.Append(ctx, orderID, sender, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		return thread.Message{}, translate(err)
	}
	s.instruments.MessageAppended(ctx, string(sender))

	if s.publisher != nil {
		event := MessagePostedEvent{
			OrderID: msg.OrderID,
			ID:      msg.ID,
			Sender:  string(msg.Sender),
			Body:    msg.Body,
			SentAt:  msg.SentAt,
		}
		if err := messaging.PublishEvent(ctx, s.publisher, s.producer, EventMessagePosted, orderID, event); err != nil {
			s.logger.Error("publish message posted", zap.String("id", orderID), zap.Int64("seq", msg.ID), zap.Error(err))
		}
	}

	return msg, nil
}

// MessagePostedEvent carries one appended support message.
type MessagePostedEvent struct {
	OrderID string    `json:"order_id"`
	ID      int64     `json:"id"`
	Sender  string    `json:"sender"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// translate maps domain sentinels onto application errors with stable codes.
func translate(err error) error {
	var appErr *errorbank.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, lifecycle.ErrInvalidStatus):
		return errorbank.Unprocessable("order status is not recognised",
			errorbank.WithCode(errorbank.CodeInvalidStatus), errorbank.WithCause(err))
	case errors.Is(err, thread.ErrEmptyMessage):
		return errorbank.BadRequest("message body must not be empty",
			errorbank.WithCode(errorbank.CodeEmptyMessage), errorbank.WithCause(err))
	case errors.Is(err, thread.ErrInvalidSender):
		return errorbank.BadRequest("sender must be customer or admin",
			errorbank.WithCode(errorbank.CodeInvalidSender), errorbank.WithCause(err))
	case errors.Is(err, repoorder.ErrNotFound):
		return errorbank.NotFound("order not found",
			errorbank.WithCode(errorbank.CodeUnknownOrder), errorbank.WithCause(err))
	default:
		return errorbank.Internal("tracking failure", errorbank.WithCause(err))
	}
}
