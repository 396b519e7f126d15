package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/rentcamp/internal/cache"
	"github.com/Additional-Code/rentcamp/internal/config"
	"github.com/Additional-Code/rentcamp/internal/entity"
	"github.com/Additional-Code/rentcamp/internal/lifecycle"
	"github.com/Additional-Code/rentcamp/internal/messaging"
	"github.com/Additional-Code/rentcamp/internal/observability"
	repo "github.com/Additional-Code/rentcamp/internal/repository/order"
	"github.com/Additional-Code/rentcamp/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/rentcamp/service/order")

// Event types published by the order service.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_repository.go -package=mocks

// Repository is the persistence contract the service depends on.
type Repository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error
}

// Service encapsulates business logic around orders.
type Service struct {
	repo        Repository
	cache       cache.Store
	keys        cache.Keys
	cacheTTL    time.Duration
	logger      *zap.Logger
	publisher   messaging.Client
	producer    string
	instruments *observability.Instruments
	now         func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository  Repository
	Cache       cache.Store
	Keys        cache.Keys
	Config      config.Config
	Logger      *zap.Logger
	Publisher   messaging.Client
	Instruments *observability.Instruments `optional:"true"`
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:        p.Repository,
		cache:       p.Cache,
		keys:        p.Keys,
		cacheTTL:    p.Config.Cache.DefaultTTL,
		logger:      p.Logger,
		publisher:   p.Publisher,
		producer:    p.Config.Observability.ServiceName,
		instruments: p.Instruments,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	var cached entity.Order
	err := cache.GetJSON(ctx, s.cache, s.keys.Order(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.String("id", id), zap.Error(err))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, unknownOrder(id, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := cache.SetJSON(ctx, s.cache, s.keys.Order(id), order, s.cacheTTL); err != nil {
		s.logger.Warn("orders cache write failed", zap.String("id", id), zap.Error(err))
	}

	return order, nil
}

// PlaceInput carries the checkout fields of a new order.
type PlaceInput struct {
	PackageName     string
	CustomerName    string
	Address         string
	TotalPrice      int64
	RentalStartDate time.Time
	RentalEndDate   time.Time
}

func (in PlaceInput) validate() error {
	details := map[string]any{}
	if strings.TrimSpace(in.PackageName) == "" {
		details["package_name"] = "required"
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		details["customer_name"] = "required"
	}
	if strings.TrimSpace(in.Address) == "" {
		details["address"] = "required"
	}
	if in.TotalPrice < 0 {
		details["total_price"] = "must not be negative"
	}
	if in.RentalStartDate.IsZero() || in.RentalEndDate.IsZero() {
		details["rental_period"] = "start and end dates are required"
	} else if in.RentalEndDate.Before(in.RentalStartDate) {
		details["rental_period"] = "end date precedes start date"
	}
	if len(details) > 0 {
		return errorbank.BadRequest("invalid order", errorbank.WithDetails(details))
	}
	return nil
}

// Place creates a new order awaiting payment.
func (s *Service) Place(ctx context.Context, in PlaceInput) (*entity.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := s.now()
	order := &entity.Order{
		ID:              NewOrderID(now),
		Status:          string(lifecycle.StatusPaymentPending),
		PackageName:     strings.TrimSpace(in.PackageName),
		CustomerName:    strings.TrimSpace(in.CustomerName),
		Address:         strings.TrimSpace(in.Address),
		TotalPrice:      in.TotalPrice,
		OrderDate:       now,
		RentalStartDate: in.RentalStartDate,
		RentalEndDate:   in.RentalEndDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	ctx, span := serviceTracer.Start(ctx, "OrderService.Place", trace.WithAttributes(attribute.String("order.id", order.ID)))
	defer span.End()

	if err := s.repo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	if err := cache.SetJSON(ctx, s.cache, s.keys.Order(order.ID), order, s.cacheTTL); err != nil {
		s.logger.Warn("orders cache write failed", zap.String("id", order.ID), zap.Error(err))
	}

	s.publish(ctx, EventOrderPlaced, order.ID, OrderPlacedEvent{
		OrderID:    order.ID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		PlacedAt:   order.CreatedAt,
	})
	return order, nil
}

// UpdateStatus advances an order to a later lifecycle stage.
func (s *Service) UpdateStatus(ctx context.Context, id, rawStatus string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.status.to", rawStatus),
	))
	defer span.End()

	to, err := lifecycle.ParseStatus(rawStatus)
	if err != nil {
		return nil, invalidStatus(rawStatus, err)
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, unknownOrder(id, err)
		}
		span.RecordError(err)
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	from := lifecycle.Status(order.Status)
	if !lifecycle.CanAdvance(from, to) {
		return nil, errorbank.Conflict(
			fmt.Sprintf("order cannot move from %s to %s", from, to),
			errorbank.WithCode(errorbank.CodeInvalidTransition),
			errorbank.WithDetail("from", string(from)),
			errorbank.WithDetail("to", string(to)),
		)
	}

	now := s.now()
	if err := s.repo.UpdateStatus(ctx, id, string(from), string(to), now); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, unknownOrder(id, err)
		case errors.Is(err, repo.ErrStatusChanged):
			return nil, errorbank.Conflict("order status changed concurrently",
				errorbank.WithCode(errorbank.CodeInvalidTransition), errorbank.WithCause(err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update order", errorbank.WithCause(err))
	}

	order.Status = string(to)
	order.UpdatedAt = now

	if err := s.Invalidate(ctx, id); err != nil {
		s.logger.Warn("orders cache invalidation failed", zap.String("id", id), zap.Error(err))
	}
	s.instruments.StatusTransitioned(ctx, string(to))
	s.publish(ctx, EventOrderStatusChanged, id, StatusChangedEvent{
		OrderID:   id,
		From:      string(from),
		To:        string(to),
		ChangedAt: now,
	})

	s.logger.Info("order status advanced", zap.String("id", id), zap.String("from", string(from)), zap.String("to", string(to)))
	return order, nil
}

// Invalidate drops the cached snapshot of an order.
func (s *Service) Invalidate(ctx context.Context, id string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, s.keys.Order(id))
}

func (s *Service) publish(ctx context.Context, eventType, orderID string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := messaging.PublishEvent(ctx, s.publisher, s.producer, eventType, orderID, payload); err != nil {
		s.logger.Error("publish order event", zap.String("event_type", eventType), zap.String("id", orderID), zap.Error(err))
	}
}

// NewOrderID formats an order id as RC-YYYYMMDD-XXXXXXXXX.
func NewOrderID(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("RC-%s-%s", at.Format("20060102"), suffix)
}

func unknownOrder(id string, cause error) error {
	return errorbank.NotFound("order not found",
		errorbank.WithCode(errorbank.CodeUnknownOrder),
		errorbank.WithDetail("order_id", id),
		errorbank.WithCause(cause),
	)
}

func invalidStatus(raw string, cause error) error {
	return errorbank.Unprocessable("unrecognised order status",
		errorbank.WithCode(errorbank.CodeInvalidStatus),
		errorbank.WithDetail("status", raw),
		errorbank.WithCause(cause),
	)
}

// OrderPlacedEvent is emitted when a new order is persisted.
type OrderPlacedEvent struct {
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	TotalPrice int64     `json:"total_price"`
	PlacedAt   time.Time `json:"placed_at"`
}

// StatusChangedEvent is emitted after an order advances a stage.
type StatusChangedEvent struct {
	OrderID   string    `json:"order_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}
