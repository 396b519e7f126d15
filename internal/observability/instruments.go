package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instruments holds the domain counters recorded by the tracking services.
type Instruments struct {
	timelineBuilds    metric.Int64Counter
	messagesAppended  metric.Int64Counter
	statusTransitions metric.Int64Counter
}

// NewInstruments registers the domain counters on the manager's meter.
func NewInstruments(m *Manager) (*Instruments, error) {
	meter := m.Meter()

	timelineBuilds, err := meter.Int64Counter("rentcamp.timeline.builds",
		metric.WithDescription("Timelines built, by outcome."))
	if err != nil {
		return nil, err
	}
	messagesAppended, err := meter.Int64Counter("rentcamp.chat.messages_appended",
		metric.WithDescription("Support messages appended, by sender."))
	if err != nil {
		return nil, err
	}
	statusTransitions, err := meter.Int64Counter("rentcamp.order.status_transitions",
		metric.WithDescription("Order status transitions, by target status."))
	if err != nil {
		return nil, err
	}

	return &Instruments{
		timelineBuilds:    timelineBuilds,
		messagesAppended:  messagesAppended,
		statusTransitions: statusTransitions,
	}, nil
}

// NopInstruments returns counters backed by a noop meter.
func NopInstruments() *Instruments {
	ins, _ := NewInstruments(nil)
	return ins
}

// TimelineBuilt records one timeline build.
func (i *Instruments) TimelineBuilt(ctx context.Context, outcome string) {
	if i == nil {
		return
	}
	i.timelineBuilds.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// MessageAppended records one appended support message.
func (i *Instruments) MessageAppended(ctx context.Context, sender string) {
	if i == nil {
		return
	}
	i.messagesAppended.Add(ctx, 1, metric.WithAttributes(attribute.String("sender", sender)))
}

// StatusTransitioned records one status change.
func (i *Instruments) StatusTransitioned(ctx context.Context, to string) {
	if i == nil {
		return
	}
	i.statusTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", to)))
}
