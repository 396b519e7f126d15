package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/rentcamp/internal/config"
)

const defaultRoutingKey = "events"

// rabbitClient publishes events to a durable topic exchange, routed by event
// type, and consumes them from a single durable queue bound to every key.
type rabbitClient struct {
	cfg    config.RabbitMQ
	logger *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	pub  *amqp.Channel
}

func newRabbitClient(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (Client, error) {
	client := &rabbitClient{cfg: cfg.Messaging.RabbitMQ, logger: logger}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.connect()
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("closing rabbitmq client")
			return client.close()
		},
	})

	return client, nil
}

func (r *rabbitClient) connect() error {
	conn, err := amqp.Dial(r.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(r.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(r.cfg.Queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(r.cfg.Queue, "#", r.cfg.Exchange, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("bind queue: %w", err)
	}

	r.mu.Lock()
	r.conn, r.pub = conn, ch
	r.mu.Unlock()

	r.logger.Info("rabbitmq connected", zap.String("exchange", r.cfg.Exchange), zap.String("queue", r.cfg.Queue))
	return nil
}

func (r *rabbitClient) close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil || r.conn.IsClosed() {
		return nil
	}
	return r.conn.Close()
}

func (r *rabbitClient) Publish(ctx context.Context, key []byte, value []byte, headers map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pub == nil || r.pub.IsClosed() {
		return errors.New("rabbitmq channel is not open")
	}

	routingKey := headers[HeaderEventType]
	if routingKey == "" {
		routingKey = defaultRoutingKey
	}

	table := amqp.Table{}
	for name, v := range headers {
		table[name] = v
	}

	return r.pub.PublishWithContext(ctx, r.cfg.Exchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    string(key),
		Headers:      table,
		Body:         value,
	})
}

func (r *rabbitClient) Consume(ctx context.Context, handler Handler) error {
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil || conn.IsClosed() {
		return errors.New("rabbitmq connection is not open")
	}

	// One channel per consumer; deliveries on a channel are not shared across goroutines.
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(r.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(r.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}

			msg := Message{
				Topic:   d.RoutingKey,
				Key:     []byte(d.MessageId),
				Value:   d.Body,
				Headers: amqpHeaders(d.Headers),
				Offset:  int64(d.DeliveryTag),
				Time:    d.Timestamp,
			}

			if err := handler(ctx, msg); err != nil {
				r.logger.Error("message handler failed", zap.Error(err), zap.String("routing_key", d.RoutingKey))
				_ = d.Nack(false, true)
				continue
			}
			if err := d.Ack(false); err != nil {
				r.logger.Warn("ack failed", zap.Error(err))
			}
		}
	}
}

func (r *rabbitClient) Topic() string { return r.cfg.Exchange }

func amqpHeaders(table amqp.Table) map[string]string {
	if len(table) == 0 {
		return nil
	}
	m := make(map[string]string, len(table))
	for k, v := range table {
		switch val := v.(type) {
		case string:
			m[k] = val
		case []byte:
			m[k] = string(val)
		default:
			m[k] = fmt.Sprint(val)
		}
	}
	return m
}
