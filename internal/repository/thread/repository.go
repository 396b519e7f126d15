package thread

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/rentcamp/internal/database"
	"github.com/Additional-Code/rentcamp/internal/entity"
	repoorder "github.com/Additional-Code/rentcamp/internal/repository/order"
	"github.com/Additional-Code/rentcamp/internal/thread"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/rentcamp/repository/thread")

// Repository stores support threads in the chat_messages table.
type Repository struct {
	writer   *bun.DB
	reader   *bun.DB
	rowLocks bool
	now      func() time.Time
}

// NewRepository wires a thread repository backed by the database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer:   conns.Writer,
		reader:   conns.Reader,
		rowLocks: conns.SupportsRowLocks(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Append allocates the next sequence number and inserts the message in one
// transaction. The owning order row is locked so appends to one thread are
// serialized while other orders proceed independently.
//
// SQLite has no row locks: concurrent appends may race for the same sequence
// number or the write lock. The loser is retried a bounded number of times and
// the unique (order_id, seq) index guarantees it never stores a duplicate; once
// retries run out the error is returned.
func (r *Repository) Append(ctx context.Context, orderID string, sender thread.Sender, body string) (thread.Message, error) {
	if err := thread.Validate(sender, body); err != nil {
		return thread.Message{}, err
	}

	ctx, span := repoTracer.Start(ctx, "ThreadRepository.Append", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("chat.sender", string(sender)),
	))
	defer span.End()

	row := &entity.ChatMessage{
		OrderID: orderID,
		Sender:  string(sender),
		Body:    body,
		SentAt:  r.now(),
	}

	var err error
	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		row.ID = 0
		err = r.appendTx(ctx, orderID, row)
		if err == nil || !retryable(err) || ctx.Err() != nil {
			break
		}
		span.AddEvent("append retry", trace.WithAttributes(attribute.Int("attempt", attempt)))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		return thread.Message{}, err
	}

	return toMessage(row), nil
}

func (r *Repository) appendTx(ctx context.Context, orderID string, row *entity.ChatMessage) error {
	return r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		lock := tx.NewSelect().Model((*entity.Order)(nil)).Column("id").Where("id = ?", orderID)
		if r.rowLocks {
			lock = lock.For("UPDATE")
		}
		var id string
		if err := lock.Scan(ctx, &id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repoorder.ErrNotFound
			}
			return err
		}

		var last int64
		if err := tx.NewSelect().
			Model((*entity.ChatMessage)(nil)).
			ColumnExpr("COALESCE(MAX(seq), 0)").
			Where("order_id = ?", orderID).
			Scan(ctx, &last); err != nil {
			return err
		}

		row.Seq = last + 1
		_, err := tx.NewInsert().Model(row).Exec(ctx)
		return err
	})
}

// List returns every message of the order in sequence order.
func (r *Repository) List(ctx context.Context, orderID string) ([]thread.Message, error) {
	ctx, span := repoTracer.Start(ctx, "ThreadRepository.List", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	var rows []entity.ChatMessage
	if err := r.reader.NewSelect().
		Model(&rows).
		Where("order_id = ?", orderID).
		OrderExpr("seq ASC").
		Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}

	out := make([]thread.Message, 0, len(rows))
	for i := range rows {
		out = append(out, toMessage(&rows[i]))
	}
	return out, nil
}

func toMessage(row *entity.ChatMessage) thread.Message {
	return thread.Message{
		ID:      row.Seq,
		OrderID: row.OrderID,
		Sender:  thread.Sender(row.Sender),
		Body:    row.Body,
		SentAt:  row.SentAt,
	}
}
