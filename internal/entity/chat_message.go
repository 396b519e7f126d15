package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// ChatMessage is one row of an order's support thread.
type ChatMessage struct {
	bun.BaseModel `bun:"table:chat_messages"`

	ID      int64     `bun:",pk,autoincrement"`
	OrderID string    `bun:"order_id,notnull"`
	Seq     int64     `bun:"seq,notnull"`
	Sender  string    `bun:"sender,notnull"`
	Body    string    `bun:"body,notnull"`
	SentAt  time.Time `bun:"sent_at,notnull"`
}
