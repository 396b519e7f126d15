package thread

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrEmptyMessage is returned when a message body is blank after trimming.
	ErrEmptyMessage = errors.New("message body is empty")
	// ErrInvalidSender is returned for sender labels other than customer or admin.
	ErrInvalidSender = errors.New("invalid message sender")
)

// Sender identifies which side of the support conversation wrote a message.
type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderAdmin    Sender = "admin"
)

// ParseSender accepts "customer" or "admin". The legacy "user" label maps to customer.
func ParseSender(raw string) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "customer", "user":
		return SenderCustomer, nil
	case "admin":
		return SenderAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSender, raw)
	}
}

// Valid reports whether s is one of the two known senders.
func (s Sender) Valid() bool {
	return s == SenderCustomer || s == SenderAdmin
}

// Message is one entry in an order's support thread.
type Message struct {
	// ID is the per-thread sequence number, starting at 1.
	ID      int64     `json:"id"`
	OrderID string    `json:"order_id"`
	Sender  Sender    `json:"sender"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// Store persists support threads keyed by order id. Callers check that the
// order exists; implementations are not required to.
type Store interface {
	Append(ctx context.Context, orderID string, sender Sender, body string) (Message, error)
	List(ctx context.Context, orderID string) ([]Message, error)
}

// Validate checks the append arguments without touching any state.
func Validate(sender Sender, body string) error {
	if !sender.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSender, string(sender))
	}
	if strings.TrimSpace(body) == "" {
		return ErrEmptyMessage
	}
	return nil
}
