package thread

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps threads in process memory. Appends to one order are
// serialized by that thread's lock; different orders proceed in parallel.
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string]*memoryThread
	now     func() time.Time
}

type memoryThread struct {
	mu       sync.RWMutex
	lastSeq  int64
	messages []Message
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		threads: make(map[string]*memoryThread),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Append records a message at the end of the order's thread.
func (s *MemoryStore) Append(_ context.Context, orderID string, sender Sender, body string) (Message, error) {
	if err := Validate(sender, body); err != nil {
		return Message{}, err
	}

	t := s.thread(orderID)
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastSeq++
	msg := Message{
		ID:      t.lastSeq,
		OrderID: orderID,
		Sender:  sender,
		Body:    body,
		SentAt:  s.now(),
	}
	t.messages = append(t.messages, msg)
	return msg, nil
}

// List returns a snapshot of the thread in send order.
func (s *MemoryStore) List(_ context.Context, orderID string) ([]Message, error) {
	s.mu.RLock()
	t, ok := s.threads[orderID]
	s.mu.RUnlock()
	if !ok {
		return []Message{}, nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out, nil
}

func (s *MemoryStore) thread(orderID string) *memoryThread {
	s.mu.RLock()
	t, ok := s.threads[orderID]
	s.mu.RUnlock()
	if ok {
		return t
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok = s.threads[orderID]; ok {
		return t
	}
	t = &memoryThread{}
	s.threads[orderID] = t
	return t
}
