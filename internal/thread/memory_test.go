package thread

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const testOrderID = "RC-20240115-ABC123DEF"

func TestMemoryStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	fixed := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	empty, err := store.List(ctx, testOrderID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	first, err := store.Append(ctx, testOrderID, SenderCustomer, "Kapan dikirim?")
	require.NoError(t, err)
	second, err := store.Append(ctx, testOrderID, SenderAdmin, "Besok pagi")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, fixed, first.SentAt)

	messages, err := store.List(ctx, testOrderID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, first, messages[0])
	assert.Equal(t, SenderAdmin, messages[1].Sender)
	assert.Equal(t, "Besok pagi", messages[1].Body)
}

func TestMemoryStore_RejectsBlankBody(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Append(ctx, testOrderID, SenderCustomer, "halo")
	require.NoError(t, err)

	for _, body := range []string{"", "   ", "\n\t "} {
		_, err := store.Append(ctx, testOrderID, SenderCustomer, body)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}

	messages, err := store.List(ctx, testOrderID)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	next, err := store.Append(ctx, testOrderID, SenderAdmin, "ok")
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.ID)
}

func TestMemoryStore_RejectsUnknownSender(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Append(context.Background(), testOrderID, Sender("bot"), "hi")
	assert.ErrorIs(t, err, ErrInvalidSender)
}

func TestMemoryStore_ThreadsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a, err := store.Append(ctx, "RC-1", SenderCustomer, "a")
	require.NoError(t, err)
	b, err := store.Append(ctx, "RC-2", SenderCustomer, "b")
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(1), b.ID)
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	const writers, perWriter = 16, 50

	var g errgroup.Group
	for w := 0; w < writers; w++ {
		g.Go(func() error {
			for i := 0; i < perWriter; i++ {
				if _, err := store.Append(ctx, testOrderID, SenderCustomer, fmt.Sprintf("w%d-%d", w, i)); err != nil {
					return err
				}
				if _, err := store.List(ctx, testOrderID); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	messages, err := store.List(ctx, testOrderID)
	require.NoError(t, err)
	require.Len(t, messages, writers*perWriter)

	seen := make(map[int64]bool, len(messages))
	for i, msg := range messages {
		assert.Equal(t, int64(i+1), msg.ID)
		assert.False(t, seen[msg.ID], "duplicate id %d", msg.ID)
		seen[msg.ID] = true
	}
}

func TestParseSender(t *testing.T) {
	s, err := ParseSender("user")
	require.NoError(t, err)
	assert.Equal(t, SenderCustomer, s)

	s, err = ParseSender("Admin")
	require.NoError(t, err)
	assert.Equal(t, SenderAdmin, s)

	_, err = ParseSender("system")
	assert.ErrorIs(t, err, ErrInvalidSender)
}
