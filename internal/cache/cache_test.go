package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/rentcamp/internal/config"
)

type mapStore map[string][]byte

func (m mapStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (m mapStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m[key] = value
	return nil
}

func (m mapStore) Delete(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

func TestKeys(t *testing.T) {
	keys := NewKeys(config.Config{Cache: config.Cache{KeyPrefix: "rentcamp:"}})
	assert.Equal(t, "rentcamp:orders:RC-1", keys.Order("RC-1"))

	assert.Equal(t, "orders:RC-1", Keys{}.Order("RC-1"))
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	store := mapStore{}

	type snapshot struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	require.NoError(t, SetJSON(ctx, store, "k", snapshot{ID: "RC-1", Status: "shipped"}, time.Minute))

	var got snapshot
	require.NoError(t, GetJSON(ctx, store, "k", &got))
	assert.Equal(t, "shipped", got.Status)

	assert.ErrorIs(t, GetJSON(ctx, store, "missing", &got), ErrCacheMiss)
	assert.ErrorIs(t, GetJSON(ctx, nil, "k", &got), ErrCacheMiss)

	store["bad"] = []byte("{")
	assert.Error(t, GetJSON(ctx, store, "bad", &got))
}

func TestNoopStore(t *testing.T) {
	ctx := context.Background()
	var s noopStore
	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
