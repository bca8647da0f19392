package portal

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bookfair/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache is an in-memory stand-in for the Redis-backed cache service.
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := m.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}

func (m *memoryCache) Exists(ctx context.Context, key string) bool {
	_, ok := m.entries[key]
	return ok
}

func (m *memoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := m.Get(ctx, key, dest); err == nil {
		return nil
	}
	data, err := fetcher()
	if err != nil {
		return err
	}
	if err := m.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	return m.Get(ctx, key, dest)
}

func (m *memoryCache) Ping(ctx context.Context) error {
	return nil
}

func TestSessionStore_ConsumeReturnsHandoffOnce(t *testing.T) {
	store := NewSessionStore(newMemoryCache(), time.Minute)
	ctx := context.Background()

	selection := NewSelectionSet(DefaultMaxSelection)
	require.NoError(t, selection.Add(availableStall("ST-001", 120)))

	require.NoError(t, store.Save(ctx, "user-1", &SelectionHandoff{
		Selection:       selection,
		ReservationDate: "2026-10-01",
	}))

	handoff, err := store.Consume(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, handoff)
	assert.Equal(t, "2026-10-01", handoff.ReservationDate)
	assert.Equal(t, 1, handoff.Selection.Size())
	assert.Equal(t, 120.0, handoff.Selection.Total())

	// A second read must come back empty
	again, err := store.Consume(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestSessionStore_ConsumeWithoutSave(t *testing.T) {
	store := NewSessionStore(newMemoryCache(), time.Minute)

	handoff, err := store.Consume(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Nil(t, handoff)
}

func TestSessionStore_DiscardDropsHandoff(t *testing.T) {
	store := NewSessionStore(newMemoryCache(), time.Minute)
	ctx := context.Background()

	selection := NewSelectionSet(DefaultMaxSelection)
	require.NoError(t, selection.Add(availableStall("ST-001", 100)))
	require.NoError(t, store.Save(ctx, "user-1", &SelectionHandoff{Selection: selection}))

	require.NoError(t, store.Discard(ctx, "user-1"))

	handoff, err := store.Consume(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, handoff)
}

func TestSessionStore_IsolatedPerUser(t *testing.T) {
	store := NewSessionStore(newMemoryCache(), time.Minute)
	ctx := context.Background()

	selection := NewSelectionSet(DefaultMaxSelection)
	require.NoError(t, selection.Add(availableStall("ST-001", 100)))
	require.NoError(t, store.Save(ctx, "user-1", &SelectionHandoff{Selection: selection}))

	other, err := store.Consume(ctx, "user-2")
	require.NoError(t, err)
	assert.Nil(t, other)

	own, err := store.Consume(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, own)
}
