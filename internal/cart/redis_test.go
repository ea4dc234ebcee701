package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkaify/Nova-Threads/internal/domain"
	"github.com/Mkaify/Nova-Threads/internal/notify"
)

// setupTestRedis creates a miniredis server and returns a RedisStorage instance
func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	storage := NewRedisStorage(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return storage, mr, cleanup
}

func TestRedisLoad_Success(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cart := &domain.Cart{Items: []domain.CartItem{
		{ProductID: "a", Price: 10, Quantity: 2},
		{ProductID: "b", Price: 5, Quantity: 1, SelectedSize: "M"},
	}}
	data, _ := json.Marshal(cart)
	mr.Set(storageKey("sid-1"), string(data))

	got, err := storage.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "a", got.Items[0].ProductID)
	assert.Equal(t, 25.0, got.Total())
	assert.Equal(t, 3, got.Count())
}

func TestRedisLoad_Missing(t *testing.T) {
	storage, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := storage.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisLoad_CorruptData(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(storageKey("sid-1"), "{not json")

	_, err := storage.Load(context.Background(), "sid-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisSaveThenLoad(t *testing.T) {
	storage, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{Items: []domain.CartItem{
		{ProductID: "a", Price: 19.99, Quantity: 3, SelectedColor: "black"},
	}}

	require.NoError(t, storage.Save(ctx, "sid-1", cart))

	got, err := storage.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, cart.Items, got.Items)
	assert.Equal(t, cart.Total(), got.Total())
}

func TestRedisDelete(t *testing.T) {
	storage, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, storage.Save(ctx, "sid-1", &domain.Cart{}))
	require.NoError(t, storage.Delete(ctx, "sid-1"))

	_, err := storage.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Store wired to the real storage implementation: a corrupt snapshot must
// yield an empty cart on startup, never a failure.
func TestStoreLoad_CorruptSnapshotStartsEmpty(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(storageKey("sid-1"), "garbage")

	sut := NewStore("sid-1", storage, &notify.Recorder{})
	sut.Load(context.Background())

	assert.Empty(t, sut.Items())
	assert.Equal(t, 0, sut.Count())
}

func TestManager_ForSessionRehydrates(t *testing.T) {
	storage, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	mgr := NewManager(storage, &notify.Recorder{})

	first := mgr.ForSession(ctx, "sid-1")
	first.AddItem(domain.Product{ID: "a", Price: 10}, "", "")

	// Same session key returns the same store.
	again := mgr.ForSession(ctx, "sid-1")
	assert.Equal(t, 1, again.Count())

	// A fresh manager (new process) rehydrates from storage.
	mgr2 := NewManager(storage, &notify.Recorder{})
	reloaded := mgr2.ForSession(ctx, "sid-1")
	assert.Equal(t, 1, reloaded.Count())
	assert.Equal(t, 10.0, reloaded.Total())
}
