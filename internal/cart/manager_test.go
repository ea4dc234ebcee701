package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkaify/Nova-Threads/internal/domain"
	"github.com/Mkaify/Nova-Threads/internal/notify"
)

// blockingStorage parks the first Load until released so tests can catch a
// store mid-rehydration.
type blockingStorage struct {
	*MemoryStorage
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingStorage() *blockingStorage {
	return &blockingStorage{
		MemoryStorage: NewMemoryStorage(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
}

func (b *blockingStorage) Load(ctx context.Context, key string) (*domain.Cart, error) {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
	return b.MemoryStorage.Load(ctx, key)
}

func TestForSession_ReturnsSameStore(t *testing.T) {
	m := NewManager(NewMemoryStorage(), notify.LogNotifier{})
	ctx := context.Background()

	first := m.ForSession(ctx, "s1")
	second := m.ForSession(ctx, "s1")
	assert.Same(t, first, second)

	other := m.ForSession(ctx, "s2")
	assert.NotSame(t, first, other)
}

func TestForSession_MutationsWaitForRehydration(t *testing.T) {
	storage := newBlockingStorage()
	ctx := context.Background()
	require.NoError(t, storage.MemoryStorage.Save(ctx, "s1", &domain.Cart{Items: []domain.CartItem{
		{ProductID: "old", Name: "Saved earlier", Price: 5, Quantity: 1},
	}}))

	m := NewManager(storage, notify.LogNotifier{})

	go m.ForSession(ctx, "s1")
	<-storage.entered

	// A second request for the same session arrives while the first is still
	// loading the persisted snapshot. Its mutation must not run until the
	// load finishes, or either side's state would be clobbered.
	added := make(chan *Store)
	go func() {
		store := m.ForSession(ctx, "s1")
		store.AddItem(domain.Product{ID: "new", Name: "Added now", Price: 10}, "", "")
		added <- store
	}()

	select {
	case <-added:
		t.Fatal("mutation ran before rehydration finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(storage.release)
	store := <-added

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "old", items[0].ProductID)
	assert.Equal(t, "new", items[1].ProductID)
}

func TestForSession_EvictsIdleSessions(t *testing.T) {
	m := NewManager(NewMemoryStorage(), notify.LogNotifier{})
	ctx := context.Background()

	first := m.ForSession(ctx, "idle")
	first.AddItem(domain.Product{ID: "p1", Price: 5}, "", "")

	m.mu.Lock()
	m.sessions["idle"].lastSeen = time.Now().Add(-2 * sessionIdleTTL)
	m.lastSweep = time.Time{}
	m.mu.Unlock()

	m.ForSession(ctx, "other")

	m.mu.Lock()
	_, kept := m.sessions["idle"]
	m.mu.Unlock()
	assert.False(t, kept)

	// Eviction only frees memory; the persisted snapshot rehydrates a fresh
	// store on the next request.
	again := m.ForSession(ctx, "idle")
	assert.NotSame(t, first, again)
	items := again.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
}

func TestForSession_RecentSessionsSurviveSweep(t *testing.T) {
	m := NewManager(NewMemoryStorage(), notify.LogNotifier{})
	ctx := context.Background()

	first := m.ForSession(ctx, "active")

	m.mu.Lock()
	m.lastSweep = time.Time{}
	m.mu.Unlock()

	m.ForSession(ctx, "other")
	assert.Same(t, first, m.ForSession(ctx, "active"))
}
