package cart

import (
	"context"
	"sync"
	"time"

	"github.com/Mkaify/Nova-Threads/internal/notify"
)

const (
	// Idle sessions are dropped from memory; their durable snapshot stays in
	// Storage and is rehydrated on the next request.
	sessionIdleTTL = 30 * time.Minute
	sweepInterval  = time.Minute
)

// Manager hands out one Store per session key, constructing and rehydrating
// it on first use. Stores are shared by every consumer of that session.
type Manager struct {
	mu        sync.Mutex
	storage   Storage
	notifier  notify.Notifier
	sessions  map[string]*session
	lastSweep time.Time
}

type session struct {
	store    *Store
	lastSeen time.Time
}

func NewManager(storage Storage, notifier notify.Notifier) *Manager {
	return &Manager{
		storage:  storage,
		notifier: notifier,
		sessions: make(map[string]*session),
	}
}

// ForSession returns the session's cart store. The store is rehydrated from
// persisted state before it is returned; concurrent callers for the same
// session wait for that load instead of mutating a half-initialized cart.
func (m *Manager) ForSession(ctx context.Context, key string) *Store {
	now := time.Now()

	m.mu.Lock()
	m.sweep(now)
	entry, ok := m.sessions[key]
	if !ok {
		entry = &session{store: NewStore(key, m.storage, m.notifier)}
		m.sessions[key] = entry
	}
	entry.lastSeen = now
	store := entry.store
	m.mu.Unlock()

	store.Load(ctx)
	return store
}

// sweep drops stores idle past sessionIdleTTL. Called with mu held; runs at
// most once per sweepInterval.
func (m *Manager) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now
	for key, entry := range m.sessions {
		if now.Sub(entry.lastSeen) > sessionIdleTTL {
			delete(m.sessions, key)
		}
	}
}
