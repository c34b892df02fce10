package settings

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Store persists settings as string key/value pairs.
type Store interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
}

// MemoryStore keeps settings for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Load(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

// Manager reads and writes Settings through a Store. Stored values take
// precedence over the defaults.
type Manager struct {
	store    Store
	defaults Settings
}

// NewManager creates a Manager seeded with defaults.
func NewManager(store Store, defaults Settings) *Manager {
	return &Manager{store: store, defaults: defaults}
}

// Current returns the defaults overlaid with the stored values.
func (m *Manager) Current(ctx context.Context) (Settings, error) {
	values, err := m.store.Load(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return m.defaults.Merge(values), nil
}

// Save persists every field of s, trimmed, and returns the settings as
// Current will report them, with empty fields back on their defaults.
func (m *Manager) Save(ctx context.Context, s Settings) (Settings, error) {
	values := s.Trimmed().ToMap()
	if err := m.store.Save(ctx, values); err != nil {
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	log.Printf("INFO: settings saved for camp %q", values[KeyCampNo])
	return m.defaults.Merge(values), nil
}
