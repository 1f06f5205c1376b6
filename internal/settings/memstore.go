package settings

import "sync"

// MemStore is an in-memory Store. It backs tests and serves as the store
// of record when no persistence path is configured.
type MemStore struct {
	*notifier
	mu     sync.RWMutex
	values map[string]any
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		notifier: newNotifier(),
		values:   make(map[string]any),
	}
}

func (m *MemStore) get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemStore) set(key string, v any) {
	m.mu.Lock()
	prev, had := m.values[key]
	m.values[key] = v
	m.mu.Unlock()
	if had && prev == v {
		return
	}
	m.changed(key)
}

// GetBool returns the stored value or the key's default.
func (m *MemStore) GetBool(key string) bool {
	if v, ok := m.get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultBool(key)
}

// GetInt returns the stored value or the key's default.
func (m *MemStore) GetInt(key string) int {
	if v, ok := m.get(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return defaultInt(key)
}

// GetDouble returns the stored value or the key's default.
func (m *MemStore) GetDouble(key string) float64 {
	if v, ok := m.get(key); ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return defaultDouble(key)
}

// GetString returns the stored value or the key's default.
func (m *MemStore) GetString(key string) string {
	if v, ok := m.get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultString(key)
}

func (m *MemStore) SetBool(key string, v bool)      { m.set(key, v) }
func (m *MemStore) SetInt(key string, v int)        { m.set(key, v) }
func (m *MemStore) SetDouble(key string, v float64) { m.set(key, v) }
func (m *MemStore) SetString(key string, v string)  { m.set(key, v) }

func (m *MemStore) Subscribe(key string, fn ChangeFunc) Subscription {
	return m.subscribe(key, fn)
}

func (m *MemStore) Unsubscribe(sub Subscription) { m.unsubscribe(sub) }

func (m *MemStore) BeginBatch()  { m.begin() }
func (m *MemStore) CommitBatch() { m.commit() }
