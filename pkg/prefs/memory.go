package prefs

import (
	"log/slog"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store. It is the process default and the
// store used throughout the tests.
type MemoryStore struct {
	*notifier

	mu     sync.RWMutex
	values map[string]any
	logger *slog.Logger
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notifier: newNotifier(),
		values:   map[string]any{},
		logger:   slog.Default(),
	}
}

func (s *MemoryStore) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key string, value any) {
	v, ok := normalize(value)
	if !ok {
		warnUnsupported(s.logger, key, value)
		return
	}
	s.mu.Lock()
	s.values[key] = v
	s.mu.Unlock()
	s.bump()
}

func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	_, existed := s.values[key]
	delete(s.values, key)
	s.mu.Unlock()
	if existed {
		s.bump()
	}
}

func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}
