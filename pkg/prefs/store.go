// Package prefs provides the key-value preference stores that flags read
// from and write to. Every store exposes a payload-free change signal that
// fires whenever any key is written.
package prefs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/imkira/go-observer/v2"
)

// Store is a process-wide scalar preference store. Values are bool, int or
// string. Reads of absent keys report ok=false; writes never fail from the
// caller's point of view.
type Store interface {
	// Lookup returns the raw stored value for key.
	Lookup(key string) (any, bool)
	// Set stores value under key. Only bool, int and string are accepted.
	Set(key string, value any)
	// Remove deletes key.
	Remove(key string)
	// Keys returns the stored keys in sorted order.
	Keys() []string
	// Observe returns a new stream over the store revision. The revision
	// changes after every write and carries no key information.
	Observe() observer.Stream[uint64]
}

// Override is a raw string value injected from outside the store (for
// example an environment variable). The typed accessors parse it instead of
// treating it as a plain string.
type Override string

var (
	defaultMu    sync.RWMutex
	defaultStore Store = NewMemoryStore()
)

// Default returns the store used by flags that were not given one.
func Default() Store {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultStore
}

// SetDefault replaces the store used by flags that were not given one.
// Flags capture the default at construction time.
func SetDefault(s Store) {
	if s == nil {
		return
	}
	defaultMu.Lock()
	defaultStore = s
	defaultMu.Unlock()
}

// Bool reads key as a boolean.
func Bool(s Store, key string) (bool, bool) {
	raw, ok := s.Lookup(key)
	if !ok {
		return false, false
	}
	switch v := raw.(type) {
	case bool:
		return v, true
	case Override:
		return parseBool(string(v))
	}
	return false, false
}

// Int reads key as an integer. Whole floating point numbers are accepted
// since JSON backends decode numbers that way.
func Int(s Store, key string) (int, bool) {
	raw, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		// NaN fails the Trunc check; the range check also rejects ±Inf.
		if v != math.Trunc(v) || v < math.MinInt || v >= -math.MinInt {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case Override:
		n, err := strconv.Atoi(strings.TrimSpace(string(v)))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// String reads key as a string.
func String(s Store, key string) (string, bool) {
	raw, ok := s.Lookup(key)
	if !ok {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case Override:
		return string(v), true
	}
	return "", false
}

// normalize maps accepted scalar types onto bool, int or string.
func normalize(value any) (any, bool) {
	switch v := value.(type) {
	case bool, int, string:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case Override:
		return string(v), true
	}
	return nil, false
}

func parseBool(value string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "1", "true", "on", "yes":
		return true, true
	case "0", "false", "off", "no":
		return false, true
	default:
		return false, false
	}
}

// notifier carries the revision counter shared by every backend.
type notifier struct {
	mu       sync.Mutex
	revision uint64
	prop     observer.Property[uint64]
}

func newNotifier() *notifier {
	return &notifier{prop: observer.NewProperty[uint64](0)}
}

func (n *notifier) bump() {
	n.mu.Lock()
	n.revision++
	n.prop.Update(n.revision)
	n.mu.Unlock()
}

func (n *notifier) Observe() observer.Stream[uint64] {
	return n.prop.Observe()
}

func warnUnsupported(logger *slog.Logger, key string, value any) {
	logger.Warn("prefs: unsupported value type", "key", key, "type", typeName(value))
}

func typeName(value any) string {
	return fmt.Sprintf("%T", value)
}
