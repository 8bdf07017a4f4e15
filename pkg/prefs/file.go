package prefs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileStore keeps preferences in a JSON object on disk. The file is read
// at open. Every write re-reads the file under an advisory lock, applies
// the one change, writes it back atomically and refreshes the cache, so
// other stores on the same path keep their keys.
type FileStore struct {
	*notifier

	path    string
	writeMu sync.Mutex
	mu      sync.RWMutex
	values  map[string]any
	logger  *slog.Logger
}

// OpenFile loads (or prepares) the preference file at path.
func OpenFile(path string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &FileStore{
		notifier: newNotifier(),
		path:     path,
		values:   map[string]any{},
		logger:   logger,
	}

	values, err := readPrefsFile(path)
	if err != nil {
		return nil, err
	}
	s.values = values
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Set(key string, value any) {
	v, ok := normalize(value)
	if !ok {
		warnUnsupported(s.logger, key, value)
		return
	}
	s.update(func(values map[string]any) bool {
		values[key] = v
		return true
	})
	s.bump()
}

func (s *FileStore) Remove(key string) {
	removed := s.update(func(values map[string]any) bool {
		_, ok := values[key]
		delete(values, key)
		return ok
	})
	if removed {
		s.bump()
	}
}

func (s *FileStore) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// update applies change to the file's current contents under the file
// lock. If the file cannot be read or written the change is applied to the
// cache only and the failure is logged. It reports whether change did
// anything.
func (s *FileStore) update(change func(map[string]any) bool) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var (
		onDisk  map[string]any
		changed bool
	)
	err := WithFileLock(s.path+".lock", func() error {
		values, err := readPrefsFile(s.path)
		if err != nil {
			return err
		}
		if changed = change(values); !changed {
			onDisk = values
			return nil
		}
		if err := writePrefsFile(s.path, values); err != nil {
			return err
		}
		onDisk = values
		return nil
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("prefs: write file", "path", s.path, "err", err)
		return change(s.values)
	}
	s.values = onDisk
	return changed
}

func readPrefsFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode prefs %s: %w", path, err)
	}

	values := make(map[string]any, len(raw))
	for k, v := range raw {
		switch tv := v.(type) {
		case json.Number:
			if n, err := tv.Int64(); err == nil {
				values[k] = int(n)
				continue
			}
			values[k] = tv
		default:
			// Nested objects and arrays are kept as-is; the typed
			// accessors treat them as malformed.
			values[k] = v
		}
	}
	return values, nil
}

// writePrefsFile writes values using temp file + rename.
func writePrefsFile(path string, values map[string]any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "prefs-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}

// WithFileLock runs fn while holding an exclusive advisory lock on
// lockPath, serializing writers of the same file across processes.
func WithFileLock(lockPath string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("lock %s: %w", lockPath, err)
	}
	defer unlockFile(f)

	return fn()
}
