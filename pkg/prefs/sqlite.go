package prefs

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const prefsSchema = `CREATE TABLE IF NOT EXISTS prefs (
	key        TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
)`

const (
	kindBool   = "bool"
	kindInt    = "int"
	kindString = "string"
)

// SQLiteStore keeps preferences in a SQLite table. All rows are cached in
// memory at open so reads never touch the database; writes go through to
// the table and failures are logged.
type SQLiteStore struct {
	*notifier

	conn   *sql.DB
	mu     sync.RWMutex
	values map[string]any
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the preference database at path
// using the pure-Go sqlite driver.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads while writes are serialized
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	conn.Exec("PRAGMA synchronous=NORMAL")

	s, err := NewSQLiteStore(conn, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an already open connection. The prefs table is
// created if missing and its rows are loaded into the cache.
func NewSQLiteStore(conn *sql.DB, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := conn.Exec(prefsSchema); err != nil {
		return nil, fmt.Errorf("create prefs table: %w", err)
	}

	s := &SQLiteStore{
		notifier: newNotifier(),
		conn:     conn,
		values:   map[string]any{},
		logger:   logger,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) load() error {
	rows, err := s.conn.Query(`SELECT key, kind, value FROM prefs`)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, kind, raw string
		if err := rows.Scan(&key, &kind, &raw); err != nil {
			return fmt.Errorf("scan prefs: %w", err)
		}
		v, ok := decodeScalar(kind, raw)
		if !ok {
			s.logger.Debug("prefs: skipping malformed row", "key", key, "kind", kind)
			continue
		}
		s.values[key] = v
	}
	return rows.Err()
}

// Close closes the underlying connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *SQLiteStore) Set(key string, value any) {
	v, ok := normalize(value)
	if !ok {
		warnUnsupported(s.logger, key, value)
		return
	}
	kind, raw := encodeScalar(v)

	s.mu.Lock()
	s.values[key] = v
	s.mu.Unlock()

	_, err := s.conn.Exec(
		`INSERT OR REPLACE INTO prefs (key, kind, value, updated_at) VALUES (?, ?, ?, ?)`,
		key, kind, raw, time.Now().UTC(),
	)
	if err != nil {
		s.logger.Warn("prefs: write row", "key", key, "err", err)
	}
	s.bump()
}

func (s *SQLiteStore) Remove(key string) {
	s.mu.Lock()
	_, existed := s.values[key]
	delete(s.values, key)
	s.mu.Unlock()
	if !existed {
		return
	}

	if _, err := s.conn.Exec(`DELETE FROM prefs WHERE key = ?`, key); err != nil {
		s.logger.Warn("prefs: delete row", "key", key, "err", err)
	}
	s.bump()
}

func (s *SQLiteStore) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

func encodeScalar(v any) (string, string) {
	switch tv := v.(type) {
	case bool:
		return kindBool, strconv.FormatBool(tv)
	case int:
		return kindInt, strconv.Itoa(tv)
	default:
		return kindString, fmt.Sprint(tv)
	}
}

func decodeScalar(kind, raw string) (any, bool) {
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(raw)
		return b, err == nil
	case kindInt:
		n, err := strconv.Atoi(raw)
		return n, err == nil
	case kindString:
		return raw, true
	}
	return nil, false
}
