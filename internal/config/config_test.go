package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadMissingReturnsEmpty(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
	if cfg.Backend() != DefaultBackend || cfg.LogLevel() != DefaultLogLevel || cfg.LogFormat() != DefaultLogFormat {
		t.Errorf("defaults not applied: %s %s %s", cfg.Backend(), cfg.LogLevel(), cfg.LogFormat())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &Config{
		Store: StoreConfig{Backend: BackendSQLite, Path: "flags.db"},
		Log:   LogConfig{Level: "debug", Format: "json"},
	}
	if err := Save(dir, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	entries, _ := os.ReadDir(filepath.Dir(Path(dir)))
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(Dir(dir), 0755)
	os.WriteFile(Path(dir), []byte("{not json"), 0644)

	if _, err := Load(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{KeyStoreBackend, "sqlite", false},
		{KeyStoreBackend, "redis", true},
		{KeyStorePath, "/tmp/prefs.json", false},
		{KeyLogLevel, "DEBUG", false},
		{KeyLogLevel, "trace", true},
		{KeyLogFormat, "json", false},
		{KeyLogFormat, "xml", true},
		{KeyLogFormat, "", false},
		{"store.kind", "file", true},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			var cfg Config
			err := cfg.Apply(tc.key, tc.value)
			if (err != nil) != tc.wantErr {
				t.Errorf("Apply error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	var cfg Config
	cfg.Apply(KeyLogLevel, "DEBUG")
	if got, _ := cfg.Get(KeyLogLevel); got != "debug" {
		t.Errorf("log level stored as %q, want debug", got)
	}
}

func TestStorePath(t *testing.T) {
	base := "/work"
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default file", Config{}, filepath.Join(base, ".flagdeck", "prefs.json")},
		{"sqlite default", Config{Store: StoreConfig{Backend: BackendSQLite}}, filepath.Join(base, ".flagdeck", "prefs.db")},
		{"relative", Config{Store: StoreConfig{Path: "x/p.json"}}, filepath.Join(base, "x", "p.json")},
		{"absolute", Config{Store: StoreConfig{Path: "/etc/p.json"}}, "/etc/p.json"},
		{"memory", Config{Store: StoreConfig{Backend: BackendMemory}}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.StorePath(base); got != tc.want {
				t.Errorf("StorePath = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSetConcurrent(t *testing.T) {
	dir := t.TempDir()

	var wg sync.WaitGroup
	for _, kv := range [][2]string{
		{KeyStoreBackend, BackendSQLite},
		{KeyStorePath, "flags.db"},
		{KeyLogLevel, "info"},
		{KeyLogFormat, "json"},
	} {
		wg.Add(1)
		go func(key, value string) {
			defer wg.Done()
			if err := Set(dir, key, value); err != nil {
				t.Errorf("Set(%s): %v", key, err)
			}
		}(kv[0], kv[1])
	}
	wg.Wait()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Config{
		Store: StoreConfig{Backend: BackendSQLite, Path: "flags.db"},
		Log:   LogConfig{Level: "info", Format: "json"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("lost update (-want +got):\n%s", diff)
	}
}
