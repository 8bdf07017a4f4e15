package cmd

import (
	"path/filepath"
	"testing"

	"github.com/marcus/flagdeck/internal/catalog"
	"github.com/marcus/flagdeck/internal/config"
	"github.com/marcus/flagdeck/internal/output"
	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/marcus/flagdeck/pkg/prefs"
)

// runCLI executes the root command against dir.
func runCLI(t *testing.T, dir string, args ...string) error {
	t.Helper()
	t.Setenv(prefs.EnvIgnoreOverrides, "")
	rootCmd.SetArgs(append([]string{"--dir", dir}, args...))
	return rootCmd.Execute()
}

// storedValues opens the JSON store the CLI wrote.
func storedValues(t *testing.T, dir string) *prefs.FileStore {
	t.Helper()
	s, err := prefs.OpenFile(filepath.Join(dir, ".flagdeck", "prefs.json"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestSetPersists(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		args []string
		key  string
		want any
	}{
		{[]string{"set", "compact-rows", "on"}, "FeatureFlag_Compact-Rows", true},
		{[]string{"set", "Retry Attempts", "42"}, "FeatureFlag_Retry-Attempts", 10},
		{[]string{"set", "FeatureFlag_Accent-Color", "green"}, "FeatureFlag_Accent-Color", "green"},
		{[]string{"select", "rounded corners", "second"}, "FeatureFlag_Rounded-Corners_activeFeatureFlagID", "FeatureFlag_Rounded-Corners-Override"},
	}
	for _, tc := range tests {
		if err := runCLI(t, dir, tc.args...); err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		got, ok := storedValues(t, dir).Lookup(tc.key)
		if !ok || got != tc.want {
			t.Errorf("%v stored %v (%v), want %v", tc.args, got, ok, tc.want)
		}
	}
}

func TestSetRejects(t *testing.T) {
	dir := t.TempDir()

	tests := [][]string{
		{"set", "no-such-flag", "on"},
		{"set", "compact-rows", "sometimes"},
		{"set", "accent-color", "purple"},
		{"set", "rounded-corners", "second"},
		{"set", "uses_rounded_corners", "false"},
		{"select", "compact-rows", "first"},
	}
	for _, args := range tests {
		if err := runCLI(t, dir, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestResetRemovesValue(t *testing.T) {
	dir := t.TempDir()
	if err := runCLI(t, dir, "set", "items-per-page", "30"); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, dir, "reset", "items-per-page"); err != nil {
		t.Fatal(err)
	}
	if _, ok := storedValues(t, dir).Lookup("FeatureFlag_Items-Per-Page"); ok {
		t.Error("reset should remove the stored value")
	}
}

func TestSQLiteBackendFromConfig(t *testing.T) {
	dir := t.TempDir()
	if err := runCLI(t, dir, "config", "set", config.KeyStoreBackend, config.BackendSQLite); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, dir, "set", "verbose-logging", "yes"); err != nil {
		t.Fatal(err)
	}

	s, err := prefs.OpenSQLite(filepath.Join(dir, ".flagdeck", "prefs.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer s.Close()
	if v, ok := prefs.Bool(s, "FeatureFlag_Verbose-Logging"); !ok || !v {
		t.Errorf("sqlite store has %v, %v", v, ok)
	}
}

func TestSource(t *testing.T) {
	t.Setenv(prefs.EnvIgnoreOverrides, "")
	backend := prefs.NewMemoryStore()
	ws := &workspace{backend: backend, store: prefs.WithEnvOverrides(backend)}
	ws.catalog = catalog.New(ws.store)

	if got := ws.source(ws.catalog.CompactRows); got != output.SourceDefault {
		t.Errorf("fresh flag source = %s, want default", got)
	}
	ws.catalog.CompactRows.SetValue(true)
	if got := ws.source(ws.catalog.CompactRows); got != output.SourceStored {
		t.Errorf("written flag source = %s, want stored", got)
	}
	t.Setenv(prefs.EnvKey(ws.catalog.CompactRows.ID()), "off")
	if got := ws.source(ws.catalog.CompactRows); got != output.SourceEnv {
		t.Errorf("overridden flag source = %s, want env", got)
	}
	if got := ws.source(ws.catalog.RoundedDefault); got != output.SourceStatic {
		t.Errorf("static flag source = %s, want static", got)
	}
}

func TestStoreKey(t *testing.T) {
	c := catalog.New(prefs.NewMemoryStore())

	tests := []struct {
		flag feature.Descriptor
		want string
		ok   bool
	}{
		{c.CompactRows, "FeatureFlag_Compact-Rows", true},
		{c.RoundedCorners, "FeatureFlag_Rounded-Corners_activeFeatureFlagID", true},
		{c.RoundedDefault, "", false},
	}
	for _, tc := range tests {
		got, ok := storeKey(tc.flag)
		if got != tc.want || ok != tc.ok {
			t.Errorf("storeKey(%s) = %q, %v; want %q, %v", tc.flag.ID(), got, ok, tc.want, tc.ok)
		}
	}
}

func TestFormatValue(t *testing.T) {
	var f formatValue
	for _, ok := range []string{"text", "JSON", "yaml"} {
		if err := f.Set(ok); err != nil {
			t.Errorf("Set(%q): %v", ok, err)
		}
	}
	if f != formatYAML {
		t.Errorf("value = %q, want yaml", f)
	}
	if err := f.Set("xml"); err == nil {
		t.Error("Set(xml) should fail")
	}
}
