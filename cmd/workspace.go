package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/marcus/flagdeck/internal/catalog"
	"github.com/marcus/flagdeck/internal/config"
	"github.com/marcus/flagdeck/internal/logging"
	"github.com/marcus/flagdeck/internal/output"
	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/marcus/flagdeck/pkg/prefs"
)

// workspace is everything a command needs: the configured store wrapped in
// environment overrides and the flag catalog declared against it.
type workspace struct {
	baseDir string
	cfg     *config.Config
	logger  *slog.Logger
	backend prefs.Store
	store   *prefs.EnvOverlay
	catalog *catalog.Catalog
}

// openWorkspace loads config, sets up logging and opens the store.
func openWorkspace() (*workspace, error) {
	dir := getBaseDir()

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel()
	if logLevel != "" {
		level = logLevel
	}
	logger := logging.Setup(level, cfg.LogFormat())

	backend, err := openBackend(cfg, dir, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", "backend", cfg.Backend(), "path", cfg.StorePath(dir))

	store := prefs.WithEnvOverrides(backend)
	prefs.SetDefault(store)

	return &workspace{
		baseDir: dir,
		cfg:     cfg,
		logger:  logger,
		backend: backend,
		store:   store,
		catalog: catalog.New(store),
	}, nil
}

func openBackend(cfg *config.Config, dir string, logger *slog.Logger) (prefs.Store, error) {
	path := cfg.StorePath(dir)
	switch cfg.Backend() {
	case config.BackendMemory:
		return prefs.NewMemoryStore(), nil
	case config.BackendSQLite:
		s, err := prefs.OpenSQLite(path, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	case config.BackendFile:
		s, err := prefs.OpenFile(path, logger)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend())
}

func (w *workspace) Close() {
	if c, ok := w.backend.(io.Closer); ok {
		if err := c.Close(); err != nil {
			w.logger.Warn("close store", "err", err)
		}
	}
}

// find resolves a flag argument or prints an error.
func (w *workspace) find(name string) (feature.Descriptor, error) {
	d, ok := w.catalog.Find(name)
	if !ok {
		output.Error("unknown flag: %s", name)
		return nil, fmt.Errorf("unknown flag: %s", name)
	}
	return d, nil
}

// storeKey is the key a flag's state lives under; groups persist only
// their selector. Static flags have none.
func storeKey(d feature.Descriptor) (string, bool) {
	switch f := d.(type) {
	case interface{ ActiveKey() string }:
		return f.ActiveKey(), true
	case interface{ Reset() }:
		return d.ID(), true
	}
	return "", false
}

// source reports where a flag's current value comes from.
func (w *workspace) source(d feature.Descriptor) string {
	key, ok := storeKey(d)
	if !ok {
		return output.SourceStatic
	}
	if _, ok := w.store.Override(key); ok {
		return output.SourceEnv
	}
	if _, ok := w.backend.Lookup(key); ok {
		return output.SourceStored
	}
	return output.SourceDefault
}

func (w *workspace) record(d feature.Descriptor) output.FlagRecord {
	return output.Record(d, w.source(d))
}
