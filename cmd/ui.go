package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/flagdeck/internal/config"
	"github.com/marcus/flagdeck/internal/logging"
	"github.com/marcus/flagdeck/internal/output"
	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/marcus/flagdeck/pkg/registry"
	"github.com/marcus/flagdeck/pkg/settings"
	"github.com/marcus/flagdeck/pkg/settings/keymap"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"settings"},
	Short:   "Open the interactive settings screen",
	Long: `Open a settings screen listing every flag by section.

Key bindings:
  ↑/↓ j/k        Move
  Space/Enter    Toggle, open picker, open group
  ←/→ h/l        Decrease/increase a count, cycle a picker
  1/2 Tab        Choose a group's active child (group screen)
  x              Reset to default
  Esc            Back
  ?              Toggle help
  q              Quit

Key bindings can be overridden in .flagdeck/keymap.json, e.g.
  {"bindings": {"list:t": "activate"}}`,
	GroupID: "flags",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !output.IsTerminal() {
			output.Error("the settings screen needs a terminal")
			return fmt.Errorf("stdout is not a terminal")
		}

		ws, err := openWorkspace()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer ws.Close()

		// Logging to stderr would draw over the screen.
		logger, closeLog, err := fileLogger(ws)
		if err != nil {
			output.Warning("logging disabled: %v", err)
		} else {
			defer closeLog()
		}

		km := keymap.NewRegistry()
		keymap.RegisterDefaults(km)
		if kcfg, err := keymap.LoadConfig(keymap.ConfigPath(ws.baseDir)); err != nil {
			output.Warning("ignoring keymap.json: %v", err)
		} else {
			keymap.ApplyConfig(km, kcfg)
		}

		queue := registry.NewQueue()
		reg := registry.New(registry.WithDispatcher(queue), registry.WithLogger(logger))
		defer reg.Close()

		model := settings.New(reg,
			settings.WithQueue(queue),
			settings.WithKeymap(km),
			settings.WithLogger(logger))

		subs := ws.catalog.Register(reg, func(d feature.Descriptor) {
			logger.Info("flag changed", "id", d.ID(), "value", d.Control().Display)
			model.Notify(d.Title(), d.Control().Display)
		})
		defer func() {
			for _, s := range subs {
				s.Cancel()
			}
		}()

		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running settings screen: %w", err)
		}
		return nil
	},
}

// fileLogger points the default logger at .flagdeck/flagdeck.log while the
// screen is open. On failure logging is discarded.
func fileLogger(ws *workspace) (*slog.Logger, func(), error) {
	discard := slog.New(slog.DiscardHandler)
	path := filepath.Join(config.Dir(ws.baseDir), "flagdeck.log")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		slog.SetDefault(discard)
		return discard, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		slog.SetDefault(discard)
		return discard, nil, err
	}

	level := ws.cfg.LogLevel()
	if logLevel != "" {
		level = logLevel
	}
	logger := logging.New(f, level, ws.cfg.LogFormat())
	slog.SetDefault(logger)
	return logger, func() { f.Close() }, nil
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
