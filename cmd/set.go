package cmd

import (
	"fmt"

	"github.com/marcus/flagdeck/internal/catalog"
	"github.com/marcus/flagdeck/internal/output"
	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/marcus/flagdeck/pkg/prefs"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <flag> <value>",
	Short: "Set a flag's value",
	Long: `Set a flag's value. Toggles accept on/off, true/false, yes/no or 1/0.
Counts take an integer and are clamped to their range. Pickers take one of
their cases.

Examples:
  flagdeck set "Compact Rows" on
  flagdeck set retry-attempts 5
  flagdeck set accent-color blue`,
	GroupID: "flags",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer ws.Close()

		d, err := ws.find(args[0])
		if err != nil {
			return err
		}
		if d.Control().Kind == feature.KindGroup {
			output.Error("%s is a group; use 'flagdeck select' or set one of its children", d.Title())
			return fmt.Errorf("%s is a group", d.Title())
		}
		if err := catalog.Apply(d, args[1]); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("%s = %s", d.Title(), d.Control().Display)
		warnOverride(ws, d)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [flag...]",
	Short: "Clear stored values so flags read their defaults",
	Long: `Clear stored values so flags read their defaults again. Resetting a group
clears only which child is active.

Examples:
  flagdeck reset compact-rows
  flagdeck reset --all`,
	GroupID: "flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if len(args) == 0 && !all {
			output.Error("name at least one flag, or pass --all")
			return fmt.Errorf("no flags given")
		}

		ws, err := openWorkspace()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer ws.Close()

		if all {
			n := 0
			for _, key := range ws.backend.Keys() {
				ws.backend.Remove(key)
				n++
			}
			output.Success("Cleared %d stored value(s)", n)
			return nil
		}

		for _, name := range args {
			d, err := ws.find(name)
			if err != nil {
				return err
			}
			if err := catalog.Reset(d); err != nil {
				output.Warning("%v", err)
				continue
			}
			output.Success("%s reset to %s", d.Title(), d.Control().Display)
			warnOverride(ws, d)
		}
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <group> first|second",
	Short: "Choose which child of a group is active",
	Long: `Choose which child of a group decides its value.

Example:
  flagdeck select "Rounded Corners" second`,
	GroupID: "flags",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer ws.Close()

		d, err := ws.find(args[0])
		if err != nil {
			return err
		}
		if d.Control().Kind != feature.KindGroup {
			output.Error("%s is not a group", d.Title())
			return fmt.Errorf("%s is not a group", d.Title())
		}
		if err := catalog.Apply(d, args[1]); err != nil {
			output.Error("%v", err)
			return err
		}

		c := d.Control()
		output.Success("%s now uses %s (%s = %s)", c.Title, c.Options[c.Selected], c.Children[c.Selected].Title, c.Display)
		warnOverride(ws, d)
		return nil
	},
}

// warnOverride tells the user when an environment variable masks the value
// they just wrote.
func warnOverride(ws *workspace, d feature.Descriptor) {
	key, ok := storeKey(d)
	if !ok {
		return
	}
	if v, ok := ws.store.Override(key); ok {
		output.Warning("%s is overridden by %s=%s", d.Title(), prefs.EnvKey(key), v)
	}
}

func init() {
	rootCmd.AddCommand(setCmd, resetCmd, selectCmd)
	resetCmd.Flags().Bool("all", false, "Clear every stored value")
}
