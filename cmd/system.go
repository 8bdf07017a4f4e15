package cmd

import (
	"fmt"

	"github.com/marcus/flagdeck/internal/output"
	"github.com/marcus/flagdeck/pkg/prefs"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:     "info",
	Short:   "Show the active store and any environment overrides",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer ws.Close()

		fmt.Printf("Base dir:      %s\n", ws.baseDir)
		fmt.Printf("Store backend: %s\n", ws.cfg.Backend())
		if path := ws.cfg.StorePath(ws.baseDir); path != "" {
			fmt.Printf("Store path:    %s\n", path)
		}
		fmt.Printf("Stored values: %d\n", len(ws.backend.Keys()))

		var overrides []string
		for _, d := range ws.catalog.Flat() {
			key, ok := storeKey(d)
			if !ok {
				continue
			}
			if v, ok := ws.store.Override(key); ok {
				overrides = append(overrides, fmt.Sprintf("%s=%s (%s)", prefs.EnvKey(key), v, d.Title()))
			}
		}
		if len(overrides) > 0 {
			fmt.Print(output.SectionHeader("environment overrides"))
			for _, o := range overrides {
				fmt.Println("  " + o)
			}
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version",
	GroupID: "system",
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Print(version)
			return
		}
		fmt.Printf("flagdeck version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd, versionCmd)
	versionCmd.Flags().Bool("short", false, "Print only the version string")
}
