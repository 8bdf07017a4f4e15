package cmd

import (
	"fmt"

	"github.com/marcus/flagdeck/internal/config"
	"github.com/marcus/flagdeck/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage flagdeck configuration",
	GroupID: "system",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a config value. Pass an empty value to restore the default.

Keys:
  store.backend   file, sqlite or memory
  store.path      store location, relative to the base directory
  log.level       debug, info, warn or error
  log.format      text or json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if err := config.Set(getBaseDir(), key, val); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Set %s = %s", key, val)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(getBaseDir())
		if err != nil {
			output.Error("load config: %v", err)
			return err
		}
		val, err := cfg.Effective(args[0], getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		fmt.Println(val)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := getBaseDir()
		cfg, err := config.Load(dir)
		if err != nil {
			output.Error("load config: %v", err)
			return err
		}

		values := make(map[string]string, len(config.Keys()))
		for _, key := range config.Keys() {
			values[key], _ = cfg.Effective(key, dir)
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(values)
		}

		for _, key := range config.Keys() {
			raw, _ := cfg.Get(key)
			suffix := ""
			if raw == "" {
				suffix = " (default)"
			}
			fmt.Printf("%-15s %s%s\n", key, values[key], suffix)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd, configListCmd)
	configListCmd.Flags().Bool("json", false, "Output as JSON")
}
