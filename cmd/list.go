package cmd

import (
	"fmt"
	"strings"

	"github.com/marcus/flagdeck/internal/output"
	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List declared flags and their current values",
	Long: `List every declared flag, grouped by section, with its current value and
where that value comes from (env, stored, default or static).

Examples:
  flagdeck list                    # Grouped, human readable
  flagdeck list --group appearance # One section
  flagdeck list --json             # Machine readable
  flagdeck list --format yaml`,
	GroupID: "flags",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer ws.Close()

		group, _ := cmd.Flags().GetString("group")
		var records []output.FlagRecord
		for _, d := range ws.catalog.All() {
			if group != "" && !strings.EqualFold(d.Group(), group) {
				continue
			}
			records = append(records, ws.record(d))
		}

		switch outputFormat(cmd.Flags()) {
		case formatJSON:
			return output.JSON(records)
		case formatYAML:
			return output.YAML(records)
		}

		if len(records) == 0 {
			fmt.Println("No flags found")
			return nil
		}
		current := "\x00"
		for _, r := range records {
			if r.Group != current {
				current = r.Group
				fmt.Print(output.SectionHeader(current))
			}
			fmt.Println("  " + output.FormatFlagShort(r))
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <flag>",
	Short: "Print a flag's current value",
	Long: `Print a flag's current value and nothing else, for use in scripts.

A flag can be named by id, title or slug:
  flagdeck get "Items Per Page"
  flagdeck get items-per-page
  flagdeck get FeatureFlag_Items-Per-Page`,
	GroupID: "flags",
	Args:    cobra.ExactArgs(1),
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
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(ws.record(d))
		}
		fmt.Println(d.Control().Display)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:     "show <flag>...",
	Aliases: []string{"describe"},
	Short:   "Display full details of one or more flags",
	GroupID: "flags",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer ws.Close()

		for i, name := range args {
			d, err := ws.find(name)
			if err != nil {
				return err
			}
			if i > 0 {
				fmt.Println()
			}
			showFlag(ws, d)
		}
		return nil
	},
}

func showFlag(ws *workspace, d feature.Descriptor) {
	fmt.Print(output.FormatFlagLong(ws.record(d)))

	c := d.Control()
	if c.Kind == feature.KindGroup {
		fmt.Print(output.SectionHeader("children"))
		for i, child := range c.Children {
			marker := " "
			if i == c.Selected {
				marker = "*"
			}
			fmt.Printf("  %s %d. %s = %s\n", marker, i+1, child.Title, child.Display)
		}
	}

	if c.Description != "" {
		rendered, err := output.RenderDescription(c.Description)
		if err != nil {
			ws.logger.Debug("render description", "id", c.ID, "err", err)
			rendered = c.Description
		}
		fmt.Print(output.SectionHeader("description"))
		fmt.Println(rendered)
	}
}

func init() {
	rootCmd.AddCommand(listCmd, getCmd, showCmd)
	listCmd.Flags().String("group", "", "Only list flags in this group")
	listFormat := formatText
	listCmd.Flags().Var(&listFormat, "format", "Output format: text, json or yaml")
	listCmd.Flags().Bool("json", false, "Output as JSON")
	listCmd.Flags().Bool("yaml", false, "Output as YAML")
	listCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	getCmd.Flags().Bool("json", false, "Output the full record as JSON")
}
