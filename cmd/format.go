package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// formatValue is a --format flag restricted to text, json or yaml.
type formatValue string

const (
	formatText formatValue = "text"
	formatJSON formatValue = "json"
	formatYAML formatValue = "yaml"
)

var _ pflag.Value = (*formatValue)(nil)

func (f *formatValue) String() string { return string(*f) }

func (f *formatValue) Set(s string) error {
	switch v := formatValue(strings.ToLower(s)); v {
	case formatText, formatJSON, formatYAML:
		*f = v
		return nil
	}
	return fmt.Errorf("must be one of text, json, yaml")
}

func (f *formatValue) Type() string { return "format" }

// outputFormat resolves --format together with the --json/--yaml
// shortcuts, which win when set.
func outputFormat(flags *pflag.FlagSet) formatValue {
	if v, _ := flags.GetBool("json"); v {
		return formatJSON
	}
	if v, _ := flags.GetBool("yaml"); v {
		return formatYAML
	}
	if f := flags.Lookup("format"); f != nil {
		return formatValue(f.Value.String())
	}
	return formatText
}
