// Package output provides styled terminal output helpers (success, error,
// warning, flag formatting) using lipgloss, plus JSON and YAML encoders.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/flagdeck/pkg/feature"
	"gopkg.in/yaml.v3"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	kindStyles   = map[string]lipgloss.Style{
		"toggle": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"count":  lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		"picker": lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		"group":  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"static": lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
	sourceStyles = map[string]lipgloss.Style{
		SourceEnv:     warningStyle,
		SourceStored:  successStyle,
		SourceDefault: subtleStyle,
		SourceStatic:  subtleStyle,
	}
)

// Where a flag's current value comes from.
const (
	SourceEnv     = "env"
	SourceStored  = "stored"
	SourceDefault = "default"
	SourceStatic  = "static"
)

// Writer is where helpers print. Tests may replace it.
var Writer io.Writer = os.Stdout

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Fprintln(Writer, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Fprintln(Writer, errorStyle.Render("ERROR: "+fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Fprintln(Writer, warningStyle.Render("Warning: "+fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Fprintln(Writer, fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(Writer, string(data))
	return nil
}

// YAML outputs data as YAML
func YAML(v interface{}) error {
	enc := yaml.NewEncoder(Writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// FlagRecord is the machine-readable view of one flag.
type FlagRecord struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Group       string   `json:"group" yaml:"group"`
	Kind        string   `json:"kind" yaml:"kind"`
	Value       string   `json:"value" yaml:"value"`
	Source      string   `json:"source" yaml:"source"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Min         *int     `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *int     `json:"max,omitempty" yaml:"max,omitempty"`
	Active      string   `json:"active,omitempty" yaml:"active,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Record builds a FlagRecord from a flag's current control.
func Record(d feature.Descriptor, source string) FlagRecord {
	c := d.Control()
	r := FlagRecord{
		ID:          c.ID,
		Title:       c.Title,
		Group:       c.Group,
		Kind:        c.Kind.String(),
		Value:       c.Display,
		Source:      source,
		Description: c.Description,
	}
	switch c.Kind {
	case feature.KindCount:
		lo, hi := c.Min, c.Max
		r.Min, r.Max = &lo, &hi
	case feature.KindPicker:
		r.Options = c.Options
	case feature.KindGroup:
		r.Options = c.Options
		if c.Selected >= 0 && c.Selected < len(c.Options) {
			r.Active = c.Options[c.Selected]
		}
	}
	return r
}

// FormatKind formats a flag kind with color
func FormatKind(kind string) string {
	style, ok := kindStyles[kind]
	if !ok {
		return kind
	}
	return style.Render(fmt.Sprintf("[%s]", kind))
}

// FormatSource formats a value source with color
func FormatSource(source string) string {
	style, ok := sourceStyles[source]
	if !ok {
		return source
	}
	return style.Render("(" + source + ")")
}

// FormatFlagShort formats a flag on one line
func FormatFlagShort(r FlagRecord) string {
	var parts []string
	parts = append(parts, titleStyle.Render(r.Title))
	parts = append(parts, FormatKind(r.Kind))
	value := r.Value
	if r.Active != "" {
		value += " via " + r.Active
	}
	parts = append(parts, value)
	parts = append(parts, FormatSource(r.Source))
	return strings.Join(parts, "  ")
}

// FormatFlagLong formats a flag with all of its details
func FormatFlagLong(r FlagRecord) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(r.Title))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("ID: %s\n", r.ID))
	if r.Group != "" {
		sb.WriteString(fmt.Sprintf("Group: %s\n", r.Group))
	}
	sb.WriteString(fmt.Sprintf("Kind: %s\n", FormatKind(r.Kind)))
	sb.WriteString(fmt.Sprintf("Value: %s %s\n", r.Value, FormatSource(r.Source)))

	if r.Min != nil && r.Max != nil {
		sb.WriteString(fmt.Sprintf("Range: %d..%d\n", *r.Min, *r.Max))
	}
	if r.Active != "" {
		sb.WriteString(fmt.Sprintf("Active: %s\n", r.Active))
	} else if len(r.Options) > 0 {
		sb.WriteString(fmt.Sprintf("Options: %s\n", strings.Join(r.Options, ", ")))
	}
	return sb.String()
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nAPPEARANCE:\n"
func SectionHeader(title string) string {
	if title == "" {
		title = "ungrouped"
	}
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	indent := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}
