package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/marcus/flagdeck/pkg/registry"
)

const titleWidth = 28

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Feature Flags"))
	sb.WriteString("\n")

	switch {
	case m.Picker != nil:
		sb.WriteString("\n")
		sb.WriteString(m.Picker.Form.View())
	case m.Detail != nil:
		sb.WriteString(m.renderDetail())
	default:
		sb.WriteString(m.renderList())
	}

	sb.WriteString("\n")
	if m.Status != "" {
		sb.WriteString(statusStyle.Render(m.Status))
		sb.WriteString("\n")
	}
	if pending := m.Keymap.PendingKey(); pending != "" {
		sb.WriteString(subtleStyle.Render(pending + "…"))
		sb.WriteString("\n")
	}
	sb.WriteString(m.Help.View(helpKeys{bindings: m.Keymap.HelpBindings(m.currentContext())}))
	return sb.String()
}

func (m Model) renderList() string {
	if len(m.Entries) == 0 {
		return subtleStyle.Render("\nNo flags registered.") + "\n"
	}

	var sb strings.Builder
	row := 0
	for _, section := range registry.GroupEntries(m.Entries) {
		sb.WriteString(sectionHeader.Render(sectionTitle(section.Group)))
		sb.WriteString("\n")
		for _, e := range section.Entries {
			line := m.truncate(renderRow(e.Render()))
			if row == m.Cursor {
				line = selectedRowStyle.Render(line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
			row++
		}
	}
	return sb.String()
}

func (m Model) renderDetail() string {
	e, ok := m.Registry.Lookup(m.Detail.ID)
	if !ok {
		return ""
	}
	group := e.Render()

	var sb strings.Builder
	sb.WriteString(sectionHeader.Render(group.Title))
	sb.WriteString("\n")
	if group.Description != "" {
		sb.WriteString(subtleStyle.Render(group.Description))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	for i, child := range group.Children {
		marker := inactiveMarker
		if i == group.Selected {
			marker = activeMarker
		}
		line := m.truncate(fmt.Sprintf("%d %s %s", i+1, marker, renderRow(child)))
		if i == m.Detail.Cursor {
			line = selectedRowStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(subtleStyle.Render(fmt.Sprintf("effective value: %s", group.Display)))
	sb.WriteString("\n")
	return panelStyle.Render(strings.TrimRight(sb.String(), "\n")) + "\n"
}

// sectionTitle renders a group heading; the ungrouped section gets a blank one.
func sectionTitle(group string) string {
	if group == "" {
		return " "
	}
	return strings.ToUpper(group)
}

// renderRow formats a control as "title   value".
func renderRow(c feature.Control) string {
	title := c.Title
	if len(title) < titleWidth {
		title += strings.Repeat(" ", titleWidth-len(title))
	}
	return "  " + title + " " + renderValue(c)
}

func renderValue(c feature.Control) string {
	switch c.Kind {
	case feature.KindToggle:
		if c.Selected == 1 {
			return onStyle.Render("[x] on")
		}
		return offStyle.Render("[ ] off")
	case feature.KindCount:
		return countStyle.Render(fmt.Sprintf("‹ %s ›", c.Display)) +
			subtleStyle.Render(fmt.Sprintf("  %d..%d", c.Min, c.Max))
	case feature.KindPicker:
		return pickerStyle.Render(c.Display + " ▾")
	case feature.KindGroup:
		side := "first"
		if c.Selected >= 0 && c.Selected < len(c.Options) {
			side = c.Options[c.Selected]
		}
		return groupStyle.Render(c.Display) + subtleStyle.Render(" via "+side+" ›")
	case feature.KindStatic:
		return subtleStyle.Render(c.Display + " (fixed)")
	}
	return c.Display
}

func (m Model) truncate(s string) string {
	if m.Width <= 0 {
		return s
	}
	return ansi.Truncate(s, m.Width, "…")
}

// helpKeys adapts keymap bindings to the bubbles help.KeyMap interface.
type helpKeys struct {
	bindings []key.Binding
}

// ShortHelp shows the first context bindings plus the global quit and help
// bindings, which always come last.
func (h helpKeys) ShortHelp() []key.Binding {
	if len(h.bindings) <= 6 {
		return h.bindings
	}
	short := append([]key.Binding{}, h.bindings[:4]...)
	return append(short, h.bindings[len(h.bindings)-2:]...)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	var cols [][]key.Binding
	for i := 0; i < len(h.bindings); i += 5 {
		cols = append(cols, h.bindings[i:min(i+5, len(h.bindings))])
	}
	return cols
}
