package settings

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/marcus/flagdeck/pkg/settings/keymap"
)

// resetter is implemented by flags backed by a store.
type resetter interface {
	Reset()
}

// executeCommand executes a keymap command and returns the updated model and any tea.Cmd
func (m Model) executeCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	// Global commands
	case keymap.CmdQuit:
		return m, tea.Quit

	case keymap.CmdToggleHelp:
		m.ShowHelp = !m.ShowHelp
		m.Help.ShowAll = m.ShowHelp
		return m, nil

	case keymap.CmdFormCancel:
		m.Picker = nil
		return m, nil
	}

	if m.Detail != nil {
		return m.executeDetailCommand(cmd)
	}
	return m.executeListCommand(cmd)
}

func (m Model) executeListCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdCursorDown:
		if m.Cursor < len(m.Entries)-1 {
			m.Cursor++
		}
	case keymap.CmdCursorUp:
		if m.Cursor > 0 {
			m.Cursor--
		}
	case keymap.CmdCursorTop:
		m.Cursor = 0
	case keymap.CmdCursorBottom:
		m.Cursor = max(len(m.Entries)-1, 0)

	case keymap.CmdActivate:
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		c := e.Render()
		if c.Kind == feature.KindGroup {
			m.Detail = &detailState{ID: e.ID, Cursor: c.Selected}
			return m, nil
		}
		return m.activate(c)

	case keymap.CmdIncrement, keymap.CmdDecrement:
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.step(e.Render(), stepDelta(cmd))

	case keymap.CmdReset:
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		if r, ok := e.Flag.(resetter); ok {
			r.Reset()
			m.Status = e.Flag.Title() + " reset to default"
		}
	}
	return m, nil
}

func (m Model) executeDetailCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	e, ok := m.Registry.Lookup(m.Detail.ID)
	if !ok {
		m.Detail = nil
		return m, nil
	}
	group := e.Render()

	// The detail pointer is shared with the previous model value.
	detail := *m.Detail
	m.Detail = &detail

	switch cmd {
	case keymap.CmdBack:
		m.Detail = nil
	case keymap.CmdCursorDown:
		detail.Cursor = min(detail.Cursor+1, len(group.Children)-1)
	case keymap.CmdCursorUp:
		detail.Cursor = max(detail.Cursor-1, 0)

	case keymap.CmdSelectFirst:
		m.chooseChild(group, int(feature.First))
	case keymap.CmdSelectSecond:
		m.chooseChild(group, int(feature.Second))
	case keymap.CmdSwapActive:
		m.chooseChild(group, 1-group.Selected)

	case keymap.CmdActivate:
		if child, ok := childAt(group, detail.Cursor); ok {
			return m.activate(child)
		}
	case keymap.CmdIncrement, keymap.CmdDecrement:
		if child, ok := childAt(group, detail.Cursor); ok {
			m.step(child, stepDelta(cmd))
		}
	}
	return m, nil
}

// chooseChild makes child i the active side of a group.
func (m *Model) chooseChild(group feature.Control, i int) {
	if group.Choose == nil {
		return
	}
	group.Choose(i)
	m.RefreshCount++
	m.Detail.Cursor = i
}

// activate performs the primary edit for a control: flip a toggle, open the
// picker form. Counts and read-only flags have no primary edit.
func (m Model) activate(c feature.Control) (tea.Model, tea.Cmd) {
	if !c.Editable() {
		m.Status = c.Title + " is read-only"
		return m, nil
	}
	switch c.Kind {
	case feature.KindToggle:
		c.Flip()
	case feature.KindPicker:
		m.Picker = newPickerForm(c)
		return m, m.Picker.Form.Init()
	}
	return m, nil
}

func (m *Model) step(c feature.Control, delta int) {
	switch {
	case c.ReadOnly:
		return
	case c.Kind == feature.KindToggle:
		if delta > 0 {
			c.Choose(1)
		} else {
			c.Choose(0)
		}
	case c.Step != nil:
		c.Step(delta)
	}
}

func stepDelta(cmd keymap.Command) int {
	if cmd == keymap.CmdDecrement {
		return -1
	}
	return 1
}

func childAt(group feature.Control, i int) (feature.Control, bool) {
	if i < 0 || i >= len(group.Children) {
		return feature.Control{}, false
	}
	return group.Children[i], true
}
