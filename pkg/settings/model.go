// Package settings is the interactive settings screen: a bubbletea model
// listing every flag in a registry, grouped into sections, with editors for
// each kind of flag.
package settings

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/imkira/go-observer/v2"
	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/marcus/flagdeck/pkg/registry"
	"github.com/marcus/flagdeck/pkg/settings/keymap"
)

// revisionMsg carries a new registry revision.
type revisionMsg uint64

// drainMsg signals that dispatched callbacks are waiting in the queue.
type drainMsg struct{}

// detailState is the open group detail screen.
type detailState struct {
	ID     string
	Cursor int // which child row is highlighted
}

// changeLog collects flag change notices delivered by subscriptions. It is
// shared by every copy of the Model.
type changeLog struct {
	mu   sync.Mutex
	last string
}

func (l *changeLog) set(s string) {
	l.mu.Lock()
	l.last = s
	l.mu.Unlock()
}

func (l *changeLog) take() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.last
	l.last = ""
	return s
}

// Model is the settings screen.
type Model struct {
	Registry *registry.Registry
	Queue    *registry.Queue
	Keymap   *keymap.Registry

	changes observer.Stream[uint64]
	log     *changeLog
	logger  *slog.Logger

	Entries      []registry.Entry // flattened sections; Cursor indexes this
	Cursor       int
	Detail       *detailState
	Picker       *pickerForm
	ShowHelp     bool
	Help         help.Model
	Width        int
	Height       int
	Revision     uint64
	RefreshCount int
	Status       string
}

// Option configures a Model.
type Option func(*Model)

// WithQueue drains q on the UI goroutine. Pass the same queue to the
// registry with registry.WithDispatcher so subscriber callbacks run inside
// Update.
func WithQueue(q *registry.Queue) Option {
	return func(m *Model) { m.Queue = q }
}

// WithKeymap replaces the default key bindings.
func WithKeymap(km *keymap.Registry) Option {
	return func(m *Model) { m.Keymap = km }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// New creates the settings screen over reg.
func New(reg *registry.Registry, opts ...Option) Model {
	m := Model{
		Registry: reg,
		changes:  reg.Observe(),
		log:      &changeLog{},
		logger:   slog.Default(),
		Help:     help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.Keymap == nil {
		m.Keymap = keymap.NewRegistry()
		keymap.RegisterDefaults(m.Keymap)
	}
	m.Revision = m.changes.Value()
	m.refresh()
	return m
}

// Notify records a flag change for the status line. It is safe to call
// from subscription callbacks; the notice shows once the queue is next
// drained or the registry revision advances.
func (m Model) Notify(title, display string) {
	m.log.set(fmt.Sprintf("%s → %s", title, display))
}

// Init starts watching the registry and the dispatch queue.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForRevision(), m.waitForQueue())
}

func (m Model) waitForRevision() tea.Cmd {
	changes := m.changes
	return func() tea.Msg {
		<-changes.Changes()
		return revisionMsg(changes.Next())
	}
}

func (m Model) waitForQueue() tea.Cmd {
	if m.Queue == nil {
		return nil
	}
	ready := m.Queue.Ready()
	return func() tea.Msg {
		<-ready
		return drainMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.Picker != nil {
		return m.handleFormUpdate(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case revisionMsg:
		m.Revision = uint64(msg)
		m.refresh()
		m.drain()
		return m, m.waitForRevision()

	case drainMsg:
		m.drain()
		return m, m.waitForQueue()
	}
	return m, nil
}

// drain runs queued callbacks and picks up any change notice they left.
func (m *Model) drain() {
	if m.Queue != nil {
		if n := m.Queue.Drain(); n > 0 {
			m.logger.Debug("settings: drained callbacks", "count", n)
		}
	}
	if last := m.log.take(); last != "" {
		m.Status = last
	}
}

// refresh re-reads the visible entries, in section order, and keeps the
// cursor in range.
func (m *Model) refresh() {
	m.Entries = m.Entries[:0:0]
	for _, section := range m.Registry.Sections() {
		m.Entries = append(m.Entries, section.Entries...)
	}
	if m.Cursor >= len(m.Entries) {
		m.Cursor = len(m.Entries) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Detail != nil {
		if e, ok := m.Registry.Lookup(m.Detail.ID); !ok || e.Render().Kind != feature.KindGroup {
			m.Detail = nil
		}
	}
}

// selected returns the entry under the cursor.
func (m Model) selected() (registry.Entry, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Entries) {
		return registry.Entry{}, false
	}
	return m.Entries[m.Cursor], true
}

// currentContext returns the keymap context for the active screen.
func (m Model) currentContext() keymap.Context {
	switch {
	case m.Picker != nil:
		return keymap.ContextForm
	case m.Detail != nil:
		return keymap.ContextDetail
	}
	return keymap.ContextList
}

// handleFormUpdate handles all messages while the picker form is open.
func (m Model) handleFormUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyCtrlC {
			return m.executeCommand(keymap.CmdQuit)
		}
		if cmd, found := m.Keymap.Lookup(keyMsg, keymap.ContextForm); found && cmd == keymap.CmdFormCancel {
			return m.executeCommand(cmd)
		}
	}

	// Messages that keep the rest of the screen current still apply.
	switch msg := msg.(type) {
	case revisionMsg:
		m.Revision = uint64(msg)
		m.refresh()
		m.drain()
		return m, m.waitForRevision()
	case drainMsg:
		m.drain()
		return m, m.waitForQueue()
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
	}

	form, cmd := m.Picker.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Picker.Form = f
	}

	switch m.Picker.Form.State {
	case huh.StateCompleted:
		m.Picker.apply()
		m.Picker = nil
		m.refresh()
		return m, nil
	case huh.StateAborted:
		m.Picker = nil
		return m, nil
	}
	return m, cmd
}

// handleKey processes key input using the keymap registry
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, found := m.Keymap.Lookup(msg, m.currentContext())
	if !found {
		return m, nil
	}
	return m.executeCommand(cmd)
}
