package settings

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/marcus/flagdeck/pkg/prefs"
	"github.com/marcus/flagdeck/pkg/registry"
)

type fixture struct {
	store   *prefs.MemoryStore
	reg     *registry.Registry
	queue   *registry.Queue
	compact feature.Toggle
	perPage feature.Count
	accent  feature.Picker[string]
	corners feature.Group[bool]
	channel feature.Static[string]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := prefs.NewMemoryStore()
	queue := registry.NewQueue()
	f := &fixture{
		store:   store,
		queue:   queue,
		reg:     registry.New(registry.WithDispatcher(queue)),
		compact: feature.NewToggle("Compact Rows", false, feature.WithGroup("Appearance"), feature.WithStore(store)),
		perPage: feature.NewCount("Items Per Page", 5, 50, 20, feature.WithGroup("Appearance"), feature.WithStore(store)),
		accent:  feature.NewPicker("Accent Color", []string{"red", "green", "blue"}, "red", feature.WithGroup("Appearance"), feature.WithStore(store)),
		channel: feature.NewStatic("build_channel", "stable"),
	}
	f.corners = feature.NewGroup[bool]("Rounded Corners",
		feature.NewStatic("uses_rounded_corners", true),
		feature.NewToggle("Rounded Corners Override", false, feature.WithStore(store)),
		feature.WithGroup("Experiments"), feature.WithStore(store))

	registry.Register[bool](f.reg, f.compact)
	registry.Register[int](f.reg, f.perPage)
	registry.Register[string](f.reg, f.accent)
	registry.Register[bool](f.reg, f.corners)
	registry.Register[string](f.reg, f.channel)
	t.Cleanup(f.reg.Close)
	return f
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestViewListsSectionsInOrder(t *testing.T) {
	f := newFixture(t)
	view := New(f.reg).View()

	order := []string{"APPEARANCE", "Compact Rows", "Items Per Page", "Accent Color", "EXPERIMENTS", "Rounded Corners", "build_channel"}
	last := -1
	for _, want := range order {
		i := strings.Index(view, want)
		if i < 0 {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
		if i < last {
			t.Errorf("%q rendered out of order", want)
		}
		last = i
	}
}

func TestToggleOnSpace(t *testing.T) {
	f := newFixture(t)
	m := send(t, New(f.reg), tea.KeyMsg{Type: tea.KeySpace})

	if !f.compact.Value() {
		t.Error("space should enable Compact Rows")
	}
	send(t, m, runes("x"))
	if f.compact.Value() {
		t.Error("x should reset Compact Rows to its default")
	}
}

func TestCountSteps(t *testing.T) {
	f := newFixture(t)
	m := send(t, New(f.reg), runes("j"))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	if got := f.perPage.Value(); got != 22 {
		t.Errorf("after two increments = %d, want 22", got)
	}

	f.perPage.SetValue(50)
	send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := f.perPage.Value(); got != 50 {
		t.Errorf("increment past max = %d, want 50", got)
	}
}

func TestPickerForm(t *testing.T) {
	f := newFixture(t)
	m := send(t, New(f.reg), runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})

	if m.Picker == nil {
		t.Fatal("enter on a picker should open the form")
	}
	if m.Picker.Choice != "red" {
		t.Errorf("form preselects %q, want red", m.Picker.Choice)
	}

	m.Picker.Choice = "blue"
	m.Picker.apply()
	if got := f.accent.Value(); got != "blue" {
		t.Errorf("accent = %q, want blue", got)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Picker != nil {
		t.Error("esc should close the form")
	}
}

func TestPickerCyclesWithArrows(t *testing.T) {
	f := newFixture(t)
	m := send(t, New(f.reg), runes("j"), runes("j"))

	send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := f.accent.Value(); got != "blue" {
		t.Errorf("left from first case = %q, want blue", got)
	}
}

func TestGroupDetail(t *testing.T) {
	f := newFixture(t)
	m := send(t, New(f.reg), runes("G"))
	// G lands on the static flag; step up to the group.
	m = send(t, m, runes("k"), tea.KeyMsg{Type: tea.KeyEnter})

	if m.Detail == nil {
		t.Fatal("enter on a group should open the detail screen")
	}
	if !f.corners.Value() {
		t.Fatal("group should start on the static child")
	}

	m = send(t, m, runes("2"))
	if f.corners.Active() != feature.Second {
		t.Error("2 should activate the second child")
	}
	if f.corners.Value() {
		t.Error("override child reads false")
	}
	if m.RefreshCount != 1 {
		t.Errorf("RefreshCount = %d, want 1", m.RefreshCount)
	}

	// Edit the override from the detail screen.
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !f.corners.Value() {
		t.Error("space should flip the highlighted override child")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if f.corners.Active() != feature.First || m.RefreshCount != 2 {
		t.Errorf("tab should swap back to first (active %v, refresh %d)", f.corners.Active(), m.RefreshCount)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Detail != nil {
		t.Error("esc should leave the detail screen")
	}
}

func TestStaticIsReadOnly(t *testing.T) {
	f := newFixture(t)
	m := send(t, New(f.reg), runes("G"), tea.KeyMsg{Type: tea.KeySpace})

	if !strings.Contains(m.Status, "read-only") {
		t.Errorf("status = %q, want read-only notice", m.Status)
	}
}

func TestQuit(t *testing.T) {
	f := newFixture(t)
	_, cmd := New(f.reg).Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestRevisionRefreshesEntries(t *testing.T) {
	f := newFixture(t)
	m := New(f.reg)
	before := len(m.Entries)

	registry.Register[bool](f.reg, feature.NewToggle("Verbose Logging", false, feature.WithStore(f.store)))
	m = send(t, m, revisionMsg(f.reg.Observe().Value()))

	if len(m.Entries) != before+1 {
		t.Errorf("entries = %d, want %d", len(m.Entries), before+1)
	}
}

func TestNotifyShowsInStatus(t *testing.T) {
	f := newFixture(t)
	m := New(f.reg, WithQueue(f.queue))
	sub := registry.Register[bool](f.reg, f.compact).Subscribe(func(v bool) {
		if v {
			m.Notify(f.compact.Title(), f.compact.Control().Display)
		}
	})
	defer sub.Cancel()

	// Deliver the replay before changing anything.
	m = send(t, m, drainMsg{})
	if m.Status != "" {
		t.Fatalf("replay should not set status, got %q", m.Status)
	}

	f.compact.SetValue(true)

	deadline := time.After(2 * time.Second)
	for m.Status == "" {
		select {
		case <-f.queue.Ready():
			m = send(t, m, drainMsg{})
		case <-deadline:
			t.Fatal("timed out waiting for change notice")
		}
	}
	if m.Status != "Compact Rows → true" {
		t.Errorf("status = %q", m.Status)
	}
}
