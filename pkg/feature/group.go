package feature

import (
	"github.com/marcus/flagdeck/pkg/prefs"
)

// Child selects one side of a Group.
type Child int

const (
	First Child = iota
	Second
)

func (c Child) String() string {
	if c == Second {
		return "second"
	}
	return "first"
}

const activeKeySuffix = "_activeFeatureFlagID"

// Group pairs two flags of the same value type behind a persisted selector.
// Reads go to whichever child is active; writes must go to the children
// directly, so SetValue on the group does nothing.
type Group[T comparable] struct {
	base
	first, second Flag[T]
}

// NewGroup declares a group of first and second. Without WithGroup the
// group section falls back to the children's.
func NewGroup[T comparable](title string, first, second Flag[T], opts ...Option) Group[T] {
	o := buildOptions(opts)
	if o.group == "" {
		o.group = first.Group()
	}
	if o.group == "" {
		o.group = second.Group()
	}
	return Group[T]{base: newBase(title, o), first: first, second: second}
}

// First returns the first child.
func (g Group[T]) First() Flag[T] { return g.first }

// Second returns the second child.
func (g Group[T]) Second() Flag[T] { return g.second }

// ActiveKey is the store key holding the selected child's id.
func (g Group[T]) ActiveKey() string { return g.id.ID + activeKeySuffix }

// Active reports which child is authoritative. A missing or unrecognised
// selector means First.
func (g Group[T]) Active() Child {
	raw, ok := prefs.String(g.store, g.ActiveKey())
	if ok && raw == g.second.ID() && raw != g.first.ID() {
		return Second
	}
	return First
}

// SetActive persists the selector.
func (g Group[T]) SetActive(c Child) {
	id := g.first.ID()
	if c == Second {
		id = g.second.ID()
	}
	g.store.Set(g.ActiveKey(), id)
}

// ActiveFlag returns the currently authoritative child.
func (g Group[T]) ActiveFlag() Flag[T] {
	if g.Active() == Second {
		return g.second
	}
	return g.first
}

func (g Group[T]) Value() T {
	return g.ActiveFlag().Value()
}

// SetValue is a no-op; write through First() or Second() instead.
func (g Group[T]) SetValue(T) {}

// Sources merges the selector's store with both children's sources so that
// switching children, or either child changing, is observed.
func (g Group[T]) Sources() []Source {
	out := []Source{g.store}
	for _, s := range append(g.first.Sources(), g.second.Sources()...) {
		if !containsSource(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// Reset clears the selector. Child values are left untouched.
func (g Group[T]) Reset() { g.store.Remove(g.ActiveKey()) }

func (g Group[T]) Control() Control {
	active := g.Active()
	first, second := g.first.Control(), g.second.Control()
	display := first.Display
	if active == Second {
		display = second.Display
	}
	return Control{
		Kind:        KindGroup,
		ID:          g.id.ID,
		Title:       g.id.Title,
		Group:       g.id.Group,
		Description: g.id.Description,
		Display:     display,
		Options:     []string{First.String(), Second.String()},
		Selected:    int(active),
		Children:    []Control{first, second},
		Choose: func(i int) {
			if i == int(Second) {
				g.SetActive(Second)
				return
			}
			g.SetActive(First)
		},
	}
}

func containsSource(list []Source, s Source) bool {
	for _, existing := range list {
		if existing == s {
			return true
		}
	}
	return false
}
