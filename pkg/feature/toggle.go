package feature

import (
	"strconv"

	"github.com/marcus/flagdeck/pkg/prefs"
)

// Toggle is an on/off flag.
type Toggle struct {
	base
	defaultValue bool
}

// NewToggle declares a boolean flag.
func NewToggle(title string, defaultValue bool, opts ...Option) Toggle {
	return Toggle{base: newBase(title, buildOptions(opts)), defaultValue: defaultValue}
}

// Default returns the value used when nothing is stored.
func (f Toggle) Default() bool { return f.defaultValue }

func (f Toggle) Value() bool {
	if v, ok := prefs.Bool(f.store, f.id.ID); ok {
		return v
	}
	return f.defaultValue
}

func (f Toggle) SetValue(v bool) {
	f.store.Set(f.id.ID, v)
}

// Enabled is Value under a name that reads well at call sites.
func (f Toggle) Enabled() bool { return f.Value() }

func (f Toggle) Control() Control {
	v := f.Value()
	return Control{
		Kind:        KindToggle,
		ID:          f.id.ID,
		Title:       f.id.Title,
		Group:       f.id.Group,
		Description: f.id.Description,
		Display:     strconv.FormatBool(v),
		Selected:    boolIndex(v),
		Options:     []string{"false", "true"},
		Flip:        func() { f.SetValue(!f.Value()) },
		Choose:      func(i int) { f.SetValue(i == 1) },
	}
}

func boolIndex(v bool) int {
	if v {
		return 1
	}
	return 0
}
