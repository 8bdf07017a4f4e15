package feature

import (
	"slices"

	"github.com/marcus/flagdeck/pkg/prefs"
)

// Picker is a flag whose value is one of a fixed list of string cases.
// The raw case string is what gets stored.
type Picker[T ~string] struct {
	base
	cases        []T
	defaultValue T
}

// NewPicker declares a picker over cases. If defaultValue is not one of the
// cases it is added to the front so the flag always has a valid reading.
func NewPicker[T ~string](title string, cases []T, defaultValue T, opts ...Option) Picker[T] {
	cs := slices.Clone(cases)
	if !slices.Contains(cs, defaultValue) {
		cs = append([]T{defaultValue}, cs...)
	}
	return Picker[T]{
		base:         newBase(title, buildOptions(opts)),
		cases:        cs,
		defaultValue: defaultValue,
	}
}

// Cases returns the selectable values in declaration order.
func (f Picker[T]) Cases() []T { return slices.Clone(f.cases) }

// Default returns the value used when nothing valid is stored.
func (f Picker[T]) Default() T { return f.defaultValue }

// Value returns the stored case, or the default when the stored string no
// longer names a case (renamed or removed between releases).
func (f Picker[T]) Value() T {
	raw, ok := prefs.String(f.store, f.id.ID)
	if !ok {
		return f.defaultValue
	}
	v := T(raw)
	if !slices.Contains(f.cases, v) {
		return f.defaultValue
	}
	return v
}

// SetValue stores v. Values that are not cases are ignored.
func (f Picker[T]) SetValue(v T) {
	if !slices.Contains(f.cases, v) {
		return
	}
	f.store.Set(f.id.ID, string(v))
}

func (f Picker[T]) Control() Control {
	v := f.Value()
	names := make([]string, len(f.cases))
	for i, c := range f.cases {
		names[i] = string(c)
	}
	return Control{
		Kind:        KindPicker,
		ID:          f.id.ID,
		Title:       f.id.Title,
		Group:       f.id.Group,
		Description: f.id.Description,
		Display:     string(v),
		Options:     names,
		Selected:    slices.Index(f.cases, v),
		Choose: func(i int) {
			if i >= 0 && i < len(f.cases) {
				f.SetValue(f.cases[i])
			}
		},
		Step: func(delta int) {
			n := len(f.cases)
			i := slices.Index(f.cases, f.Value())
			f.SetValue(f.cases[((i+delta)%n+n)%n])
		},
	}
}
