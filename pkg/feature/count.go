package feature

import (
	"strconv"

	"github.com/marcus/flagdeck/pkg/prefs"
)

// Count is an integer flag bounded to an inclusive range.
type Count struct {
	base
	min, max     int
	defaultValue int
}

// NewCount declares an integer flag over [min, max]. A default outside the
// range is clamped into it; a reversed range is swapped.
func NewCount(title string, min, max, defaultValue int, opts ...Option) Count {
	if min > max {
		min, max = max, min
	}
	return Count{
		base:         newBase(title, buildOptions(opts)),
		min:          min,
		max:          max,
		defaultValue: clamp(defaultValue, min, max),
	}
}

// Range returns the inclusive bounds.
func (f Count) Range() (int, int) { return f.min, f.max }

// Default returns the value used when nothing is stored.
func (f Count) Default() int { return f.defaultValue }

// Value returns the stored value, clamped in case the range tightened since
// it was written.
func (f Count) Value() int {
	if v, ok := prefs.Int(f.store, f.id.ID); ok {
		return clamp(v, f.min, f.max)
	}
	return f.defaultValue
}

func (f Count) SetValue(v int) {
	f.store.Set(f.id.ID, clamp(v, f.min, f.max))
}

// Step adds delta to the current value, staying within range.
func (f Count) Step(delta int) {
	f.SetValue(f.Value() + delta)
}

func (f Count) Control() Control {
	v := f.Value()
	return Control{
		Kind:        KindCount,
		ID:          f.id.ID,
		Title:       f.id.Title,
		Group:       f.id.Group,
		Description: f.id.Description,
		Display:     strconv.Itoa(v),
		Min:         f.min,
		Max:         f.max,
		Step:        f.Step,
		Choose:      func(i int) { f.SetValue(f.min + i) },
		Selected:    v - f.min,
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
