package feature

// Kind identifies which editor a flag is rendered with.
type Kind int

const (
	KindToggle Kind = iota
	KindCount
	KindPicker
	KindGroup
	KindStatic
)

func (k Kind) String() string {
	switch k {
	case KindToggle:
		return "toggle"
	case KindCount:
		return "count"
	case KindPicker:
		return "picker"
	case KindGroup:
		return "group"
	case KindStatic:
		return "static"
	}
	return "unknown"
}

// Control is a render descriptor: a snapshot of a flag's current state plus
// bindings that write back through the flag. A new Control should be taken
// after every change.
type Control struct {
	Kind        Kind
	ID          string
	Title       string
	Group       string
	Description string
	Display     string

	// Options are the selectable choices: picker cases, "false"/"true" for
	// toggles, "first"/"second" for groups.
	Options  []string
	Selected int

	// Min and Max bound counts.
	Min, Max int

	// Children holds a group's two child controls.
	Children []Control

	ReadOnly bool

	// Flip inverts a toggle.
	Flip func()
	// Step moves a count (or cycles a picker) by delta.
	Step func(delta int)
	// Choose selects option i; for groups it selects the active child.
	Choose func(i int)
}

// Editable reports whether the control has any binding.
func (c Control) Editable() bool {
	return !c.ReadOnly && (c.Flip != nil || c.Step != nil || c.Choose != nil)
}
