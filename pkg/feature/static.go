package feature

import "fmt"

// Static is a read-only flag with a fixed value, for values owned by
// something other than the preference store (a build setting, a value
// fetched elsewhere). Its id comes from an explicit key.
type Static[T comparable] struct {
	id    Identity
	value T
}

// NewStatic declares a read-only flag. Only WithGroup and WithDescription
// apply; the id is always derived from key.
func NewStatic[T comparable](key string, value T, opts ...Option) Static[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return Static[T]{
		id: Identity{
			ID:          staticKeyPrefix + slug(key),
			Title:       key,
			Group:       o.group,
			Description: o.description,
		},
		value: value,
	}
}

func (f Static[T]) ID() string          { return f.id.ID }
func (f Static[T]) Title() string       { return f.id.Title }
func (f Static[T]) Group() string       { return f.id.Group }
func (f Static[T]) Description() string { return f.id.Description }
func (f Static[T]) Sources() []Source   { return nil }
func (f Static[T]) Value() T            { return f.value }
func (f Static[T]) SetValue(T)          {}

func (f Static[T]) Control() Control {
	return Control{
		Kind:        KindStatic,
		ID:          f.id.ID,
		Title:       f.id.Title,
		Group:       f.id.Group,
		Description: f.id.Description,
		Display:     fmt.Sprint(f.value),
		ReadOnly:    true,
	}
}
