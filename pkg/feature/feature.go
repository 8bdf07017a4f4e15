// Package feature declares feature flags: small immutable descriptors that
// read and write one value in a preference store.
//
// Descriptors never fail. Absent, malformed or stale stored values read as
// the flag's default, out-of-range numbers are clamped, and writes that
// cannot be represented are dropped.
package feature

import (
	"strings"
	"unicode"

	"github.com/imkira/go-observer/v2"
	"github.com/marcus/flagdeck/pkg/prefs"
)

const (
	keyPrefix       = "FeatureFlag_"
	staticKeyPrefix = "StaticFeatureFlag_"
	keySeparator    = '-'
)

// Key derives a flag id from its title: every run of characters that are
// not letters or digits becomes a single '-', and the result is prefixed
// with "FeatureFlag_".
//
// Distinct titles can collide ("A-B" and "A B" both give "FeatureFlag_A-B").
// Use WithKey when an id must be guaranteed unique.
func Key(title string) string {
	return keyPrefix + slug(title)
}

func slug(s string) string {
	var b strings.Builder
	inRun := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			inRun = false
			continue
		}
		if !inRun {
			b.WriteRune(keySeparator)
			inRun = true
		}
	}
	return b.String()
}

// Identity names one flag.
type Identity struct {
	ID          string
	Title       string
	Group       string
	Description string
}

// Source is a raw change signal a flag derives its notifications from.
// Every prefs.Store is a Source.
type Source interface {
	Observe() observer.Stream[uint64]
}

// Descriptor is the value-type independent view of a flag.
type Descriptor interface {
	ID() string
	Title() string
	Group() string
	Description() string
	// Sources lists the signals whose firing may change the flag value.
	Sources() []Source
	// Control describes how to render and edit the flag.
	Control() Control
}

// Flag is a descriptor with a typed value.
type Flag[T comparable] interface {
	Descriptor
	Value() T
	SetValue(T)
}

// Option configures a flag at construction.
type Option func(*options)

type options struct {
	group       string
	description string
	key         string
	store       prefs.Store
}

// WithGroup places the flag under a section heading.
func WithGroup(group string) Option {
	return func(o *options) { o.group = group }
}

// WithDescription attaches markdown help text.
func WithDescription(text string) Option {
	return func(o *options) { o.description = text }
}

// WithKey uses an explicit id instead of one derived from the title.
func WithKey(key string) Option {
	return func(o *options) { o.key = key }
}

// WithStore reads and writes through s instead of prefs.Default().
func WithStore(s prefs.Store) Option {
	return func(o *options) { o.store = s }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = prefs.Default()
	}
	return o
}

// base holds the fields shared by every stored flag.
type base struct {
	id    Identity
	store prefs.Store
}

func newBase(title string, o options) base {
	id := o.key
	if id == "" {
		id = Key(title)
	}
	return base{
		id: Identity{
			ID:          id,
			Title:       title,
			Group:       o.group,
			Description: o.description,
		},
		store: o.store,
	}
}

func (b base) ID() string          { return b.id.ID }
func (b base) Title() string       { return b.id.Title }
func (b base) Group() string       { return b.id.Group }
func (b base) Description() string { return b.id.Description }

// Identity returns the flag identity.
func (b base) Identity() Identity { return b.id }

// Store returns the backing preference store.
func (b base) Store() prefs.Store { return b.store }

func (b base) Sources() []Source { return []Source{b.store} }

// Reset removes the stored value so the flag reads its default again.
func (b base) Reset() { b.store.Remove(b.id.ID) }
