// Package catalog declares the flags flagdeck ships with and resolves them
// by name for the CLI.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/marcus/flagdeck/pkg/prefs"
	"github.com/marcus/flagdeck/pkg/registry"
)

// Accent is the accent color used by list views.
type Accent string

const (
	AccentRed   Accent = "red"
	AccentGreen Accent = "green"
	AccentBlue  Accent = "blue"
)

const (
	GroupAppearance  = "Appearance"
	GroupNetworking  = "Networking"
	GroupExperiments = "Experiments"
)

// Catalog holds the declared flags, all backed by one store.
type Catalog struct {
	AccentColor    feature.Picker[Accent]
	CompactRows    feature.Toggle
	ItemsPerPage   feature.Count
	RetryAttempts  feature.Count
	VerboseLogging feature.Toggle

	// RoundedCorners is decided by a build-time value unless the override
	// child is selected.
	RoundedCorners  feature.Group[bool]
	RoundedDefault  feature.Static[bool]
	RoundedOverride feature.Toggle
}

// New declares every flag against store.
func New(store prefs.Store) *Catalog {
	c := &Catalog{
		AccentColor: feature.NewPicker("Accent Color",
			[]Accent{AccentRed, AccentGreen, AccentBlue}, AccentRed,
			feature.WithGroup(GroupAppearance), feature.WithStore(store),
			feature.WithDescription("Color used for **selected rows** and headings.")),
		CompactRows: feature.NewToggle("Compact Rows", false,
			feature.WithGroup(GroupAppearance), feature.WithStore(store),
			feature.WithDescription("Drop the blank line between list rows.")),
		ItemsPerPage: feature.NewCount("Items Per Page", 5, 50, 20,
			feature.WithGroup(GroupAppearance), feature.WithStore(store),
			feature.WithDescription("Rows shown before paging. Clamped to `5..50`.")),
		RetryAttempts: feature.NewCount("Retry Attempts", 0, 10, 3,
			feature.WithGroup(GroupNetworking), feature.WithStore(store),
			feature.WithDescription("How many times a failed request is retried. `0` disables retries.")),
		VerboseLogging: feature.NewToggle("Verbose Logging", false,
			feature.WithGroup(GroupNetworking), feature.WithStore(store),
			feature.WithDescription("Log every request and response at debug level.")),
		RoundedDefault: feature.NewStatic("uses_rounded_corners", true,
			feature.WithDescription("Value shipped with this build.")),
		RoundedOverride: feature.NewToggle("Rounded Corners Override", true,
			feature.WithStore(store),
			feature.WithDescription("Local value used when the override is active.")),
	}
	c.RoundedCorners = feature.NewGroup[bool]("Rounded Corners", c.RoundedDefault, c.RoundedOverride,
		feature.WithGroup(GroupExperiments), feature.WithStore(store),
		feature.WithDescription("Draw panels with rounded borders.\n\n"+
			"- **first**: the build value `uses_rounded_corners`\n"+
			"- **second**: the local *Rounded Corners Override* toggle"))
	return c
}

// All returns the top-level flags in display order. Group children are
// reached through their group.
func (c *Catalog) All() []feature.Descriptor {
	return []feature.Descriptor{
		c.AccentColor,
		c.CompactRows,
		c.ItemsPerPage,
		c.RetryAttempts,
		c.VerboseLogging,
		c.RoundedCorners,
	}
}

// Flat returns All followed by group children, which can also be edited
// directly.
func (c *Catalog) Flat() []feature.Descriptor {
	return append(c.All(), c.RoundedDefault, c.RoundedOverride)
}

// Find resolves a flag by id, title, or slug, ignoring case.
func (c *Catalog) Find(name string) (feature.Descriptor, bool) {
	name = strings.TrimSpace(name)
	want := strings.ToLower(feature.Key(name))
	for _, d := range c.Flat() {
		if strings.EqualFold(d.ID(), name) ||
			strings.EqualFold(d.Title(), name) ||
			strings.ToLower(feature.Key(d.Title())) == want {
			return d, true
		}
	}
	return nil, false
}

// Register adds every top-level flag to r and subscribes to it. onChange
// runs, through r's dispatcher, whenever a flag takes a new value; the
// initial replay is skipped. Cancel the returned subscriptions to release
// the flags.
func (c *Catalog) Register(r *registry.Registry, onChange func(feature.Descriptor)) []*registry.Subscription {
	return []*registry.Subscription{
		watch[Accent](r, c.AccentColor, onChange),
		watch[bool](r, c.CompactRows, onChange),
		watch[int](r, c.ItemsPerPage, onChange),
		watch[int](r, c.RetryAttempts, onChange),
		watch[bool](r, c.VerboseLogging, onChange),
		watch[bool](r, c.RoundedCorners, onChange),
	}
}

func watch[T comparable](r *registry.Registry, flag feature.Flag[T], onChange func(feature.Descriptor)) *registry.Subscription {
	var replayed atomic.Bool
	return registry.Register(r, flag).Subscribe(func(T) {
		if !replayed.CompareAndSwap(false, true) && onChange != nil {
			onChange(flag)
		}
	})
}

// Apply parses raw according to the flag's kind and writes it. Only
// parse failures are errors; an out-of-range count is clamped as usual.
func Apply(d feature.Descriptor, raw string) error {
	c := d.Control()
	raw = strings.TrimSpace(raw)

	switch c.Kind {
	case feature.KindToggle:
		v, err := parseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Title, err)
		}
		if v {
			c.Choose(1)
		} else {
			c.Choose(0)
		}
	case feature.KindCount:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: expected an integer in %d..%d, got %q", c.Title, c.Min, c.Max, raw)
		}
		c.Choose(v - c.Min)
	case feature.KindPicker, feature.KindGroup:
		i := indexFold(c.Options, raw)
		if i < 0 {
			return fmt.Errorf("%s: unknown value %q (choose one of %s)", c.Title, raw, strings.Join(c.Options, ", "))
		}
		c.Choose(i)
	default:
		return fmt.Errorf("%s is read-only", c.Title)
	}
	return nil
}

// Reset clears the flag's stored value. For a group this clears only the
// active-child selector.
func Reset(d feature.Descriptor) error {
	r, ok := d.(interface{ Reset() })
	if !ok {
		return fmt.Errorf("%s is read-only", d.Title())
	}
	r.Reset()
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "on", "yes", "enable", "enabled":
		return true, nil
	case "0", "false", "off", "no", "disable", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("expected on/off, got %q", s)
}

func indexFold(options []string, s string) int {
	for i, o := range options {
		if strings.EqualFold(o, s) {
			return i
		}
	}
	return -1
}
