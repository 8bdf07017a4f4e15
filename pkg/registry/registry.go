// Package registry shares one deduplicated notification stream per flag id
// and keeps the ordered list of live flags that a settings screen renders.
//
// A Registry is an ordinary value owned by the host application; there is
// no package-level instance.
package registry

import (
	"log/slog"
	"sync"

	"github.com/imkira/go-observer/v2"
	"github.com/marcus/flagdeck/pkg/feature"
)

// Entry is one visible flag, in first-registration order.
type Entry struct {
	ID    string
	Group string
	Flag  feature.Descriptor

	owner stream
}

// Render returns the flag's current render descriptor.
func (e Entry) Render() feature.Control {
	return e.Flag.Control()
}

// Section is a run of entries sharing a group heading.
type Section struct {
	Group   string
	Entries []Entry
}

// stream is the type-erased view of a Stream[T].
type stream interface {
	stop()
	running() bool
}

// Registry maps flag ids to live streams.
type Registry struct {
	mu       sync.Mutex // taken before any Stream.mu
	streams  map[string]stream
	entries  []Entry
	revision uint64
	changes  observer.Property[uint64]

	dispatch Dispatcher
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithDispatcher sets where subscriber callbacks run. Defaults to Inline.
func WithDispatcher(d Dispatcher) Option {
	return func(r *Registry) { r.dispatch = d }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		streams:  map[string]stream{},
		changes:  observer.NewProperty[uint64](0),
		dispatch: Inline,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register returns the shared stream for flag, creating it on first use.
// Registering the same id again returns the same stream and does not
// observe the flag's sources a second time. A stream whose last
// subscription was cancelled is restarted and shown again.
func Register[T comparable](r *Registry, flag feature.Flag[T]) *Stream[T] {
	id := flag.ID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.streams[id]; ok {
		if s, ok := existing.(*Stream[T]); ok {
			s.mu.Lock()
			if !s.active {
				s.startLocked()
			}
			s.mu.Unlock()
			r.showLocked(s.entry())
			return s
		}
		// Two flags of different value types slugified to the same id.
		r.logger.Warn("registry: flag id reused with a different value type", "id", id)
	}

	s := newStream(r, flag)
	r.streams[id] = s
	r.showLocked(s.entry())
	r.bumpLocked()
	r.logger.Debug("registry: registered", "id", id, "group", flag.Group())
	return s
}

// reviveLocked puts a restarted stream back in the map and visible list.
// A slot taken by a stream of another value type is left alone.
func (r *Registry) reviveLocked(e Entry) {
	if _, ok := r.streams[e.ID]; !ok {
		r.streams[e.ID] = e.owner
	}
	r.showLocked(e)
}

// showLocked appends e to the visible list unless its id is already there.
func (r *Registry) showLocked(e Entry) {
	if r.indexLocked(e.ID) >= 0 {
		return
	}
	r.entries = append(r.entries, e)
	r.bumpLocked()
}

// hideLocked drops the visible entry for id if s still owns it. The stream
// itself stays in the map, dormant, so every holder keeps sharing it.
func (r *Registry) hideLocked(id string, s stream) {
	if i := r.indexLocked(id); i >= 0 && r.entries[i].owner == s {
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
	}
	r.bumpLocked()
	r.logger.Debug("registry: torn down", "id", id)
}

func (r *Registry) indexLocked(id string) int {
	for i, e := range r.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) bumpLocked() {
	r.revision++
	r.changes.Update(r.revision)
}

// changed records that some registered flag emitted a new value.
func (r *Registry) changed() {
	r.mu.Lock()
	r.bumpLocked()
	r.mu.Unlock()
}

// Observe returns a stream over the registry revision, which advances
// whenever the visible list changes or a registered flag emits a value.
func (r *Registry) Observe() observer.Stream[uint64] {
	return r.changes.Observe()
}

// Active reports whether id currently has a running stream. Unknown ids are
// simply not registered.
func (r *Registry) Active(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.streams[id]
	return ok && s.running()
}

// Lookup returns the visible entry for id.
func (r *Registry) Lookup(id string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexLocked(id); i >= 0 {
		return r.entries[i], true
	}
	return Entry{}, false
}

// Entries returns the visible flags in first-registration order.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Sections returns Entries grouped for display.
func (r *Registry) Sections() []Section {
	return GroupEntries(r.Entries())
}

// Close tears down every stream. Existing subscriptions stop receiving
// values; later registrations and subscriptions start the pipelines again.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.streams {
		s.stop()
	}
	r.entries = nil
	r.bumpLocked()
}

// GroupEntries groups entries by Group. A group's position is that of its
// first entry; entries keep their order within a group. The empty group is
// a group like any other.
func GroupEntries(entries []Entry) []Section {
	var sections []Section
	index := map[string]int{}
	for _, e := range entries {
		i, ok := index[e.Group]
		if !ok {
			i = len(sections)
			index[e.Group] = i
			sections = append(sections, Section{Group: e.Group})
		}
		sections[i].Entries = append(sections[i].Entries, e)
	}
	return sections
}
