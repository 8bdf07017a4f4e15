package registry

import (
	"sync"
	"sync/atomic"

	"github.com/imkira/go-observer/v2"
	"github.com/marcus/flagdeck/pkg/feature"
)

// Stream is the shared notification stream for one flag. New subscribers
// immediately receive the current value; after that they receive each
// distinct value the flag takes. All callbacks run through the registry's
// Dispatcher.
type Stream[T comparable] struct {
	reg  *Registry
	flag feature.Flag[T]

	mu      sync.Mutex
	current T
	seq     uint64
	subs    []*subscriber[T]
	active  bool
	gen     uint64 // pipeline generation; bumped on every start
	done    chan struct{}
}

type subscriber[T comparable] struct {
	fn       func(T)
	lastSeq  atomic.Uint64
	canceled atomic.Bool
}

// deliver hands v to the subscriber unless it has already seen a newer
// value; a replay can race with a fresh emission.
func (s *subscriber[T]) deliver(v T, seq uint64) {
	if s.canceled.Load() {
		return
	}
	for {
		last := s.lastSeq.Load()
		if seq <= last {
			return
		}
		if s.lastSeq.CompareAndSwap(last, seq) {
			s.fn(v)
			return
		}
	}
}

func newStream[T comparable](r *Registry, flag feature.Flag[T]) *Stream[T] {
	s := &Stream[T]{reg: r, flag: flag}
	s.startLocked()
	return s
}

// startLocked observes each distinct source once and starts the pipeline.
func (s *Stream[T]) startLocked() {
	s.done = make(chan struct{})
	kick := make(chan struct{}, 1)
	var observed []feature.Source
	for _, src := range s.flag.Sources() {
		if containsSource(observed, src) {
			continue
		}
		observed = append(observed, src)
		go forward(src.Observe(), kick, s.done)
	}

	// Read after observing so a write in between is not lost.
	s.current = s.flag.Value()
	s.seq++
	s.active = true
	s.gen++
	go s.run(kick, s.done, s.gen)
}

// haltLocked stops the pipeline. The stream can be started again.
func (s *Stream[T]) haltLocked() {
	s.active = false
	close(s.done)
}

func (s *Stream[T]) entry() Entry {
	return Entry{ID: s.flag.ID(), Group: s.flag.Group(), Flag: s.flag, owner: s}
}

// forward turns source revisions into coalesced kicks.
func forward(st observer.Stream[uint64], kick chan<- struct{}, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-st.Changes():
			st.Next()
			select {
			case kick <- struct{}{}:
			default:
			}
		}
	}
}

func (s *Stream[T]) run(kick <-chan struct{}, done <-chan struct{}, gen uint64) {
	for {
		select {
		case <-done:
			return
		case <-kick:
			s.refresh(gen)
		}
	}
}

// refresh recomputes the flag value and fans it out if it changed. A
// refresh left over from a halted pipeline is dropped.
func (s *Stream[T]) refresh(gen uint64) {
	v := s.flag.Value()

	s.mu.Lock()
	if !s.active || gen != s.gen || v == s.current {
		s.mu.Unlock()
		return
	}
	s.current = v
	s.seq++
	seq := s.seq
	subs := make([]*subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.reg.changed()
	s.reg.dispatch.Dispatch(func() {
		for _, sub := range subs {
			sub.deliver(v, seq)
		}
	})
}

// ID returns the flag id.
func (s *Stream[T]) ID() string { return s.flag.ID() }

// Flag returns the descriptor the stream was built from.
func (s *Stream[T]) Flag() feature.Flag[T] { return s.flag }

// Value returns the last value the stream observed.
func (s *Stream[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribers returns the number of live subscriptions.
func (s *Stream[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Subscribe registers fn. The current value is delivered straight away.
// Subscribing to a stream whose pipeline was torn down starts it again and
// puts the flag back in the registry's visible list.
func (s *Stream[T]) Subscribe(fn func(T)) *Subscription {
	sub := &subscriber[T]{fn: fn}
	r := s.reg

	r.mu.Lock()
	s.mu.Lock()
	restarted := !s.active
	if restarted {
		s.startLocked()
	}
	s.subs = append(s.subs, sub)
	v, seq := s.current, s.seq
	s.mu.Unlock()
	if restarted {
		r.reviveLocked(s.entry())
		r.logger.Debug("registry: restarted", "id", s.flag.ID())
	}
	r.mu.Unlock()

	r.dispatch.Dispatch(func() { sub.deliver(v, seq) })
	return &Subscription{cancel: func() { s.unsubscribe(sub) }}
}

func (s *Stream[T]) unsubscribe(sub *subscriber[T]) {
	sub.canceled.Store(true)
	r := s.reg

	r.mu.Lock()
	defer r.mu.Unlock()

	s.mu.Lock()
	found := false
	for i, existing := range s.subs {
		if existing == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			found = true
			break
		}
	}
	last := found && len(s.subs) == 0 && s.active
	if last {
		s.haltLocked()
	}
	s.mu.Unlock()

	if last {
		r.hideLocked(s.flag.ID(), s)
	}
}

// stop halts the pipeline and drops every subscriber. Called with the
// registry lock held.
func (s *Stream[T]) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		sub.canceled.Store(true)
	}
	s.subs = nil
	if s.active {
		s.haltLocked()
	}
}

func (s *Stream[T]) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Subscription is the handle returned by Stream.Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel stops delivery. Cancelling the last subscription of a stream
// removes the flag from the registry. Cancel is idempotent.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

func containsSource(list []feature.Source, src feature.Source) bool {
	for _, existing := range list {
		if existing == src {
			return true
		}
	}
	return false
}
