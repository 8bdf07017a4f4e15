package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/marcus/flagdeck/pkg/feature"
	"github.com/marcus/flagdeck/pkg/prefs"
)

func TestQueueDrainRunsInOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := 0; i < 5; i++ {
		q.Dispatch(func() {
			got = append(got, i)
			if i == 2 {
				q.Dispatch(func() { got = append(got, 99) })
			}
		})
	}

	select {
	case <-q.Ready():
	default:
		t.Fatal("Ready should be signalled after Dispatch")
	}

	if n := q.Drain(); n != 6 {
		t.Errorf("Drain() = %d, want 6", n)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 99}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if n := q.Drain(); n != 0 {
		t.Errorf("second Drain() = %d, want 0", n)
	}
}

func TestQueueRun(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	var runErr error
	go func() {
		defer wg.Done()
		runErr = q.Run(ctx)
	}()

	done := make(chan struct{})
	q.Dispatch(func() { close(done) })
	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("Run did not execute the callback")
	}

	cancel()
	wg.Wait()
	if runErr != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", runErr)
	}
}

func TestRegistryDeliversThroughQueue(t *testing.T) {
	store := prefs.NewMemoryStore()
	q := NewQueue()
	r := New(WithDispatcher(q))
	defer r.Close()

	f := feature.NewToggle("Queued", false, feature.WithStore(store))
	var got []bool
	Register[bool](r, f).Subscribe(func(v bool) { got = append(got, v) })

	if len(got) != 0 {
		t.Fatal("callback ran before the queue was drained")
	}
	q.Drain()

	f.SetValue(true)
	deadline := time.After(waitTimeout)
	for len(got) < 2 {
		select {
		case <-q.Ready():
			q.Drain()
		case <-deadline:
			t.Fatalf("timed out; got %v", got)
		}
	}
	if diff := cmp.Diff([]bool{false, true}, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}
