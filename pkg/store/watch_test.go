package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/journal/pkg/journal"
)

func TestPersistenceWatchEmitsRecordChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Open(context.Background(), StaticConfig{Path: base})
	if err != nil {
		t.Fatalf("open persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe before storing.
	time.Sleep(50 * time.Millisecond)

	st := journal.DefaultState()
	st.UserName = "Ada"
	key := KeyFor("u1")
	if err := p.Save(ctx, key, st); err != nil {
		t.Fatalf("save: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Key != key {
				t.Fatalf("expected key %q, got %q", key, evt.Key)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for record change event")
		}
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 10)
	send := func(ev Event) { got <- ev }
	for i := 0; i < 5; i++ {
		th.Enqueue(Event{Key: "journal_app_data"}, send)
	}

	select {
	case ev := <-got:
		if ev.Key != "journal_app_data" {
			t.Fatalf("unexpected key %q", ev.Key)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for flush")
	}
	select {
	case ev := <-got:
		t.Fatalf("expected a single coalesced event, got extra %+v", ev)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestEventThrottleStopDropsPending(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	got := make(chan Event, 1)
	th.Enqueue(Event{Key: "journal_app_data"}, func(ev Event) { got <- ev })
	th.Stop()

	select {
	case ev := <-got:
		t.Fatalf("no event expected after Stop, got %+v", ev)
	case <-time.After(60 * time.Millisecond):
	}
}
