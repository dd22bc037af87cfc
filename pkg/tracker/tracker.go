// Package tracker follows the device position while a journey is active
// and records it on the journey route.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/geo"
	"tableflip.dev/journal/pkg/journal"
)

// Unavailable is the address shown when no position could be read.
const Unavailable = "LOCATION UNAVAILABLE"

// DefaultMinDistance is how far, in meters, the position must move before
// another route point is recorded.
const DefaultMinDistance = 50

// Recorder stores route points; *app.Service is one.
type Recorder interface {
	AddRoutePoint(ctx context.Context, c journal.Coordinates) error
}

// Tracker drives a Locator into a Recorder and keeps a human readable
// address for the latest fix. Address lookups run in the background; a
// lookup that finishes after a newer one started, or after Run returned,
// is discarded.
type Tracker struct {
	Locator     geo.Locator
	Geocoder    geo.Geocoder
	Recorder    Recorder
	MinDistance float64
	// OnFix and OnAddress are called from the tracking goroutines.
	OnFix     func(geo.Fix)
	OnAddress func(string)
	Log       *zap.SugaredLogger

	mu      sync.Mutex
	epoch   uint64
	running bool
	last    *geo.Fix
	address string
	points  int
	wg      sync.WaitGroup
}

func (t *Tracker) log() *zap.SugaredLogger {
	if t.Log != nil {
		return t.Log
	}
	return zap.S()
}

func (t *Tracker) minDistance() float64 {
	if t.MinDistance > 0 {
		return t.MinDistance
	}
	return DefaultMinDistance
}

// Run tracks until ctx is done, the locator runs dry, or the journey is no
// longer active. Ending the journey is not an error.
func (t *Tracker) Run(ctx context.Context) error {
	if t.Locator == nil || t.Recorder == nil {
		return errors.New("tracker: locator and recorder required")
	}
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return errors.New("tracker: already running")
	}
	t.running = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		t.mu.Lock()
		t.running = false
		t.epoch++
		t.mu.Unlock()
		t.wg.Wait()
	}()

	if fix, err := t.Locator.Current(ctx); err != nil {
		t.log().Warnw("no initial position", "error", err)
		t.setAddress(Unavailable)
	} else if done, err := t.handle(ctx, fix); done || err != nil {
		return err
	}

	fixes, err := t.Locator.Watch(ctx)
	if err != nil {
		return fmt.Errorf("tracker: watch position: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case fix, ok := <-fixes:
			if !ok {
				return nil
			}
			if done, err := t.handle(ctx, fix); done || err != nil {
				return err
			}
		}
	}
}

// handle records fix if it moved far enough. done reports that tracking
// should stop.
func (t *Tracker) handle(ctx context.Context, fix geo.Fix) (done bool, err error) {
	t.mu.Lock()
	if t.last != nil && geo.Distance(t.last.Coordinates, fix.Coordinates) < t.minDistance() {
		t.mu.Unlock()
		return false, nil
	}
	t.mu.Unlock()

	if err := t.Recorder.AddRoutePoint(ctx, fix.Coordinates); err != nil {
		if errors.Is(err, app.ErrNoActiveJourney) {
			t.log().Infow("journey no longer active, stop tracking")
			return true, nil
		}
		if ctx.Err() != nil {
			return true, nil
		}
		// The point is kept in memory even when saving it failed.
		t.log().Warnw("record route point", "at", fix.Coordinates.String(), "error", err)
	}

	t.mu.Lock()
	f := fix
	t.last = &f
	t.points++
	t.mu.Unlock()

	if t.OnFix != nil {
		t.OnFix(fix)
	}
	t.lookup(ctx, fix)
	return false, nil
}

func (t *Tracker) lookup(ctx context.Context, fix geo.Fix) {
	if t.Geocoder == nil {
		return
	}
	t.mu.Lock()
	t.epoch++
	epoch := t.epoch
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		addr, err := t.Geocoder.Reverse(ctx, fix.Coordinates)
		if err != nil {
			t.log().Debugw("reverse geocode failed", "at", fix.Coordinates.String(), "error", err)
			return
		}
		t.mu.Lock()
		if epoch != t.epoch {
			t.mu.Unlock()
			return
		}
		t.address = addr
		t.mu.Unlock()
		if t.OnAddress != nil {
			t.OnAddress(addr)
		}
	}()
}

func (t *Tracker) setAddress(addr string) {
	t.mu.Lock()
	t.address = addr
	t.mu.Unlock()
	if t.OnAddress != nil {
		t.OnAddress(addr)
	}
}

// Address is the most recent address found for the tracked position.
func (t *Tracker) Address() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.address
}

// Last returns the latest recorded fix.
func (t *Tracker) Last() (geo.Fix, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return geo.Fix{}, false
	}
	return *t.last, true
}

// Points is how many route points this tracker recorded.
func (t *Tracker) Points() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.points
}
