// Package geo provides positions, addresses and weather for the journal:
// where the user is, what that place is called, and how warm it is.
package geo

import (
	"context"
	"errors"
	"math"
	"time"

	"tableflip.dev/journal/pkg/journal"
)

var ErrNoFix = errors.New("geo: no location fix")

// Fix is one position reading.
type Fix struct {
	journal.Coordinates
	Time time.Time
}

// Locator is a source of positions. Watch streams fixes until ctx is done
// or the source runs dry, then closes the channel.
type Locator interface {
	Current(ctx context.Context) (Fix, error)
	Watch(ctx context.Context) (<-chan Fix, error)
}

// Static reports the same point forever.
type Static struct {
	Point    journal.Coordinates
	Interval time.Duration
	Now      func() time.Time
}

func (s *Static) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Static) Current(ctx context.Context) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	return Fix{Coordinates: s.Point, Time: s.now()}, nil
}

func (s *Static) Watch(ctx context.Context) (<-chan Fix, error) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ch := make(chan Fix, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case ch <- Fix{Coordinates: s.Point, Time: s.now()}:
			case <-ctx.Done():
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// Replay plays back a recorded track, one fix per Interval. A zero
// Interval plays the track as fast as the reader consumes it.
type Replay struct {
	Fixes    []Fix
	Interval time.Duration
}

// Current returns the first recorded fix.
func (r *Replay) Current(ctx context.Context) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	if len(r.Fixes) == 0 {
		return Fix{}, ErrNoFix
	}
	return r.Fixes[0], nil
}

func (r *Replay) Watch(ctx context.Context) (<-chan Fix, error) {
	if len(r.Fixes) == 0 {
		return nil, ErrNoFix
	}
	fixes := append([]Fix(nil), r.Fixes...)
	ch := make(chan Fix)
	go func() {
		defer close(ch)
		for i, f := range fixes {
			if i > 0 && r.Interval > 0 {
				t := time.NewTimer(r.Interval)
				select {
				case <-t.C:
				case <-ctx.Done():
					t.Stop()
					return
				}
			}
			select {
			case ch <- f:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

const earthRadius = 6371000.0

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b journal.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

// RouteLength sums the distance between consecutive route points.
func RouteLength(route []journal.RoutePoint) float64 {
	var total float64
	for i := 1; i < len(route); i++ {
		total += Distance(route[i-1].Coordinates, route[i].Coordinates)
	}
	return total
}

// Route converts fixes to journey route points.
func Route(fixes []Fix) []journal.RoutePoint {
	out := make([]journal.RoutePoint, 0, len(fixes))
	for _, f := range fixes {
		out = append(out, journal.RoutePoint{Coordinates: f.Coordinates, Timestamp: journal.At(f.Time)})
	}
	return out
}
