package geo

import (
	"fmt"
	"io"
	"math"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/filedef"

	"tableflip.dev/journal/pkg/journal"
)

// FIT stores positions as semicircles; MaxInt32 marks a missing value.
const (
	semicircleInvalid = math.MaxInt32
	semicircleDegrees = 180.0 / (1 << 31)
)

// ReadFIT reads the GPS records of a FIT activity file. Records without a
// position are skipped.
func ReadFIT(r io.Reader) (*Track, error) {
	t := &Track{}
	dec := decoder.New(r)
	for dec.Next() {
		fit, err := dec.Decode()
		if err != nil {
			return nil, fmt.Errorf("geo: decode fit: %w", err)
		}
		activity := filedef.NewActivity(fit.Messages...)
		if t.Name == "" && len(activity.Sessions) > 0 {
			t.Name = activity.Sessions[0].Sport.String()
		}
		for _, rec := range activity.Records {
			if rec.PositionLat == semicircleInvalid || rec.PositionLong == semicircleInvalid {
				continue
			}
			t.Fixes = append(t.Fixes, Fix{
				Coordinates: journal.Coordinates{
					Latitude:  float64(rec.PositionLat) * semicircleDegrees,
					Longitude: float64(rec.PositionLong) * semicircleDegrees,
				},
				Time: rec.Timestamp,
			})
		}
	}
	if len(t.Fixes) == 0 {
		return nil, fmt.Errorf("geo: fit has no positions: %w", ErrNoFix)
	}
	return t, nil
}
