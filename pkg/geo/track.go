package geo

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tableflip.dev/journal/pkg/journal"
)

// OpenTrack reads a .gpx or .fit file.
func OpenTrack(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geo: open track: %w", err)
	}
	defer f.Close()

	var t *Track
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".fit":
		t, err = ReadFIT(f)
	case ".gpx", "":
		t, err = ReadGPX(f)
	default:
		return nil, fmt.Errorf("geo: unsupported track format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// Journey turns the track into a finished journey. An empty theme falls
// back to the track name.
func (t *Track) Journey(theme string) *journal.Journey {
	if strings.TrimSpace(theme) == "" {
		theme = t.Name
	}
	j := &journal.Journey{
		Theme:     theme,
		Route:     Route(t.Fixes),
		Snapshots: []journal.Snapshot{},
	}
	if n := len(t.Fixes); n > 0 {
		j.StartTime = journal.At(t.Fixes[0].Time)
		end := journal.At(t.Fixes[n-1].Time)
		j.EndTime = &end
	}
	return j
}

// ParseCoordinates reads "lat,lon" in decimal degrees.
func ParseCoordinates(s string) (journal.Coordinates, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return journal.Coordinates{}, fmt.Errorf("geo: want lat,lon, got %q", s)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil || la < -90 || la > 90 {
		return journal.Coordinates{}, fmt.Errorf("geo: bad latitude %q", lat)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil || lo < -180 || lo > 180 {
		return journal.Coordinates{}, fmt.Errorf("geo: bad longitude %q", lon)
	}
	return journal.Coordinates{Latitude: la, Longitude: lo}, nil
}
