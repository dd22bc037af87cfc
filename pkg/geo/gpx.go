package geo

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"tableflip.dev/journal/pkg/journal"
)

type gpxDoc struct {
	XMLName xml.Name   `xml:"gpx"`
	Version string     `xml:"version,attr"`
	Creator string     `xml:"creator,attr"`
	XMLNS   string     `xml:"xmlns,attr,omitempty"`
	Meta    *gpxMeta   `xml:"metadata,omitempty"`
	Wpts    []gpxPoint `xml:"wpt"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxMeta struct {
	Name string `xml:"name,omitempty"`
	Time string `xml:"time,omitempty"`
}

type gpxTrack struct {
	Name     string       `xml:"name,omitempty"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Ele  *float64 `xml:"ele,omitempty"`
	Time string  `xml:"time,omitempty"`
	Name string  `xml:"name,omitempty"`
	Desc string  `xml:"desc,omitempty"`
}

// Track is a recorded activity read from a GPX or FIT file.
type Track struct {
	Name  string
	Fixes []Fix
}

// ReadGPX reads every track point of a GPX document, in order.
func ReadGPX(r io.Reader) (*Track, error) {
	var doc gpxDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("geo: decode gpx: %w", err)
	}
	t := &Track{}
	if doc.Meta != nil {
		t.Name = doc.Meta.Name
	}
	for _, trk := range doc.Tracks {
		if t.Name == "" {
			t.Name = trk.Name
		}
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				f := Fix{Coordinates: journal.Coordinates{Latitude: p.Lat, Longitude: p.Lon}}
				if p.Time != "" {
					ts, err := time.Parse(time.RFC3339Nano, p.Time)
					if err != nil {
						return nil, fmt.Errorf("geo: gpx point time %q: %w", p.Time, err)
					}
					f.Time = ts
				}
				t.Fixes = append(t.Fixes, f)
			}
		}
	}
	if len(t.Fixes) == 0 {
		return nil, fmt.Errorf("geo: gpx has no track points: %w", ErrNoFix)
	}
	return t, nil
}

// WriteGPX writes the journey's route as a single track. Snapshots become
// waypoints carrying their note and address.
func WriteGPX(w io.Writer, j *journal.Journey) error {
	doc := gpxDoc{
		Version: "1.1",
		Creator: "journal",
		XMLNS:   "http://www.topografix.com/GPX/1/1",
		Meta:    &gpxMeta{Name: j.Theme, Time: journal.FormatTime(j.StartTime.Time)},
	}
	seg := gpxSegment{}
	for _, p := range j.Route {
		pt := gpxPoint{Lat: p.Latitude, Lon: p.Longitude}
		if !p.Timestamp.IsZero() {
			pt.Time = journal.FormatTime(p.Timestamp.Time)
		}
		seg.Points = append(seg.Points, pt)
	}
	doc.Tracks = []gpxTrack{{Name: j.Theme, Segments: []gpxSegment{seg}}}
	for _, s := range j.Snapshots {
		doc.Wpts = append(doc.Wpts, gpxPoint{
			Lat:  s.Latitude,
			Lon:  s.Longitude,
			Time: journal.FormatTime(s.Timestamp.Time),
			Name: s.Address,
			Desc: s.Note,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("geo: encode gpx: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
