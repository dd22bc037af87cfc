package geo

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/journal/pkg/journal"
)

var (
	lisbon = journal.Coordinates{Latitude: 38.7223, Longitude: -9.1393}
	porto  = journal.Coordinates{Latitude: 41.1579, Longitude: -8.6291}
)

func TestNominatimReverse(t *testing.T) {
	var gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "38.7223", r.URL.Query().Get("lat"))
		w.Write([]byte(`{"address":{"pedestrian":"Rua Augusta","town":"Lisboa","country":"Portugal"}}`))
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL + "/")
	n.Limiter = nil
	addr, err := n.Reverse(context.Background(), lisbon)
	require.NoError(t, err)
	assert.Equal(t, "RUA AUGUSTA, LISBOA, PORTUGAL", addr)
	assert.Equal(t, "JournalApp/1.0", gotUA)
	assert.Equal(t, "/reverse", gotPath)
}

func TestNominatimFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("lat") {
		case "0":
			w.Write([]byte(`{"error":"Unable to geocode"}`))
		case "1":
			w.Write([]byte(`{"address":{}}`))
		default:
			http.Error(w, "slow down", http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL)
	n.Limiter = nil
	ctx := context.Background()

	_, err := n.Reverse(ctx, journal.Coordinates{Latitude: 0})
	assert.ErrorIs(t, err, ErrNoAddress)
	_, err = n.Reverse(ctx, journal.Coordinates{Latitude: 1})
	assert.ErrorIs(t, err, ErrNoAddress)
	_, err = n.Reverse(ctx, journal.Coordinates{Latitude: 2})
	assert.Error(t, err)
}

func TestNominatimRespectsContextWhileLimited(t *testing.T) {
	n := NewNominatim("http://127.0.0.1:1")
	require.True(t, n.Limiter.Allow(), "first token")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := n.Reverse(ctx, lisbon)
	assert.Error(t, err)
}

type stubGeocoder struct {
	addr  string
	err   error
	calls int
}

func (s *stubGeocoder) Reverse(context.Context, journal.Coordinates) (string, error) {
	s.calls++
	return s.addr, s.err
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	broken := &stubGeocoder{err: errors.New("native geocoder down")}
	good := &stubGeocoder{addr: "RUA AUGUSTA, LISBOA"}
	never := &stubGeocoder{addr: "unused"}

	addr, err := Chain{broken, good, never}.Reverse(ctx, lisbon)
	require.NoError(t, err)
	assert.Equal(t, "RUA AUGUSTA, LISBOA", addr)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 0, never.calls)

	_, err = Chain{broken}.Reverse(ctx, lisbon)
	assert.ErrorContains(t, err, "native geocoder down")

	_, err = Chain{}.Reverse(ctx, lisbon)
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestReverseOr(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, UnknownLocation, ReverseOr(ctx, nil, lisbon, UnknownLocation))
	assert.Equal(t, UnknownLocation, ReverseOr(ctx, &stubGeocoder{err: ErrNoAddress}, lisbon, UnknownLocation))
	assert.Equal(t, "HOME", ReverseOr(ctx, Fixed("HOME"), lisbon, UnknownLocation))
	assert.Equal(t, UnknownLocation, ReverseOr(ctx, Fixed(""), lisbon, UnknownLocation))
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "MAIN ST, SPRINGFIELD", FormatAddress("Main St", "", " Springfield "))
	assert.Equal(t, "", FormatAddress("", " "))
}

func TestOpenMeteo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("current_weather"))
		if r.URL.Query().Get("latitude") == "0" {
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`{"current_weather":{"temperature":17.6,"windspeed":4.2}}`))
	}))
	defer srv.Close()

	o := NewOpenMeteo(srv.URL)
	ctx := context.Background()
	got, err := o.Current(ctx, lisbon)
	require.NoError(t, err)
	assert.Equal(t, "18°C", got)

	_, err = o.Current(ctx, journal.Coordinates{})
	assert.Error(t, err)
	assert.Equal(t, DefaultWeather, CurrentOr(ctx, o, journal.Coordinates{}))
	assert.Equal(t, DefaultWeather, CurrentOr(ctx, nil, lisbon))
	assert.Equal(t, "-3°C", FormatTemperature(-2.6))
}

func TestDistance(t *testing.T) {
	d := Distance(lisbon, porto)
	assert.InDelta(t, 274000, d, 3000)
	assert.Zero(t, Distance(lisbon, lisbon))

	route := []journal.RoutePoint{{Coordinates: lisbon}, {Coordinates: porto}, {Coordinates: lisbon}}
	assert.InDelta(t, 2*d, RouteLength(route), 1)
	assert.Zero(t, RouteLength(nil))
}

func TestReplayWatch(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	r := &Replay{Fixes: []Fix{
		{Coordinates: lisbon, Time: start},
		{Coordinates: porto, Time: start.Add(time.Hour)},
	}}
	ctx := context.Background()

	cur, err := r.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, lisbon, cur.Coordinates)

	ch, err := r.Watch(ctx)
	require.NoError(t, err)
	var got []Fix
	for f := range ch {
		got = append(got, f)
	}
	assert.Equal(t, r.Fixes, got)

	_, err = (&Replay{}).Watch(ctx)
	assert.ErrorIs(t, err, ErrNoFix)
}

func TestStaticWatchStopsWithContext(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := &Static{Point: lisbon, Interval: time.Millisecond, Now: func() time.Time { return now }}
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := s.Watch(ctx)
	require.NoError(t, err)
	f := <-ch
	assert.Equal(t, lisbon, f.Coordinates)
	assert.Equal(t, now, f.Time)

	cancel()
	for range ch {
	}
}

func TestGPXRoundTrip(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	rating := 7
	j := &journal.Journey{
		ID:        "j1",
		Theme:     "Coastal walk",
		StartTime: journal.At(start),
		Route: []journal.RoutePoint{
			{Coordinates: lisbon, Timestamp: journal.At(start)},
			{Coordinates: porto, Timestamp: journal.At(start.Add(90 * time.Minute))},
		},
		Snapshots: []journal.Snapshot{{
			Timestamp:   journal.At(start.Add(time.Hour)),
			Coordinates: porto,
			Address:     "RIBEIRA, PORTO",
			MoodRating:  &rating,
			Note:        "sea air",
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGPX(&buf, j))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<desc>sea air</desc>")

	track, err := ReadGPX(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Coastal walk", track.Name)
	require.Len(t, track.Fixes, 2)
	assert.Equal(t, porto, track.Fixes[1].Coordinates)
	assert.True(t, track.Fixes[1].Time.Equal(start.Add(90*time.Minute)))

	route := Route(track.Fixes)
	assert.Equal(t, j.Route[0].Coordinates, route[0].Coordinates)
}

func TestReadGPXRejectsEmpty(t *testing.T) {
	_, err := ReadGPX(strings.NewReader(`<gpx version="1.1"><trk><trkseg></trkseg></trk></gpx>`))
	assert.ErrorIs(t, err, ErrNoFix)

	_, err = ReadGPX(strings.NewReader(`not xml`))
	assert.Error(t, err)
}

func TestReadFITRejectsGarbage(t *testing.T) {
	_, err := ReadFIT(strings.NewReader("definitely not a fit file"))
	assert.Error(t, err)
}
