package entries

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/geo"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/store"
)

func newService(t *testing.T) *app.Service {
	t.Helper()
	p, err := store.NewDiskv(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskv() = %v", err)
	}
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return &app.Service{Persistence: p, Now: func() time.Time { return now }}
}

func TestAddHere(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	var out bytes.Buffer

	a := Add{
		App:      svc,
		Draft:    journal.EntryDraft{Mood: journal.MoodHappy, Content: "Sunny walk by the river"},
		Here:     true,
		Locator:  &geo.Static{Point: journal.Coordinates{Latitude: 38.7075, Longitude: -9.1365}},
		Geocoder: geo.Fixed("PRAÇA DO COMÉRCIO, LISBOA"),
		Out:      &out,
	}
	if err := a.Do(ctx); err != nil {
		t.Fatalf("Do() = %v", err)
	}

	all, err := svc.Entries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(all))
	}
	e := all[0]
	if e.Location != "PRAÇA DO COMÉRCIO, LISBOA" {
		t.Errorf("Location = %q", e.Location)
	}
	if e.Coordinates == nil || e.Coordinates.Latitude != 38.7075 {
		t.Errorf("Coordinates = %v", e.Coordinates)
	}
	if e.Weather != geo.DefaultWeather {
		t.Errorf("Weather = %q, want %q", e.Weather, geo.DefaultWeather)
	}
	if !strings.Contains(out.String(), "Sunny walk by the river") {
		t.Errorf("output missing headline:\n%s", out.String())
	}
}

func TestAddHereWithoutLocator(t *testing.T) {
	svc := newService(t)
	a := Add{App: svc, Here: true, Draft: journal.EntryDraft{Content: "indoors"}, Out: &bytes.Buffer{}}
	if err := a.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	all, _ := svc.Entries(context.Background())
	if got := all[0].Location; got != geo.UnknownLocation {
		t.Errorf("Location = %q, want %q", got, geo.UnknownLocation)
	}
	if all[0].Coordinates != nil {
		t.Errorf("Coordinates = %v, want nil", all[0].Coordinates)
	}
}

func TestEditFavoriteRemoveByPrefix(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	svc.NewID = func() string { return "4f1c2d3e-0000-4000-8000-000000000001" }
	if _, err := svc.AddEntry(ctx, journal.EntryDraft{Content: "first draft"}); err != nil {
		t.Fatal(err)
	}

	title := "Edited"
	e := Edit{App: svc, ID: "4f1c", Patch: journal.EntryPatch{Title: &title}, Out: &bytes.Buffer{}}
	if err := e.Do(ctx); err != nil {
		t.Fatalf("Edit.Do() = %v", err)
	}

	var out bytes.Buffer
	f := Favorite{App: svc, ID: "4f1c2d3e", JSON: true, Out: &out}
	if err := f.Do(ctx); err != nil {
		t.Fatalf("Favorite.Do() = %v", err)
	}
	var got journal.Entry
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("json: %v\n%s", err, out.String())
	}
	if !got.Favorite || got.Title != "Edited" {
		t.Errorf("got %+v, want favorite titled Edited", got)
	}

	if err := (&Remove{App: svc, ID: "4f", Out: &bytes.Buffer{}}).Do(ctx); err != nil {
		t.Fatalf("Remove.Do() = %v", err)
	}
	all, _ := svc.Entries(ctx)
	if len(all) != 0 {
		t.Errorf("len(entries) = %d after remove", len(all))
	}

	if err := (&Show{App: svc, ID: "4f", Out: &bytes.Buffer{}}).Do(ctx); err == nil {
		t.Error("Show of a removed entry should fail")
	}
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	drafts := []journal.EntryDraft{
		{Content: "Climbing day", Tags: []string{"sport"}, Favorite: true},
		{Content: "Quiet reading", Tags: []string{"books"}},
		{Content: "Evening climbing", Tags: []string{"sport"}},
	}
	for _, d := range drafts {
		if _, err := svc.AddEntry(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	tests := map[string]struct {
		list List
		want int
	}{
		"all":       {list: List{}, want: 3},
		"query":     {list: List{Query: "climb"}, want: 2},
		"tag":       {list: List{Tags: []string{"books"}}, want: 1},
		"favorites": {list: List{Favorites: true}, want: 1},
		"limit":     {list: List{Limit: 2}, want: 2},
		"other day": {list: List{On: "2025-01-01"}, want: 0},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			l := tc.list
			l.App, l.JSON, l.Out = svc, true, &out
			if err := l.Do(ctx); err != nil {
				t.Fatal(err)
			}
			var got []journal.Entry
			if err := json.Unmarshal(out.Bytes(), &got); err != nil {
				t.Fatalf("json: %v", err)
			}
			if len(got) != tc.want {
				t.Errorf("got %d entries, want %d", len(got), tc.want)
			}
		})
	}
}

func TestTagsAndStats(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, _ = svc.AddEntry(ctx, journal.EntryDraft{Content: "a", Tags: []string{"work", "focus"}, Mood: journal.MoodSad})

	var out bytes.Buffer
	if err := (&Tags{App: svc, Out: &out}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "#work") || !strings.Contains(out.String(), "#focus") {
		t.Errorf("tags output = %q", out.String())
	}

	out.Reset()
	if err := (&Stats{App: svc, JSON: true, Out: &out}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	var s app.EntryStats
	if err := json.Unmarshal(out.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	if s.Total != 1 || s.ByMood[journal.MoodSad] != 1 {
		t.Errorf("stats = %+v", s)
	}
}
