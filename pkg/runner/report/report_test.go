package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/store"
)

func TestReportWindow(t *testing.T) {
	ctx := context.Background()
	p, err := store.NewDiskv(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.Local)
	svc := &app.Service{Persistence: p, Now: func() time.Time { return now }}
	for _, d := range []journal.EntryDraft{
		{Date: "2025-03-13", Mood: journal.MoodHappy, Content: "yesterday's run"},
		{Date: "2025-02-01", Mood: journal.MoodSad, Content: "long ago"},
	} {
		if _, err := svc.AddEntry(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	r := Report{App: svc, Window: "3d", Out: &out, Now: func() time.Time { return now }}
	if err := r.Do(ctx); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "Report · last 3d") || !strings.Contains(got, "yesterday's run") {
		t.Errorf("report:\n%s", got)
	}
	if strings.Contains(got, "long ago") {
		t.Errorf("report includes an entry outside the window:\n%s", got)
	}

	if err := (&Report{App: svc, Window: "3 fortnights"}).Do(ctx); err == nil {
		t.Error("bad window accepted")
	}
}
