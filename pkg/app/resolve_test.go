package app

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/journal/pkg/journal"
)

func TestResolveID(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	ids := []string{"abc123", "abd456", "abc"}
	next := 0
	svc.NewID = func() string {
		id := ids[next]
		next++
		return id
	}
	for range ids {
		if _, err := svc.AddEntry(ctx, journal.EntryDraft{Content: "x"}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	tests := map[string]struct {
		prefix  string
		want    string
		wantErr error
	}{
		"exact match wins": {prefix: "abc", want: "abc"},
		"unique prefix":    {prefix: "abd", want: "abd456"},
		"full id":          {prefix: " abc123 ", want: "abc123"},
		"ambiguous":        {prefix: "ab", wantErr: ErrAmbiguous},
		"unknown":          {prefix: "zz", wantErr: ErrNotFound},
		"empty":            {prefix: "", wantErr: ErrNotFound},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := svc.ResolveID(ctx, KindEntry, tc.prefix)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v (%q)", tc.wantErr, err, got)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("ResolveID(%q) = %q, %v; want %q", tc.prefix, got, err, tc.want)
			}
		})
	}

	if _, err := svc.ResolveID(ctx, KindGoal, "abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected goals to be searched separately, got %v", err)
	}
}
