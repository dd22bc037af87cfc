package store

import (
	"encoding/json"

	"tableflip.dev/journal/pkg/journal"
)

// record mirrors journal.State with optional scalars so missing fields can
// be told apart from zero values.
type record struct {
	Entries         []*journal.Entry   `json:"entries"`
	Goals           []*journal.Goal    `json:"goals"`
	Journeys        []*journal.Journey `json:"journeys"`
	ActiveJourneyID *string            `json:"activeJourneyId"`
	UserName        *string            `json:"userName"`
	IsDarkMode      *bool              `json:"isDarkMode"`
}

// Encode serialises the whole state as one JSON document.
func Encode(st *journal.State) ([]byte, error) {
	if st == nil {
		st = journal.DefaultState()
	}
	return json.Marshal(st)
}

// Decode parses a record, substituting defaults for missing fields: empty
// collections, "My Journal" and dark mode on.
func Decode(data []byte) (*journal.State, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	st := journal.DefaultState()
	if r.Entries != nil {
		st.Entries = compact(r.Entries)
	}
	if r.Goals != nil {
		st.Goals = compact(r.Goals)
	}
	if r.Journeys != nil {
		st.Journeys = compact(r.Journeys)
	}
	if r.UserName != nil && *r.UserName != "" {
		st.UserName = *r.UserName
	}
	if r.IsDarkMode != nil {
		st.IsDarkMode = *r.IsDarkMode
	}
	st.ActiveJourneyID = r.ActiveJourneyID
	normalizeActive(st)
	return st, nil
}

func compact[T any](in []*T) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// normalizeActive restores the at-most-one-active-journey invariant on
// records written by older or foreign clients.
func normalizeActive(st *journal.State) {
	if active := st.ActiveJourney(); active == nil || !active.IsActive {
		st.ActiveJourneyID = nil
	}
	for _, j := range st.Journeys {
		if !j.IsActive {
			continue
		}
		if st.ActiveJourneyID == nil {
			id := j.ID
			st.ActiveJourneyID = &id
			continue
		}
		if *st.ActiveJourneyID != j.ID {
			j.IsActive = false
		}
	}
}
