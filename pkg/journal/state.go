package journal

// DefaultUserName is shown until the user picks a name or signs in.
const DefaultUserName = "My Journal"

// State is the whole persisted journal of one user.
type State struct {
	Entries         []*Entry   `json:"entries"`
	Goals           []*Goal    `json:"goals"`
	Journeys        []*Journey `json:"journeys"`
	ActiveJourneyID *string    `json:"activeJourneyId"`
	UserName        string     `json:"userName"`
	IsDarkMode      bool       `json:"isDarkMode"`
}

// DefaultState is the state of a fresh install.
func DefaultState() *State {
	return &State{
		Entries:    []*Entry{},
		Goals:      []*Goal{},
		Journeys:   []*Journey{},
		UserName:   DefaultUserName,
		IsDarkMode: true,
	}
}

// Clone returns a deep copy of s so callers can read it without holding
// the owner's lock.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	cp := &State{
		UserName:   s.UserName,
		IsDarkMode: s.IsDarkMode,
	}
	if s.Entries != nil {
		cp.Entries = make([]*Entry, len(s.Entries))
		for i, e := range s.Entries {
			cp.Entries[i] = e.Clone()
		}
	}
	if s.Goals != nil {
		cp.Goals = make([]*Goal, len(s.Goals))
		for i, g := range s.Goals {
			cp.Goals[i] = g.Clone()
		}
	}
	if s.Journeys != nil {
		cp.Journeys = make([]*Journey, len(s.Journeys))
		for i, j := range s.Journeys {
			cp.Journeys[i] = j.Clone()
		}
	}
	if s.ActiveJourneyID != nil {
		id := *s.ActiveJourneyID
		cp.ActiveJourneyID = &id
	}
	return cp
}

// Entry returns the entry with id, or nil.
func (s *State) Entry(id string) *Entry {
	for _, e := range s.Entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Goal returns the goal with id, or nil.
func (s *State) Goal(id string) *Goal {
	for _, g := range s.Goals {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// Journey returns the journey with id, or nil.
func (s *State) Journey(id string) *Journey {
	for _, j := range s.Journeys {
		if j.ID == id {
			return j
		}
	}
	return nil
}

// ActiveJourney returns the journey the active pointer names, or nil.
func (s *State) ActiveJourney() *Journey {
	if s.ActiveJourneyID == nil {
		return nil
	}
	return s.Journey(*s.ActiveJourneyID)
}
