package voice

import (
	"storyreel/pkg/speaker"
)

// Preassign resolves a voice for every cast member up front, so later
// concurrent synthesis reads a settled table. The protagonist, when named,
// is resolved first so it gets first pick of its category pool regardless
// of cast order. Returns canonical character key to identity.
func (s *Session) Preassign(cast []string, protagonist string) map[string]string {
	out := make(map[string]string, len(cast))
	assign := func(label string) {
		key := speaker.Normalize(label)
		if key == "" {
			return
		}
		if _, done := out[key]; done {
			return
		}
		out[key] = s.Resolve(speaker.Classify(key), key)
	}
	if protagonist != "" {
		assign(protagonist)
	}
	for _, label := range cast {
		assign(label)
	}
	return out
}

// State is the persistable snapshot of a session, suitable for dumping to
// disk and restoring on a later run.
type State struct {
	ID          string            `json:"session_id"`
	Assignments map[string]string `json:"assignments"`
	Categories  map[string]string `json:"categories"`
}

// State snapshots the session's identifier and full assignment tables.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		ID:          s.id,
		Assignments: make(map[string]string, len(s.byCharacter)),
		Categories:  make(map[string]string, len(s.byCategory)),
	}
	for k, v := range s.byCharacter {
		st.Assignments[k] = v
	}
	for k, v := range s.byCategory {
		st.Categories[k] = v
	}
	return st
}
