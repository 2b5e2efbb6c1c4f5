// Package voice assigns concrete synthesized-voice identities to characters
// and keeps those assignments stable for the lifetime of one production
// session.
package voice

import (
	"hash/fnv"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"storyreel/pkg/lexicon"
)

// Session owns one production run's character-to-voice table. All methods
// are safe for concurrent use; lookup-or-assign runs under one lock so two
// workers racing on a new character cannot each register a different
// identity.
type Session struct {
	mu          sync.Mutex
	id          string
	byCharacter map[string]string
	byCategory  map[string]string
	used        map[string]struct{}
}

// NewSession creates an empty session. An empty id gets a generated one.
func NewSession(id string) *Session {
	if id == "" {
		id = ksuid.New().String()
	}
	return &Session{
		id:          id,
		byCharacter: make(map[string]string),
		byCategory:  make(map[string]string),
		used:        make(map[string]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Resolve returns the voice identity for a category and optional canonical
// character key. A character already assigned keeps its identity for the
// whole session. New characters walk the category pool from a hash-derived
// offset and take the first unused identity; an exhausted pool reuses the
// identity at the offset rather than failing.
func (s *Session) Resolve(category, character string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if character != "" {
		if v, ok := s.byCharacter[character]; ok {
			return v
		}
	} else if v, ok := s.byCategory[category]; ok {
		return v
	}

	identity := s.pick(category, character)
	if character != "" {
		s.byCharacter[character] = identity
	} else {
		s.byCategory[category] = identity
	}
	s.used[identity] = struct{}{}
	log.Debug("voice assigned", "session", s.id, "character", character, "category", category, "voice", identity)
	return identity
}

func (s *Session) pick(category, character string) string {
	pool := lexicon.VoicePools[category]
	if len(pool) == 0 {
		if v, ok := lexicon.VoiceAliases[category]; ok {
			return v
		}
		return lexicon.DefaultVoice
	}
	seed := character
	if seed == "" {
		seed = category
	}
	start := int(s.offset(seed) % uint32(len(pool)))
	for i := range pool {
		cand := pool[(start+i)%len(pool)]
		if _, taken := s.used[cand]; !taken {
			return cand
		}
	}
	return pool[start]
}

func (s *Session) offset(seed string) uint32 {
	h := fnv.New32a()
	io.WriteString(h, s.id)
	io.WriteString(h, "|")
	io.WriteString(h, seed)
	return h.Sum32()
}

// Restore seeds the session with previously persisted character
// assignments. Existing entries win over restored ones.
func (s *Session) Restore(assignments map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for character, identity := range assignments {
		if character == "" || identity == "" {
			continue
		}
		if _, ok := s.byCharacter[character]; ok {
			continue
		}
		s.byCharacter[character] = identity
		s.used[identity] = struct{}{}
	}
}

// Reset discards every assignment and re-keys the session so a new
// production run shares nothing with the previous one.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ksuid.New().String()
	s.byCharacter = make(map[string]string)
	s.byCategory = make(map[string]string)
	s.used = make(map[string]struct{})
	log.Info("voice session reset", "session", s.id)
}

// Assignments returns a copy of the character-to-identity table.
func (s *Session) Assignments() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.byCharacter))
	for k, v := range s.byCharacter {
		out[k] = v
	}
	return out
}

// UsedCount reports how many distinct identities the session handed out.
func (s *Session) UsedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.used)
}
