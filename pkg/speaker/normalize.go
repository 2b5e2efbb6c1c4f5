// Package speaker resolves who speaks each span of story text. It splits a
// scene into narration and dialogue segments, attributes each quote to a
// character through an ordered rule cascade, and classifies character labels
// into voice categories.
package speaker

import (
	"strings"

	"storyreel/pkg/lexicon"
)

// Normalize folds a raw character label to its canonical key: trims
// surrounding quotes and whitespace, strips one trailing grammatical
// particle, and folds aliases. Idempotent, so already-canonical keys pass
// through unchanged.
func Normalize(label string) string {
	name := strings.Trim(strings.TrimSpace(label), "\"'“”‘’ ")
	if name == "" {
		return name
	}
	if canon, ok := lexicon.CharacterAliases[name]; ok {
		return canon
	}
	// Known character nouns keep their final syllable even when it looks
	// like a particle (호랑이, 누군가).
	if _, ok := lexicon.KeywordVoices[name]; ok {
		return name
	}
	stripped := lexicon.Particles.ReplaceAllString(name, "")
	if stripped == "" {
		return name
	}
	if canon, ok := lexicon.CharacterAliases[stripped]; ok {
		return canon
	}
	return stripped
}
