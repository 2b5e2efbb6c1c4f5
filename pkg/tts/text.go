package tts

import (
	"strings"
	"unicode/utf8"
)

var quoteCleaner = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", "'", "’", "'",
	" ", " ", // non-breaking space
	"​", "", // zero-width space
)

// NormalizeText unifies quote glyphs, collapses exotic whitespace and trims.
// Every backend call goes through this first; an empty result means there is
// nothing to synthesize.
func NormalizeText(text string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(quoteCleaner.Replace(text)), " "))
}

// sentenceEnd reports whether r terminates a sentence.
func sentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// SplitText breaks text into chunks of at most limit runes, preferring
// sentence boundaries. Sentences accumulate greedily into the current chunk;
// a single sentence longer than the limit is hard-split at the limit.
func SplitText(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	var sentences []string
	runes := []rune(text)
	start := 0
	for i, r := range runes {
		if sentenceEnd(r) {
			sentences = append(sentences, string(runes[start:i+1]))
			start = i + 1
		}
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}

	var chunks []string
	var current []rune
	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			chunks = append(chunks, s)
		}
		current = current[:0]
	}
	for _, sentence := range sentences {
		sr := []rune(sentence)
		for len(sr) > limit {
			flush()
			chunks = append(chunks, strings.TrimSpace(string(sr[:limit])))
			sr = sr[limit:]
		}
		if len(current)+len(sr) > limit {
			flush()
		}
		current = append(current, sr...)
	}
	flush()
	return chunks
}
