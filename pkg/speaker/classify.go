package speaker

import (
	"strings"
	"unicode/utf8"

	"storyreel/pkg/lexicon"
)

// Classify maps a free-form character label to a voice category. Keywords
// are scanned longest-first so compound terms win over their substrings
// (할아버지 before 아버지 could ever match). Anything unresolvable falls back
// to the narrator.
func Classify(label string) string {
	raw := strings.TrimSpace(label)
	if raw == "" || lexicon.IsExcluded(raw) {
		return lexicon.Narrator
	}
	if cat := keywordScan(raw); cat != "" {
		return cat
	}
	name := Normalize(raw)
	if lexicon.IsExcluded(name) {
		return lexicon.Narrator
	}
	if utf8.RuneCountInString(name) < 2 {
		return lexicon.Narrator
	}
	if cat := keywordScan(name); cat != "" {
		return cat
	}
	if _, ok := lexicon.VoiceAliases[name]; ok {
		return name
	}
	if _, ok := lexicon.VoicePools[name]; ok {
		return name
	}
	return lexicon.Narrator
}

func keywordScan(label string) string {
	for _, kw := range lexicon.KeywordsByLength() {
		if strings.Contains(label, kw.Word) {
			return kw.Category
		}
	}
	return ""
}
