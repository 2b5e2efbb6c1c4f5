package speaker

import (
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"storyreel/pkg/lexicon"
)

// Infer attributes one dialogue span to a character. The cascade is
// first-match-wins: a dialogue tag before the quote, a tag after it,
// bare-subject recovery when every tag hit was an excluded word, vocative
// exclusion, alternation against the previous speaker, then the first known
// character or the narrator.
func Infer(dialogue, before, after string, known []string, prevSpeaker string) string {
	var sole string
	var excluded bool

	// check validates one captured candidate. Short names are remembered
	// but only used when nothing better ever turns up.
	check := func(cand string) (string, bool) {
		if lexicon.IsExcluded(cand) {
			excluded = true
			return "", false
		}
		name := Normalize(cand)
		if lexicon.IsExcluded(name) {
			excluded = true
			return "", false
		}
		if utf8.RuneCountInString(name) < 2 {
			if sole == "" {
				sole = name
			}
			return "", false
		}
		return name, true
	}

	// tag before the quote, nearest match wins
	for _, rule := range lexicon.TagRules {
		ms := rule.Pattern.FindAllStringSubmatch(before, -1)
		for k := len(ms) - 1; k >= 0; k-- {
			if name, ok := check(ms[k][rule.Group]); ok {
				return name
			}
		}
	}

	// tag after the quote, nearest match is the leftmost
	for _, rule := range lexicon.TagRules {
		for _, m := range rule.Pattern.FindAllStringSubmatch(after, -1) {
			if name, ok := check(m[rule.Group]); ok {
				return name
			}
		}
	}

	// every tag hit was an emotion noun or similar: re-scan for the bare
	// subject nearest the quote
	if excluded {
		ms := lexicon.BareSubject.Pattern.FindAllStringSubmatch(before, -1)
		for k := len(ms) - 1; k >= 0; k-- {
			if name, ok := check(ms[k][lexicon.BareSubject.Group]); ok {
				return name
			}
		}
	}

	if sole != "" {
		return sole
	}

	// a leading address names the listener, so pick someone else
	if m := lexicon.Vocative.FindStringSubmatch(dialogue); m != nil {
		addressee := Normalize(m[1])
		for _, k := range known {
			if name := Normalize(k); name != addressee {
				return name
			}
		}
	}

	// two-party alternation
	if prevSpeaker != "" && len(known) >= 2 {
		prev := Normalize(prevSpeaker)
		for _, k := range known {
			if name := Normalize(k); name != prev {
				return name
			}
		}
	}

	if len(known) > 0 {
		return Normalize(known[0])
	}
	log.Debug("no speaker resolved, using narrator", "dialogue", dialogue)
	return lexicon.Narrator
}
