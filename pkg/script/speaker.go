package script

import (
	"regexp"
	"strings"

	"storyreel/pkg/lexicon"
	"storyreel/pkg/speaker"
	"storyreel/pkg/utils"
)

// composite matches "label (name)" speaker strings.
var composite = regexp.MustCompile(`^\s*([^()]*?)\s*[(（]([^)）]+)[)）]\s*$`)

// ParseSpeaker splits a free-form speaker label into its voice label and the
// character name, when the composite "label (name)" form was used.
func ParseSpeaker(label string) (voiceLabel, character string) {
	if m := composite.FindStringSubmatch(label); m != nil {
		return m[1], m[2]
	}
	return strings.TrimSpace(label), ""
}

// VoiceKey resolves a free-form speaker label into a voice category and an
// optional canonical character key. Labels are matched against the known
// category names exactly, then fuzzily, then classified by keyword; anything
// still unresolved speaks as the narrator.
func VoiceKey(label string) (category, character string) {
	voiceLabel, name := ParseSpeaker(label)
	if strings.EqualFold(voiceLabel, lexicon.None) {
		return lexicon.None, ""
	}
	character = speaker.Normalize(name)

	category = matchCategory(voiceLabel)
	if category == lexicon.Narrator && character != "" {
		// the label carried no usable category; classify the name itself
		category = speaker.Classify(character)
	}
	return category, character
}

func matchCategory(label string) string {
	key := strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(label)), "_"))
	if key == "" {
		return lexicon.Narrator
	}
	if _, ok := lexicon.VoicePools[key]; ok {
		return key
	}
	if _, ok := lexicon.VoiceAliases[key]; ok {
		return key
	}

	// tolerate near-misses like "child male" or "narator"
	best, bestScore := "", 0.0
	for _, alias := range lexicon.VoiceAliasKeys() {
		if score := utils.Similarity(key, alias); score > bestScore {
			best, bestScore = alias, score
		}
	}
	if bestScore >= 0.8 {
		return best
	}
	return speaker.Classify(label)
}
