package lexicon

import "regexp"

// QuoteOpeners and QuoteClosers list the glyphs that delimit spoken dialogue.
const (
	QuoteOpeners = "\"“‘'"
	QuoteClosers = "\"”’'"
)

// TagRule names one attribution pattern. Pattern's Group submatch is the
// candidate speaker name, still carrying any particle.
type TagRule struct {
	Name    string
	Pattern *regexp.Regexp
	Group   int
}

// speechVerbs are the stems of verbs that introduce or close quoted speech.
const speechVerbs = `말했|말하|말씀하|외쳤|외치|물었|물어|묻|대답했|대답하|소리쳤|소리치|속삭였|속삭이|중얼거렸|중얼거리|덧붙였|덧붙이|이야기했|이야기하|설명했|설명하|웃으며|울면서`

// TagRules match a dialogue tag in the context surrounding a quote. The
// inferencer scans all matches of each rule and prefers the match nearest
// the quote. Ordered strongest-signal first.
var TagRules = []TagRule{
	{
		// 철수가 웃으며 말했다
		Name: "tagged-speech",
		Pattern: regexp.MustCompile(
			`([가-힣]{1,10})(?:이|가|은|는|께서)\s*[가-힣\s,]{0,20}?(?:` + speechVerbs + `)`),
		Group: 1,
	},
	{
		// 엄마: "..."  script style, only ever right before the quote
		Name:    "colon-script",
		Pattern: regexp.MustCompile(`([가-힣]{1,10})\s*:\s*$`),
		Group:   1,
	},
}

// BareSubject recovers the speaker when every tag match was an excluded
// word, e.g. the emotion noun in a phrase like "the girl got angry and
// said". Shorter pattern, no verb requirement.
var BareSubject = &TagRule{
	Name:    "bare-subject",
	Pattern: regexp.MustCompile(`([가-힣]{2,10})(?:이|가|은|는|께서)`),
	Group:   1,
}

// Vocative matches a leading address inside the quote itself. The matched
// name is the listener, never the speaker.
var Vocative = regexp.MustCompile(`^\s*([가-힣]{1,10})(?:야|아|님|씨)\s*[,!~?]`)

// VocativeMention finds addressed names anywhere in running text, for cast
// mining rather than attribution. Tighter name bound than Vocative to keep
// ordinary words with those endings out.
var VocativeMention = regexp.MustCompile(`([가-힣]{2,4})(?:야|아|님|씨)[,!~\s]`)

// QuotedSpan captures the inside of one quoted stretch of text.
var QuotedSpan = regexp.MustCompile(`["“”‘’']([^"“”‘’']+)["“”‘’']`)

// InnerVocative finds names called out inside dialogue, e.g. 토끼야!
var InnerVocative = regexp.MustCompile(`([가-힣]{2,4})(?:야|아)[,!]`)
