package speaker

import (
	"strings"

	"storyreel/pkg/lexicon"
)

// Segment is one contiguous narration or dialogue span of scene text, in
// source order.
type Segment struct {
	Text     string
	Speaker  string
	Dialogue bool
}

// contextWindow bounds how far around a quote the inferencer looks, in runes.
const contextWindow = 100

// Split breaks text into ordered narration and dialogue segments. Quoted
// spans become dialogue attributed via Infer using up to contextWindow runes
// on each side; everything between becomes narration. Whitespace-only spans
// are dropped. Text with no quotes at all comes back as a single narration
// segment.
func Split(text string, known []string) []Segment {
	runes := []rune(text)
	var segs []Segment
	var prevSpeaker string

	narrate := func(from, to int) {
		if s := strings.TrimSpace(string(runes[from:to])); s != "" {
			segs = append(segs, Segment{Text: s, Speaker: lexicon.Narrator})
		}
	}

	start := 0
	for i := 0; i < len(runes); i++ {
		if !strings.ContainsRune(lexicon.QuoteOpeners, runes[i]) {
			continue
		}
		j := i + 1
		for j < len(runes) && !strings.ContainsRune(lexicon.QuoteClosers, runes[j]) {
			j++
		}
		if j >= len(runes) {
			break // unterminated quote, trailing text is narration
		}
		narrate(start, i)
		if dialogue := strings.TrimSpace(string(runes[i+1 : j])); dialogue != "" {
			before := string(runes[max(0, i-contextWindow):i])
			after := string(runes[j+1 : min(len(runes), j+1+contextWindow)])
			sp := Infer(dialogue, before, after, known, prevSpeaker)
			segs = append(segs, Segment{Text: dialogue, Speaker: sp, Dialogue: true})
			prevSpeaker = sp
		}
		i = j
		start = j + 1
	}
	narrate(start, len(runes))
	return segs
}
