package media

import (
	"strings"
	"unicode/utf8"
)

// SubtitleStyle describes the fixed-grid subtitle layout: lines wrapped to a
// rune bound and centered on the canvas.
type SubtitleStyle struct {
	MaxChars    int // runes per line
	MaxLines    int
	CanvasWidth int
	GlyphWidth  int
	LineHeight  int
	Top         int
}

// DefaultSubtitleStyle fits a 1280-wide frame with the bundled font.
var DefaultSubtitleStyle = SubtitleStyle{
	MaxChars:    22,
	MaxLines:    3,
	CanvasWidth: 1280,
	GlyphWidth:  42,
	LineHeight:  56,
	Top:         560,
}

// Line is one laid-out subtitle row with its canvas position.
type Line struct {
	Text string `json:"text"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Layout wraps text into centered lines. Words break greedily at spaces; a
// word longer than the line bound is hard-split. Text past the line cap is
// cut with an ellipsis on the last line.
func (s SubtitleStyle) Layout(text string) []Line {
	lines := wrapLines(strings.TrimSpace(text), s.MaxChars)
	if s.MaxLines > 0 && len(lines) > s.MaxLines {
		lines = lines[:s.MaxLines]
		last := []rune(lines[s.MaxLines-1])
		if len(last) == s.MaxChars {
			last = last[:len(last)-1]
		}
		lines[s.MaxLines-1] = string(last) + "…"
	}

	out := make([]Line, 0, len(lines))
	for i, line := range lines {
		width := utf8.RuneCountInString(line) * s.GlyphWidth
		out = append(out, Line{
			Text: line,
			X:    (s.CanvasWidth - width) / 2,
			Y:    s.Top + i*s.LineHeight,
		})
	}
	return out
}

func wrapLines(text string, maxChars int) []string {
	if text == "" || maxChars <= 0 {
		return nil
	}
	var lines []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			lines = append(lines, strings.TrimSpace(string(current)))
			current = current[:0]
		}
	}
	for _, word := range strings.Fields(text) {
		wr := []rune(word)
		for len(wr) > maxChars {
			flush()
			lines = append(lines, string(wr[:maxChars]))
			wr = wr[maxChars:]
		}
		need := len(wr)
		if len(current) > 0 {
			need++ // joining space
		}
		if len(current)+need > maxChars {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, wr...)
	}
	flush()
	return lines
}
