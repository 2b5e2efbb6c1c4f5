package media

import (
	"fmt"
	"io"
	"strings"

	"github.com/aryann/difflib"

	"storyreel/pkg/utils"
)

// The subtitle burned into a scene is the text that was actually
// synthesized, which can drift from the page's source text after script
// drafting and edits. SubtitleDrift reports that drift word by word so a
// review pass can see what changed.

type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

type WordDelta struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

type SubtitleDrift struct {
	Scene    string      `json:"scene"`
	Source   string      `json:"source"`
	Rendered string      `json:"rendered"`
	Deltas   []WordDelta `json:"deltas"`
}

// Changed reports whether any word differs.
func (d SubtitleDrift) Changed() bool {
	for _, delta := range d.Deltas {
		if delta.Op != Equal {
			return true
		}
	}
	return false
}

// CompareSubtitle diffs a scene's source text against the rendered subtitle.
func CompareSubtitle(scene, source, rendered string) SubtitleDrift {
	if source == rendered {
		return SubtitleDrift{Scene: scene, Source: source, Rendered: rendered,
			Deltas: []WordDelta{{Op: Equal, Text: source}}}
	}
	recs := difflib.Diff(utils.TokenizeWords(source), utils.TokenizeWords(rendered))
	deltas := make([]WordDelta, 0, len(recs))
	for _, r := range recs {
		switch r.Delta {
		case difflib.Common:
			deltas = append(deltas, WordDelta{Op: Equal, Text: r.Payload})
		case difflib.LeftOnly:
			deltas = append(deltas, WordDelta{Op: Delete, Text: r.Payload})
		case difflib.RightOnly:
			deltas = append(deltas, WordDelta{Op: Insert, Text: r.Payload})
		}
	}
	return SubtitleDrift{Scene: scene, Source: source, Rendered: rendered, Deltas: coalesceSpaces(deltas)}
}

// coalesceSpaces merges runs of one op and folds whitespace tokens into the
// current run so the rendered diff reads as phrases, not characters.
func coalesceSpaces(in []WordDelta) []WordDelta {
	out := make([]WordDelta, 0, len(in))
	flush := func(op Op, buf *strings.Builder) {
		if buf.Len() == 0 {
			return
		}
		out = append(out, WordDelta{Op: op, Text: buf.String()})
		buf.Reset()
	}
	var cur Op = -1
	var buf strings.Builder
	for _, d := range in {
		if strings.TrimSpace(d.Text) == "" && d.Op == Equal {
			buf.WriteString(d.Text)
			continue
		}
		if cur != d.Op && cur != -1 {
			flush(cur, &buf)
		}
		if cur != d.Op {
			cur = d.Op
		}
		buf.WriteString(d.Text)
	}
	flush(cur, &buf)
	return out
}

const (
	ansiReset = "\x1b[0m"
	fgGreen   = "\x1b[32m"
	fgRed     = "\x1b[31m"
	fgCyan    = "\x1b[36m"
	uline     = "\x1b[4m"
	strike    = "\x1b[9m"
)

func renderDeltas(deltas []WordDelta) string {
	var b strings.Builder
	for _, d := range deltas {
		switch d.Op {
		case Equal:
			b.WriteString(d.Text)
		case Insert:
			fmt.Fprintf(&b, "%s%s%s%s", fgGreen, uline, d.Text, ansiReset)
		case Delete:
			fmt.Fprintf(&b, "%s%s%s%s", fgRed, strike, d.Text, ansiReset)
		}
	}
	return b.String()
}

// Print writes the drift report for every changed scene.
func Print(w io.Writer, drifts []SubtitleDrift) {
	for _, d := range drifts {
		if !d.Changed() {
			continue
		}
		fmt.Fprintf(w, "%s%s%s\n  %s\n", fgCyan, d.Scene, ansiReset, renderDeltas(d.Deltas))
	}
}
