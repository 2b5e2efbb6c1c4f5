// Package tts turns text segments into audio. It fronts several synthesis
// backends behind one interface and adds text normalization, length
// chunking, result caching and fallback handling on top.
package tts

import (
	"context"
	"crypto/md5"
	"fmt"
)

// Kind enumerates the synthesis backends.
type Kind int

const (
	KindClova Kind = iota
	KindOpenAI
	KindGemini
	KindEdge
)

// ParseKind resolves an engine name from configuration.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "", "clova":
		return KindClova, nil
	case "openai", "gpt":
		return KindOpenAI, nil
	case "gemini":
		return KindGemini, nil
	case "edge":
		return KindEdge, nil
	}
	return 0, fmt.Errorf("unknown tts engine %q", name)
}

func (k Kind) String() string {
	switch k {
	case KindClova:
		return "clova"
	case KindOpenAI:
		return "openai"
	case KindGemini:
		return "gemini"
	case KindEdge:
		return "edge"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Premium reports whether the caller explicitly paid for this backend's
// voice quality. Premium engines never silently switch to another engine.
func (k Kind) Premium() bool {
	return k == KindOpenAI || k == KindGemini
}

// Ext is the container extension the backend's audio is written with.
func (k Kind) Ext() string {
	if k == KindGemini {
		return ".wav"
	}
	return ".mp3"
}

// Request is one synthesis unit after normalization and chunking.
type Request struct {
	Text            string
	Voice           string // identity in the backend's own naming scheme
	Speed           int    // -5 fastest through 5 slowest, 0 natural
	Pitch           int
	Style           string // free-form delivery hint, used by generative backends
	Emotion         string // neutral, happy, sad or angry; primary backend only
	EmotionStrength int    // 0 through 2, for voices that grade emotion
}

// Key derives the cache key for a request on a given engine.
func (r Request) Key(kind Kind) string {
	sum := md5.Sum(fmt.Appendf(nil, "%s|%s|%s|%d|%d|%s|%s|%d",
		r.Text, r.Voice, kind, r.Speed, r.Pitch, r.Style, r.Emotion, r.EmotionStrength))
	return fmt.Sprintf("%x", sum)
}

// Engine is one synthesis backend. Synthesize returns encoded audio bytes
// for a single request already within the engine's length limit.
type Engine interface {
	Kind() Kind
	// Limit is the maximum text length in runes per call.
	Limit() int
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}
