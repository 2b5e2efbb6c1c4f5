package tts

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"storyreel/pkg/lexicon"
	"storyreel/pkg/media"
	"storyreel/pkg/speaker"
	"storyreel/pkg/voice"
)

// Options are the per-request synthesis knobs.
type Options struct {
	Speed           int
	Pitch           int
	Style           string
	Emotion         string
	EmotionStrength int
}

// VoiceSpec names who should speak: a voice category and, when known, the
// canonical character key behind it.
type VoiceSpec struct {
	Category  string
	Character string
}

// Scene is one batch unit: a block of scene text plus synthesis knobs. The
// Speaker spec is the scripted voice for dialogue whose speaker cannot be
// inferred from the text itself.
type Scene struct {
	Text    string
	Speaker VoiceSpec
	Options Options
}

// DefaultWorkers bounds batch concurrency for backends without a stricter
// cap of their own.
const DefaultWorkers = 5

// Orchestrator drives the registered backends: text normalization and
// chunking, per-chunk caching, voice resolution through the session, and
// fallback to the free backend when the primary fails.
type Orchestrator struct {
	engines map[Kind]Engine
	cache   *Cache
	session *voice.Session
	workers int
}

func NewOrchestrator(session *voice.Session, engines ...Engine) *Orchestrator {
	m := make(map[Kind]Engine, len(engines))
	for _, e := range engines {
		m[e.Kind()] = e
	}
	return &Orchestrator{
		engines: m,
		cache:   NewCache(DefaultCacheSize),
		session: session,
		workers: DefaultWorkers,
	}
}

// Session exposes the voice session backing this orchestrator.
func (o *Orchestrator) Session() *voice.Session { return o.session }

// voiceFor translates a voice spec into the engine's own naming scheme. Only
// the primary backend draws from the session pool table; the others have
// fixed per-category voice sets.
func (o *Orchestrator) voiceFor(kind Kind, spec VoiceSpec) string {
	category := cmp.Or(spec.Category, lexicon.Narrator)
	switch kind {
	case KindOpenAI:
		return OpenAIVoice(category)
	case KindGemini:
		return GeminiVoice(category)
	case KindEdge:
		return EdgeVoice(category)
	default:
		return o.session.Resolve(category, spec.Character)
	}
}

// SynthesizeBytes renders one text block on the chosen backend. Text over
// the backend limit is chunked at sentence boundaries and the chunk audio
// concatenated in order. A blank text returns nil bytes and no error. When
// the primary backend fails after its own retries, the same chunk is
// re-voiced on the free fallback backend; premium backends never switch.
// The result is raw backend audio; encode packages it for a file.
func (o *Orchestrator) SynthesizeBytes(ctx context.Context, text string, spec VoiceSpec, kind Kind, opts Options) ([]byte, error) {
	engine, ok := o.engines[kind]
	if !ok {
		return nil, fmt.Errorf("engine %s not configured", kind)
	}
	text = NormalizeText(text)
	if text == "" {
		return nil, nil
	}

	identity := o.voiceFor(kind, spec)
	var audio []byte
	for _, chunk := range SplitText(text, engine.Limit()) {
		req := Request{
			Text:            chunk,
			Voice:           identity,
			Speed:           opts.Speed,
			Pitch:           opts.Pitch,
			Style:           opts.Style,
			Emotion:         opts.Emotion,
			EmotionStrength: opts.EmotionStrength,
		}
		part, hit, err := o.cache.Get(req.Key(kind), func() ([]byte, error) {
			return o.synthesizeChunk(ctx, engine, req, spec)
		})
		if err != nil {
			return nil, err
		}
		if hit {
			log.Debug("tts cache hit", "engine", kind, "voice", identity, "len", len(chunk))
		}
		audio = append(audio, part...)
	}
	return audio, nil
}

func (o *Orchestrator) synthesizeChunk(ctx context.Context, engine Engine, req Request, spec VoiceSpec) ([]byte, error) {
	audio, err := engine.Synthesize(ctx, req)
	if err == nil {
		return audio, nil
	}
	fallback, ok := o.engines[KindEdge]
	if kind := engine.Kind(); kind.Premium() || kind == KindEdge || !ok {
		return nil, err
	}
	log.Warn("primary engine failed, falling back", "err", err, "voice", req.Voice)
	req.Voice = EdgeVoice(cmp.Or(spec.Category, lexicon.Narrator))
	audio, ferr := fallback.Synthesize(ctx, req)
	if ferr != nil {
		return nil, fmt.Errorf("fallback after %v: %w", err, ferr)
	}
	return audio, nil
}

// encode packages raw backend audio for writing. The generative backend
// returns bare PCM frames, which only become playable inside a container.
func encode(kind Kind, audio []byte) []byte {
	if kind == KindGemini && len(audio) > 0 {
		return media.WrapPCM(audio, GeminiSampleRate, 1, 16)
	}
	return audio
}

// writeAudio writes encoded audio, creating parent directories on the way.
func writeAudio(path string, audio []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("audio dir: %w", err)
	}
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	return nil
}

// Synthesize renders one text block with one voice to a file. Returns false
// with no error when nothing was produced because the text normalized to
// empty.
func (o *Orchestrator) Synthesize(ctx context.Context, text, path string, spec VoiceSpec, kind Kind, opts Options) (bool, error) {
	audio, err := o.SynthesizeBytes(ctx, text, spec, kind, opts)
	if err != nil {
		return false, err
	}
	if len(audio) == 0 {
		return false, nil
	}
	if err := writeAudio(path, encode(kind, audio)); err != nil {
		return false, err
	}
	return true, nil
}

// SynthesizeScene splits one scene's text into narration and dialogue
// segments, voices each with its inferred speaker, and concatenates the raw
// audio in segment order. Dialogue whose speaker cannot be inferred falls
// back to the scene's scripted voice. A failed segment is skipped so the
// rest of the scene still renders; the error is non-nil only when every
// attempted segment failed.
func (o *Orchestrator) SynthesizeScene(ctx context.Context, scene Scene, known []string, kind Kind) ([]byte, error) {
	var audio []byte
	var firstErr error
	var failed int
	for _, seg := range speaker.Split(scene.Text, known) {
		spec := VoiceSpec{Category: lexicon.Narrator}
		switch {
		case seg.Dialogue && seg.Speaker != lexicon.Narrator:
			spec = VoiceSpec{Category: speaker.Classify(seg.Speaker), Character: seg.Speaker}
		case seg.Dialogue && scene.Speaker.Category != "" && scene.Speaker.Category != lexicon.Narrator:
			spec = scene.Speaker
		}
		part, err := o.SynthesizeBytes(ctx, seg.Text, spec, kind, scene.Options)
		if err != nil {
			log.Error("segment synthesis failed", "speaker", seg.Speaker, "err", err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		audio = append(audio, part...)
	}
	if len(audio) == 0 && firstErr != nil {
		return nil, fmt.Errorf("all %d segments failed: %w", failed, firstErr)
	}
	return audio, nil
}

// SynthesizeSceneFile renders one scene, segment by segment, to a file.
func (o *Orchestrator) SynthesizeSceneFile(ctx context.Context, scene Scene, known []string, path string, kind Kind) (bool, error) {
	audio, err := o.SynthesizeScene(ctx, scene, known, kind)
	if err != nil {
		return false, err
	}
	if len(audio) == 0 {
		return false, nil
	}
	if err := writeAudio(path, encode(kind, audio)); err != nil {
		return false, err
	}
	return true, nil
}

// Cast mines the characters appearing across a scene batch: the scripted
// speakers plus every name the texts themselves mention.
func Cast(scenes []Scene) []string {
	texts := make([]string, 0, len(scenes))
	var cast []string
	seen := make(map[string]struct{})
	for _, scene := range scenes {
		texts = append(texts, scene.Text)
		if c := scene.Speaker.Character; c != "" {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				cast = append(cast, c)
			}
		}
	}
	for _, name := range speaker.ExtractCharacters(texts) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			cast = append(cast, name)
		}
	}
	return cast
}

// SynthesizeScenes renders a batch concurrently, writing one file per scene
// under dir and voicing each scene's segments individually. The result has
// one entry per input scene in input order; a scene that failed or produced
// no audio gets a nil entry without aborting its siblings.
func (o *Orchestrator) SynthesizeScenes(ctx context.Context, scenes []Scene, dir string, kind Kind) []*media.Artifact {
	workers := o.workers
	if kind == KindGemini {
		workers = GeminiWorkers
	}
	known := Cast(scenes)
	results := make([]*media.Artifact, len(scenes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, scene := range scenes {
		g.Go(func() error {
			if scene.Speaker.Category == lexicon.None {
				return nil
			}
			path := filepath.Join(dir, fmt.Sprintf("scene_%03d%s", i, kind.Ext()))
			ok, err := o.SynthesizeSceneFile(gctx, scene, known, path, kind)
			if err != nil {
				log.Error("scene synthesis failed", "scene", i, "err", err)
				return nil // siblings keep going
			}
			if !ok {
				return nil
			}
			artifact := &media.Artifact{Path: path}
			if d, err := media.Duration(path); err == nil {
				artifact.Duration = d
			}
			results[i] = artifact
			return nil
		})
	}
	g.Wait()
	return results
}
