package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyreel/pkg/voice"
)

type fakeEngine struct {
	kind  Kind
	limit int
	calls atomic.Int32
	fail  func(Request) error
}

func (f *fakeEngine) Kind() Kind { return f.kind }

func (f *fakeEngine) Limit() int {
	if f.limit > 0 {
		return f.limit
	}
	return 2000
}

func (f *fakeEngine) Synthesize(_ context.Context, req Request) ([]byte, error) {
	f.calls.Add(1)
	if f.fail != nil {
		if err := f.fail(req); err != nil {
			return nil, err
		}
	}
	return []byte("audio[" + req.Voice + "|" + req.Text + "]"), nil
}

func newTestOrchestrator(engines ...Engine) *Orchestrator {
	return NewOrchestrator(voice.NewSession("test"), engines...)
}

func TestSynthesizeCacheHitCallsBackendOnce(t *testing.T) {
	engine := &fakeEngine{kind: KindClova}
	o := newTestOrchestrator(engine)
	dir := t.TempDir()
	spec := VoiceSpec{Category: "narrator"}

	first := filepath.Join(dir, "a.mp3")
	second := filepath.Join(dir, "b.mp3")
	ok, err := o.Synthesize(context.Background(), "안녕하세요.", first, spec, KindClova, Options{})
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = o.Synthesize(context.Background(), "안녕하세요.", second, spec, KindClova, Options{})
	require.NoError(t, err)
	require.True(t, ok)

	assert.EqualValues(t, 1, engine.calls.Load())
	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	assert.Equal(t, a, b)
}

func TestSynthesizeDistinctOptionsMiss(t *testing.T) {
	engine := &fakeEngine{kind: KindClova}
	o := newTestOrchestrator(engine)
	spec := VoiceSpec{Category: "narrator"}

	_, err := o.SynthesizeBytes(context.Background(), "안녕.", spec, KindClova, Options{})
	require.NoError(t, err)
	_, err = o.SynthesizeBytes(context.Background(), "안녕.", spec, KindClova, Options{Speed: -2})
	require.NoError(t, err)
	assert.EqualValues(t, 2, engine.calls.Load())
}

func TestSynthesizeBlankTextProducesNothing(t *testing.T) {
	engine := &fakeEngine{kind: KindClova}
	o := newTestOrchestrator(engine)

	ok, err := o.Synthesize(context.Background(), "     ", "unused.mp3", VoiceSpec{}, KindClova, Options{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, engine.calls.Load())
}

func TestSynthesizeChunksLongText(t *testing.T) {
	engine := &fakeEngine{kind: KindClova, limit: 20}
	o := newTestOrchestrator(engine)

	text := "하나 둘 셋 넷 다섯 여섯. 일곱 여덟 아홉 열 열하나. 마지막 문장입니다."
	audio, err := o.SynthesizeBytes(context.Background(), text, VoiceSpec{Category: "narrator"}, KindClova, Options{})
	require.NoError(t, err)
	assert.Greater(t, engine.calls.Load(), int32(1))
	assert.Greater(t, strings.Count(string(audio), "audio["), 1)
}

func TestSynthesizeFallsBackToEdge(t *testing.T) {
	primary := &fakeEngine{kind: KindClova, fail: func(Request) error { return fmt.Errorf("quota") }}
	edge := &fakeEngine{kind: KindEdge}
	o := newTestOrchestrator(primary, edge)

	audio, err := o.SynthesizeBytes(context.Background(), "안녕.", VoiceSpec{Category: "adult_male"}, KindClova, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(audio), EdgeVoice("adult_male"))
	assert.EqualValues(t, 1, edge.calls.Load())
}

func TestSynthesizePremiumNeverFallsBack(t *testing.T) {
	premium := &fakeEngine{kind: KindOpenAI, fail: func(Request) error { return fmt.Errorf("quota") }}
	edge := &fakeEngine{kind: KindEdge}
	o := newTestOrchestrator(premium, edge)

	_, err := o.SynthesizeBytes(context.Background(), "안녕.", VoiceSpec{Category: "adult_male"}, KindOpenAI, Options{})
	require.Error(t, err)
	assert.Zero(t, edge.calls.Load())
}

func TestSynthesizeScenesPartialFailure(t *testing.T) {
	engine := &fakeEngine{kind: KindClova, fail: func(req Request) error {
		if strings.Contains(req.Text, "셋째") {
			return fmt.Errorf("backend down")
		}
		return nil
	}}
	o := newTestOrchestrator(engine)

	scenes := make([]Scene, 5)
	for i := range scenes {
		scenes[i] = Scene{
			Text:    fmt.Sprintf("%s 장면입니다.", []string{"첫째", "둘째", "셋째", "넷째", "다섯째"}[i]),
			Speaker: VoiceSpec{Category: "narrator"},
		}
	}
	results := o.SynthesizeScenes(context.Background(), scenes, t.TempDir(), KindClova)

	require.Len(t, results, 5)
	for i, r := range results {
		if i == 2 {
			assert.Nil(t, r, "scene 2 must fail")
			continue
		}
		require.NotNil(t, r, "scene %d", i)
		assert.Contains(t, r.Path, fmt.Sprintf("scene_%03d", i))
	}
}

func TestSynthesizeScenesSkipsNone(t *testing.T) {
	engine := &fakeEngine{kind: KindClova}
	o := newTestOrchestrator(engine)
	results := o.SynthesizeScenes(context.Background(), []Scene{
		{Text: "무음 장면", Speaker: VoiceSpec{Category: "none"}},
	}, t.TempDir(), KindClova)
	require.Len(t, results, 1)
	assert.Nil(t, results[0])
	assert.Zero(t, engine.calls.Load())
}

func TestSceneSynthesisUsesSegmentSpeakers(t *testing.T) {
	engine := &fakeEngine{kind: KindClova}
	o := newTestOrchestrator(engine)

	scene := Scene{Text: `토끼가 말했다. "안녕!" 그리고 숲은 조용해졌다.`}
	audio, err := o.SynthesizeScene(context.Background(), scene, nil, KindClova)
	require.NoError(t, err)

	out := string(audio)
	narrator := o.Session().Resolve("narrator", "")
	rabbit := o.Session().Resolve("cute_animal", "토끼")
	assert.Contains(t, out, narrator)
	assert.Contains(t, out, rabbit)
	assert.NotEqual(t, narrator, rabbit)
}

func TestSceneSynthesisContinuesPastFailedSegment(t *testing.T) {
	engine := &fakeEngine{kind: KindClova, fail: func(req Request) error {
		if strings.Contains(req.Text, "안녕") {
			return fmt.Errorf("backend down")
		}
		return nil
	}}
	o := newTestOrchestrator(engine)

	scene := Scene{Text: `토끼가 말했다. "안녕!" 그리고 숲은 조용해졌다.`}
	audio, err := o.SynthesizeScene(context.Background(), scene, nil, KindClova)
	require.NoError(t, err)

	// the trailing narration segment still renders after the failed quote
	assert.EqualValues(t, 3, engine.calls.Load())
	assert.Contains(t, string(audio), "조용해졌다")
	assert.NotContains(t, string(audio), "안녕")
}

func TestSceneSynthesisAllSegmentsFailed(t *testing.T) {
	engine := &fakeEngine{kind: KindClova, fail: func(Request) error { return fmt.Errorf("backend down") }}
	o := newTestOrchestrator(engine)

	_, err := o.SynthesizeScene(context.Background(), Scene{Text: "조용한 숲이었다."}, nil, KindClova)
	require.Error(t, err)
}

func TestSynthesizeCreatesMissingDirectories(t *testing.T) {
	engine := &fakeEngine{kind: KindClova}
	o := newTestOrchestrator(engine)

	path := filepath.Join(t.TempDir(), "out", "trailer", "scene_000.mp3")
	ok, err := o.Synthesize(context.Background(), "안녕하세요.", path, VoiceSpec{Category: "narrator"}, KindClova, Options{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.FileExists(t, path)
}

func TestSynthesizeScenesVoicesDialoguePerSegment(t *testing.T) {
	engine := &fakeEngine{kind: KindClova}
	o := newTestOrchestrator(engine)
	dir := t.TempDir()

	scenes := []Scene{{
		Text:    `토끼가 말했다. "안녕!"`,
		Speaker: VoiceSpec{Category: "narrator"},
	}}
	results := o.SynthesizeScenes(context.Background(), scenes, dir, KindClova)

	require.NotNil(t, results[0])
	audio, err := os.ReadFile(results[0].Path)
	require.NoError(t, err)
	narrator := o.Session().Resolve("narrator", "")
	rabbit := o.Session().Resolve("cute_animal", "토끼")
	assert.Contains(t, string(audio), narrator)
	assert.Contains(t, string(audio), rabbit)
}

func TestSynthesizeWrapsGenerativePCM(t *testing.T) {
	engine := &fakeEngine{kind: KindGemini}
	o := newTestOrchestrator(engine)

	path := filepath.Join(t.TempDir(), "scene_000.wav")
	ok, err := o.Synthesize(context.Background(), "안녕.", path, VoiceSpec{Category: "narrator"}, KindGemini, Options{})
	require.NoError(t, err)
	require.True(t, ok)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
}
