package media

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeWAV builds a minimal PCM wav with the given sample payload.
func makeWAV(t *testing.T, samples []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(samples)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))     // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1))     // mono
	binary.Write(&buf, binary.LittleEndian, uint32(24000)) // sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(48000)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(samples)))
	buf.Write(samples)
	return buf.Bytes()
}

func TestCombineWAV(t *testing.T) {
	a := makeWAV(t, bytes.Repeat([]byte{1, 2}, 100))
	b := makeWAV(t, bytes.Repeat([]byte{3, 4}, 50))

	combined, err := CombineWAV([][]byte{a, b})
	require.NoError(t, err)

	data, err := findWavChunk(combined, "data")
	require.NoError(t, err)
	assert.Len(t, data, 300)
	assert.Equal(t, []byte{1, 2}, data[:2])
	assert.Equal(t, []byte{3, 4}, data[200:202])
}

func TestCombineWAVEmpty(t *testing.T) {
	_, err := CombineWAV(nil)
	assert.Error(t, err)
}

func TestWAVDuration(t *testing.T) {
	// 48000 bytes/s, 24000 bytes of samples = 0.5s
	wav := makeWAV(t, make([]byte, 24000))
	path := filepath.Join(t.TempDir(), "half.wav")
	require.NoError(t, os.WriteFile(path, wav, 0o644))

	d, err := Duration(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, 0.001)
}

func TestWrapPCM(t *testing.T) {
	samples := make([]byte, 24000)
	wav := WrapPCM(samples, 24000, 1, 16)

	data, err := findWavChunk(wav, "data")
	require.NoError(t, err)
	assert.Len(t, data, 24000)

	path := filepath.Join(t.TempDir(), "wrapped.wav")
	require.NoError(t, os.WriteFile(path, wav, 0o644))
	d, err := Duration(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, 0.001)
}

func TestDurationUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.ogg")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))
	_, err := Duration(path)
	assert.Error(t, err)
}

func TestFindBGM(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"forest_1P.mp3", "storm_2P.mp3", "calm_10P.mp3", "readme.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	assert.Equal(t, filepath.Join(dir, "storm_2P.mp3"), FindBGM(dir, "page_002"))
	assert.Equal(t, filepath.Join(dir, "calm_10P.mp3"), FindBGM(dir, "page_010"))
	assert.Equal(t, "", FindBGM(dir, "page_007"))
	assert.Equal(t, "", FindBGM(dir, "cover"))
}

func TestSubtitleLayoutCentered(t *testing.T) {
	style := SubtitleStyle{MaxChars: 10, MaxLines: 3, CanvasWidth: 1000, GlyphWidth: 20, LineHeight: 50, Top: 800}
	lines := style.Layout("아주 먼 옛날 깊은 숲 속에")
	require.NotEmpty(t, lines)
	for i, line := range lines {
		width := len([]rune(line.Text)) * style.GlyphWidth
		assert.Equal(t, (style.CanvasWidth-width)/2, line.X, "line %d", i)
		assert.Equal(t, style.Top+i*style.LineHeight, line.Y, "line %d", i)
		assert.LessOrEqual(t, len([]rune(line.Text)), style.MaxChars)
	}
}

func TestSubtitleLayoutLineCap(t *testing.T) {
	style := SubtitleStyle{MaxChars: 4, MaxLines: 2, CanvasWidth: 100, GlyphWidth: 10, LineHeight: 10}
	lines := style.Layout("가나 다라 마바 사아 자차")
	require.Len(t, lines, 2)
	assert.True(t, len([]rune(lines[1].Text)) <= 5)
	assert.Contains(t, lines[1].Text, "…")
}

func TestCompareSubtitle(t *testing.T) {
	drift := CompareSubtitle("page_001", "토끼가 숲으로 갔다", "토끼가 바다로 갔다")
	assert.True(t, drift.Changed())

	var dels, ins []string
	for _, d := range drift.Deltas {
		switch d.Op {
		case Delete:
			dels = append(dels, d.Text)
		case Insert:
			ins = append(ins, d.Text)
		}
	}
	assert.Contains(t, dels, "숲으로")
	assert.Contains(t, ins, "바다로")

	same := CompareSubtitle("page_002", "같은 문장", "같은 문장")
	assert.False(t, same.Changed())
}

func TestFFmpegSceneArgs(t *testing.T) {
	f := NewFFmpeg("font.ttf")
	plan := ScenePlan{
		Scene:    "page_001",
		Video:    "page_001.mp4",
		Audio:    &Artifact{Path: "scene_000.mp3", Duration: 4.2},
		Subtitle: []Line{{Text: "옛날 옛적에", X: 100, Y: 560}},
		BGM:      "forest_1P.mp3",
	}
	args := strings.Join(f.sceneArgs(plan, "segment_000.mp4"), " ")

	assert.Contains(t, args, "-i page_001.mp4")
	assert.Contains(t, args, "-i scene_000.mp3")
	assert.Contains(t, args, "-i forest_1P.mp3")
	assert.Contains(t, args, "amix=inputs=2")
	assert.Contains(t, args, "-t 4.200")
	assert.Contains(t, args, "drawtext=")
	assert.Contains(t, args, "옛날 옛적에")
}

func TestFFmpegSceneArgsUnvoiced(t *testing.T) {
	f := NewFFmpeg("")
	args := strings.Join(f.sceneArgs(ScenePlan{Scene: "page_002", Video: "page_002.mp4"}, "segment_001.mp4"), " ")

	assert.NotContains(t, args, "-t ")
	assert.NotContains(t, args, "drawtext")
	assert.NotContains(t, args, "-map")
}

func TestDrawtextEscape(t *testing.T) {
	assert.Equal(t, `100\% 진심이야\:`, drawtextEscape(`100% 진심이야:`))
}

func TestBuildPlans(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bed_1P.mp3"), []byte("x"), 0o644))

	audio := []*Artifact{{Path: "a.mp3", Duration: 3.2}, nil}
	plans := BuildPlans(
		[]string{"page_001", "page_002"},
		[]string{"v1.mp4", "v2.mp4"},
		[]string{"첫 장면", "둘째 장면"},
		audio, dir, DefaultSubtitleStyle)

	require.Len(t, plans, 2)
	assert.Equal(t, "v1.mp4", plans[0].Video)
	assert.NotNil(t, plans[0].Audio)
	assert.Equal(t, filepath.Join(dir, "bed_1P.mp3"), plans[0].BGM)
	assert.Nil(t, plans[1].Audio)
	assert.Equal(t, "", plans[1].BGM)
	assert.NotEmpty(t, plans[0].Subtitle)
}
