package tts

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	cases := map[string]string{
		"“안녕”":             `"안녕"`,
		"‘좋아’":             "'좋아'",
		"  앞뒤  공백  ":       "앞뒤 공백",
		"줄\n바꿈\t정리":        "줄 바꿈 정리",
		"단단한 공백":      "단단한 공백",
		"":                 "",
		"   ":              "",
		"​보이지 않는 문자":  "보이지 않는 문자",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeText(in), "input %q", in)
	}
}

func TestSplitTextShortPassthrough(t *testing.T) {
	assert.Equal(t, []string{"짧은 문장."}, SplitText("짧은 문장.", 2000))
	assert.Nil(t, SplitText("   ", 2000))
}

func TestSplitTextChunksAtSentences(t *testing.T) {
	// 4500 runes of 100-rune sentences against a 2000-rune limit
	sentence := strings.Repeat("가", 99) + "."
	require.Equal(t, 100, utf8.RuneCountInString(sentence))
	text := strings.Repeat(sentence, 45)
	require.Equal(t, 4500, utf8.RuneCountInString(text))

	chunks := SplitText(text, 2000)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		n := utf8.RuneCountInString(chunk)
		assert.LessOrEqual(t, n, 2000, "chunk %d", i)
		assert.True(t, strings.HasSuffix(chunk, "."), "chunk %d must end at a sentence", i)
	}
}

func TestSplitTextHardSplitsOversizedSentence(t *testing.T) {
	text := strings.Repeat("가", 250) // no terminator anywhere
	chunks := SplitText(text, 100)
	require.Len(t, chunks, 3)
	assert.Equal(t, 100, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, 100, utf8.RuneCountInString(chunks[1]))
	assert.Equal(t, 50, utf8.RuneCountInString(chunks[2]))
}

func TestRequestKeyDistinguishesParameters(t *testing.T) {
	base := Request{Text: "안녕", Voice: "njiyun"}
	faster := base
	faster.Speed = -2
	assert.NotEqual(t, base.Key(KindClova), faster.Key(KindClova))
	assert.NotEqual(t, base.Key(KindClova), base.Key(KindEdge))
	assert.Equal(t, base.Key(KindClova), Request{Text: "안녕", Voice: "njiyun"}.Key(KindClova))
}
