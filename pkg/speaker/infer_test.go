package speaker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storyreel/pkg/lexicon"
)

func TestInferTagBefore(t *testing.T) {
	got := Infer("안녕하세요", "철수가 말했다. ", "", nil, "")
	assert.Equal(t, "철수", got)
}

func TestInferTagAfter(t *testing.T) {
	got := Infer("안녕하세요", "그 때였다. ", " 라고 영희가 말했다.", nil, "")
	assert.Equal(t, "영희", got)
}

func TestInferNearestTagWins(t *testing.T) {
	got := Infer("갈게요", "철수가 말했다. 그러자 영희가 대답했다. ", "", nil, "")
	assert.Equal(t, "영희", got)
}

func TestInferExcludedSubjectRecovery(t *testing.T) {
	// 화가 matches the tag pattern but 화 is an emotion noun, so the bare
	// subject 소녀 must be recovered instead.
	got := Infer("저리 가!", "화가 난 소녀가 소리쳤다. ", "", nil, "")
	assert.Equal(t, "소녀", got)
}

func TestInferVocativeExclusion(t *testing.T) {
	known := []string{"철수", "영희"}
	got := Infer("철수야, 이리 와봐!", "", "", known, "")
	assert.Equal(t, "영희", got)
	assert.NotEqual(t, "철수", got)
}

func TestInferAlternation(t *testing.T) {
	known := []string{"토끼", "호랑이"}
	got := Infer("그래, 좋아.", "", "", known, "토끼")
	assert.Equal(t, "호랑이", got)
}

func TestInferFallbackFirstKnown(t *testing.T) {
	assert.Equal(t, "토끼", Infer("음...", "", "", []string{"토끼"}, ""))
}

func TestInferFallbackNarrator(t *testing.T) {
	assert.Equal(t, lexicon.Narrator, Infer("음...", "", "", nil, ""))
}

func TestInferColonScript(t *testing.T) {
	got := Infer("다녀왔습니다", "엄마: ", "", nil, "")
	assert.Equal(t, "엄마", got)
}
