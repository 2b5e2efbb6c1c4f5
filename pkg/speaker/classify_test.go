package speaker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"storyreel/pkg/lexicon"
)

func TestClassifyKeywords(t *testing.T) {
	cases := map[string]string{
		"토끼":     "cute_animal",
		"엄마":     "adult_female",
		"할아버지":   "elder_male",
		"마법사":    "elder_male",
		"공주":     "young_female_1",
		"로봇":     "robot",
		"작은 여우":  "young_female_3",
		"아기 곰":   "child_female", // 아기 matches before the one-syllable 곰
		"narrator": lexicon.Narrator,
	}
	for label, want := range cases {
		assert.Equal(t, want, Classify(label), "label %q", label)
	}
}

func TestClassifyLongestKeywordFirst(t *testing.T) {
	// 할아버지 contains 아버지, which itself contains 아버; only the longest
	// may decide the category.
	assert.Equal(t, "elder_male", Classify("할아버지"))
	assert.Equal(t, "elder_male", Classify("우리 할아버지가"))
}

func TestClassifyExcludedWords(t *testing.T) {
	for _, label := range []string{"화", "슬픔", "갑자기", "소리", "오늘"} {
		assert.Equal(t, lexicon.Narrator, Classify(label), "label %q", label)
	}
}

func TestClassifyParticleStripped(t *testing.T) {
	assert.Equal(t, "cute_animal", Classify("토끼가"))
	assert.Equal(t, "adult_female", Classify("엄마는"))
}

func TestClassifyUnknownFallsBackToNarrator(t *testing.T) {
	assert.Equal(t, lexicon.Narrator, Classify("철수"))
	assert.Equal(t, lexicon.Narrator, Classify(""))
	assert.Equal(t, lexicon.Narrator, Classify("   "))
}

func TestClassifyAliasPassthrough(t *testing.T) {
	// a label that is itself a category name resolves to itself
	assert.Equal(t, "child_male", Classify("child_male"))
	assert.Equal(t, "narrator_female_1", Classify("narrator_female_1"))
}

func TestSpeedForDuration(t *testing.T) {
	// 45 syllables read naturally in 10 seconds
	text := make([]rune, 0, 45)
	for i := 0; i < 45; i++ {
		text = append(text, '가')
	}
	assert.Equal(t, 0, SpeedForDuration(string(text), 10))
	assert.Negative(t, SpeedForDuration(string(text), 5))
	assert.Positive(t, SpeedForDuration(string(text), 20))
	assert.Equal(t, 0, SpeedForDuration("아무 말", 0))
	assert.Equal(t, 0, SpeedForDuration("", 3))
}

func TestSpeedForDurationSteps(t *testing.T) {
	// 45 spoken syllables, 10 seconds at the natural rate; spaces are free
	text := strings.Repeat("가가가가 ", 9) + "가가가가가 가가가가"
	assert.Equal(t, -4, SpeedForDuration(text, 5))  // half the time, near top speed
	assert.Equal(t, -5, SpeedForDuration(text, 2))  // far too short, max speed
	assert.Equal(t, 2, SpeedForDuration(text, 30))  // lots of room, slow down
	assert.Equal(t, 1, SpeedForDuration(text, 14))  // a little room
	assert.Equal(t, 0, SpeedForDuration(text, 11))  // close enough
}
