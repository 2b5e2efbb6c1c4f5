package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordsByLengthOrdering(t *testing.T) {
	kws := KeywordsByLength()
	require.Len(t, kws, len(KeywordVoices))
	for i := 1; i < len(kws); i++ {
		prev, cur := len([]rune(kws[i-1].Word)), len([]rune(kws[i].Word))
		assert.GreaterOrEqual(t, prev, cur, "keyword %q out of order after %q", kws[i].Word, kws[i-1].Word)
	}
}

func TestEveryCategoryResolves(t *testing.T) {
	for word, category := range KeywordVoices {
		_, pooled := VoicePools[category]
		_, aliased := VoiceAliases[category]
		assert.True(t, pooled || aliased, "category %q for keyword %q has no voice", category, word)
	}
}

func TestParticles(t *testing.T) {
	cases := map[string]bool{
		"철수가":  true,
		"엄마는":  true,
		"토끼야":  true,
		"왕께서":  true,
		"선생님":  true,
		"엄마":   false,
		"철수":   false,
		"hello": false,
	}
	for word, want := range cases {
		assert.Equal(t, want, Particles.MatchString(word), "word %q", word)
	}
}

func TestTagRules(t *testing.T) {
	cases := []struct {
		text string
		rule string
		name string
	}{
		{`철수가 말했다. `, "tagged-speech", "철수"},
		{`소녀는 웃으며 물었다`, "tagged-speech", "소녀"},
		{`엄마: `, "colon-script", "엄마"},
	}
	for _, tc := range cases {
		var got, rule string
		for _, r := range TagRules {
			if m := r.Pattern.FindStringSubmatch(tc.text); m != nil {
				got, rule = m[r.Group], r.Name
				break
			}
		}
		assert.Equal(t, tc.rule, rule, "text %q", tc.text)
		assert.Equal(t, tc.name, got, "text %q", tc.text)
	}
}

func TestTagRulesNearestMatchLast(t *testing.T) {
	text := `철수가 말했다. 그리고 영희가 대답했다. `
	ms := TagRules[0].Pattern.FindAllStringSubmatch(text, -1)
	require.Len(t, ms, 2)
	assert.Equal(t, "영희", ms[len(ms)-1][1])
}

func TestBareSubject(t *testing.T) {
	ms := BareSubject.Pattern.FindAllStringSubmatch(`화가 난 소녀가 소리쳤다`, -1)
	require.NotEmpty(t, ms)
	assert.Equal(t, "소녀", ms[len(ms)-1][1])
}

func TestVocative(t *testing.T) {
	m := Vocative.FindStringSubmatch("철수야, 이리 와봐")
	require.NotNil(t, m)
	assert.Equal(t, "철수", m[1])

	assert.Nil(t, Vocative.FindStringSubmatch("안녕하세요"))
}
