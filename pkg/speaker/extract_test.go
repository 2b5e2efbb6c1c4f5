package speaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCharacters(t *testing.T) {
	texts := []string{
		`토끼가 말했다. "안녕!"`,
		`어머니는 웃으며 대답했다. "그래."`,
		`토끼는 다시 물었다. "정말요?"`,
	}
	cast := ExtractCharacters(texts)
	assert.Equal(t, []string{"토끼", "엄마"}, cast)
}

func TestExtractCharactersWeighted(t *testing.T) {
	// 호랑이 outscores 토끼: one dialogue tag, a vocative inside and outside
	// the quote, and two plain mentions
	texts := []string{
		`옛날에 토끼가 살았어요.`,
		`토끼가 말했다. "호랑이야, 안녕!"`,
		`호랑이는 대답했다. "그래."`,
	}
	assert.Equal(t, []string{"호랑이", "토끼"}, ExtractCharacters(texts))
}

func TestExtractCharactersSkipsExcluded(t *testing.T) {
	cast := ExtractCharacters([]string{`화가 난 호랑이가 소리쳤다. "으르렁!"`})
	assert.Equal(t, []string{"호랑이"}, cast)
}

func TestExtractCharactersEmpty(t *testing.T) {
	assert.Empty(t, ExtractCharacters(nil))
	assert.Empty(t, ExtractCharacters([]string{"조용한 숲이었다."}))
}
