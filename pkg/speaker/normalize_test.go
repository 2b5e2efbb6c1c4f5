package speaker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storyreel/pkg/lexicon"
)

func TestNormalizeStripsParticles(t *testing.T) {
	cases := map[string]string{
		"철수가":   "철수",
		"영희는":   "영희",
		"왕께서":   "왕",
		"토끼에게":  "토끼",
		"공주님":   "공주",
		"호랑이가":  "호랑이",
		"철수":    "철수",
		"":      "",
		"  영희  ": "영희",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestNormalizeFoldsAliases(t *testing.T) {
	cases := map[string]string{
		"어머니":  "엄마",
		"어머니는": "엄마",
		"아버지":  "아빠",
		"임금님":  "왕",
		"폐하":   "왕",
		"왕비님":  "여왕",
		"토끼님":  "토끼",
		"할머님":  "할머니",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"철수가", "어머니는", "호랑이가", "아이", "아", "공주님", "왕비", "선생님"}
	for alias := range lexicon.CharacterAliases {
		inputs = append(inputs, alias)
	}
	for word := range lexicon.KeywordVoices {
		inputs = append(inputs, word)
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q normalized to %q", in, once)
	}
}

func TestNormalizeAliasTargetsCanonical(t *testing.T) {
	for alias, target := range lexicon.CharacterAliases {
		assert.Equal(t, Normalize(target), Normalize(alias), "alias %q", alias)
	}
}
