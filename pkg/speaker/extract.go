package speaker

import (
	"sort"
	"strings"
	"unicode/utf8"

	"storyreel/pkg/lexicon"
)

// castLimit caps the mined cast list; the most frequent name is treated as
// the protagonist by callers.
const castLimit = 10

// ExtractCharacters mines the cast from a set of scene texts by weighted
// mention frequency: dialogue-tag subjects count triple, vocatives double,
// keyword and alias occurrences single, plus names called out inside quoted
// dialogue. Aliases fold onto their canonical keys. The result is ordered
// most-mentioned first, at most ten names.
func ExtractCharacters(texts []string) []string {
	all := strings.Join(texts, " ")
	counts := make(map[string]int)
	var order []string

	add := func(cand string, weight int) {
		if weight <= 0 || lexicon.IsExcluded(cand) {
			return
		}
		name := Normalize(cand)
		if utf8.RuneCountInString(name) < 2 || lexicon.IsExcluded(name) {
			return
		}
		if name == lexicon.Narrator {
			return
		}
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name] += weight
	}

	// dialogue tags are the strongest evidence a name is a character
	for _, rule := range lexicon.TagRules {
		for _, m := range rule.Pattern.FindAllStringSubmatch(all, -1) {
			add(m[rule.Group], 3)
		}
	}
	for _, m := range lexicon.VocativeMention.FindAllStringSubmatch(all, -1) {
		add(m[1], 2)
	}
	for _, kw := range lexicon.KeywordsByLength() {
		if utf8.RuneCountInString(kw.Word) < 2 {
			continue
		}
		add(kw.Word, strings.Count(all, kw.Word))
	}
	for alias := range lexicon.CharacterAliases {
		add(alias, strings.Count(all, alias))
	}
	for _, q := range lexicon.QuotedSpan.FindAllStringSubmatch(all, -1) {
		for _, m := range lexicon.InnerVocative.FindAllStringSubmatch(q[1], -1) {
			add(m[1], 1)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > castLimit {
		order = order[:castLimit]
	}
	return order
}
