// Package lexicon holds the static language tables the speaker engine runs
// on: the excluded-word guard, character-name aliases, the Korean particle
// suffix set, the keyword-to-voice-category map and the per-category voice
// pools. Everything here is read-only after init and safe to share.
package lexicon

import (
	"regexp"
	"sort"
)

// Narrator is the category every unresolvable speaker falls back to.
const Narrator = "narrator"

// None marks a scene that should produce no audio at all.
const None = "none"

// DefaultVoice is the identity used when even the category default is absent.
const DefaultVoice = "njiyun"

// ExcludedWords are tokens that structurally resemble a tagged subject but
// are never character names: emotion nouns, adverbs, body parts, generic
// nouns and temporal/spatial deixis.
var ExcludedWords = map[string]struct{}{
	// emotion nouns
	"화": {}, "화가": {}, "슬픔": {}, "기쁨": {}, "분노": {}, "두려움": {}, "놀람": {},
	"행복": {}, "불안": {}, "공포": {}, "흥분": {}, "절망": {}, "희망": {},
	// adverbs and modifiers
	"갑자기": {}, "조용히": {}, "빠르게": {}, "천천히": {}, "크게": {}, "작게": {},
	"조금": {}, "아주": {}, "매우": {}, "너무": {}, "정말": {}, "진짜": {},
	// body parts
	"손": {}, "발": {}, "눈": {}, "귀": {}, "입": {}, "코": {}, "머리": {}, "얼굴": {},
	// generic nouns
	"소리": {}, "말": {}, "목소리": {}, "이야기": {}, "대답": {}, "질문": {},
	// temporal/spatial deixis
	"오늘": {}, "내일": {}, "어제": {}, "여기": {}, "저기": {}, "거기": {},
}

// IsExcluded reports whether the raw token is on the excluded-word list.
func IsExcluded(word string) bool {
	_, ok := ExcludedWords[word]
	return ok
}

// CharacterAliases folds surface variants of the same character onto one
// canonical key: family honorifics, royal titles, animal honorifics.
var CharacterAliases = map[string]string{
	// family honorific synonyms
	"어머니": "엄마", "어뮈": "엄마", "마마": "엄마", "모친": "엄마",
	"엄만": "엄마",
	"아버지": "아빠", "아부지": "아빠", "부친": "아빠",
	"아빤": "아빠",
	"할머님": "할머니", "외할머니": "할머니", "친할머니": "할머니",
	"할아버님": "할아버지", "외할아버지": "할아버지", "친할아버지": "할아버지",
	"오라버니": "오빠", "형아": "형",
	"누님": "누나", "언냐": "언니",
	// register variants
	"아": "아이", "아가": "아기", "애기": "아기",
	"임금": "왕", "임금님": "왕", "폐하": "왕",
	"왕비": "여왕", "왕비님": "여왕",
	// animal honorifics
	"토끼님": "토끼", "토끼야": "토끼",
	"곰님": "곰", "곰아": "곰",
	"여우님": "여우", "여우야": "여우",
}

// Particles matches one trailing Korean grammatical particle: subject,
// object, topic, possessive, dative, instrumental, comitative, delimiter and
// vocative markers. Anchored at the end so only the final particle strips.
var Particles = regexp.MustCompile(
	`(이|가|께서|에서|` + // subject
		`을|를|` + // object
		`은|는|` + // topic
		`의|` + // possessive
		`에게|한테|더러|에게서|한테서|로부터|` + // dative
		`로|으로|` + // instrumental
		`와|과|하고|랑|이랑|` + // comitative
		`부터|` + // source
		`도|만|까지|마저|조차|밖에|` + // delimiters
		`야|아|여|이여|시여|님|씨` + // vocative and honorific
		`)$`)

// VoiceAliases maps a category (or legacy preset name) to a single concrete
// synthesized-voice identity on the primary backend.
var VoiceAliases = map[string]string{
	"narrator":     "njiyun",
	"child_male":   "nhajun",
	"child_female": "ndain",
	"young_male":   "neunwoo",
	"young_female": "nara",
	"adult_male":   "nminsang",
	"adult_female": "nyejin",
	"elder_male":   "njonghyun",
	"elder_female": "nsunhee",

	"young_male_1":         "neunwoo",
	"young_male_2":         "njihun",
	"young_male_3":         "nian",
	"young_male_energetic": "njooahn",

	"young_female_1": "nara",
	"young_female_2": "nara_call",
	"young_female_3": "nyejin",
	"young_female_4": "nsujin",

	"adult_male_1":    "nminsang",
	"adult_male_2":    "njoonyoung",
	"adult_male_3":    "ndonghyun",
	"adult_male_deep": "nwontak",

	"adult_female_1":    "nyejin",
	"adult_female_2":    "nminjeong",
	"adult_female_3":    "nsujin",
	"adult_female_warm": "nyoungmi",

	"narrator_male_1":    "njoonyoung",
	"narrator_male_2":    "njonghyun",
	"narrator_male_deep": "njonghyun",

	"narrator_female_1":    "njiyun",
	"narrator_female_2":    "nara",
	"narrator_female_calm": "nyejin",

	"cute_animal":  "nmeow",
	"dog":          "nwoof",
	"robot":        "nwontak",
	"fairy":        "nsinu",
	"child_bright": "ngaram",
	"demon":        "nmammon",

	"pro_female_1": "vara",
	"pro_female_2": "vmikyung",
	"pro_female_3": "vdain",
	"pro_female_4": "vyuna",
	"pro_female_5": "vgoeun",
	"pro_male_1":   "vdaeseong",

	"energetic": "njooahn",
	"elder":     "njonghyun",
	"default":   DefaultVoice,

	// Korean elder synonyms map straight to identities
	"어르신": "njonghyun",
	"노인":  "njonghyun",
	"할아버지": "njonghyun",
	"할머니":  "nsunhee",
}

// voiceAliasKeys is the deterministic iteration order for VoiceAliases.
var voiceAliasKeys = func() []string {
	keys := make([]string, 0, len(VoiceAliases))
	for k := range VoiceAliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// VoiceAliasKeys returns the alias names in sorted order.
func VoiceAliasKeys() []string { return voiceAliasKeys }

// VoicePools lists the ordered identity candidates per category. Categories
// absent here fall back to the single VoiceAliases identity.
var VoicePools = map[string][]string{
	"child_male":   {"nhajun", "nwoof", "njaewook"},
	"child_female": {"ndain", "ngaram", "nmeow", "nminseo", "nihyun", "njiwon"},
	"child_bright": {"ndain", "ngaram"},

	"young_male":   {"neunwoo", "njihun", "nian", "njooahn", "nkyuwon", "nraewon"},
	"young_female": {"nara", "nara_call", "nsujin", "nyuna", "nyujin", "ntiffany"},

	"adult_male":      {"nminsang", "njoonyoung", "ndonghyun", "nseonghoon", "nseungpyo"},
	"adult_male_deep": {"nwontak", "njonghyun", "nyoungil"},

	"adult_female": {"nyejin", "njiyun", "nminjeong", "nyounghwa", "nyoungmi", "ngoeun"},

	"elder_male":   {"njonghyun", "nyoungil", "nwontak"},
	"elder_female": {"nsunhee"},
	"어르신":          {"njonghyun", "nsunhee"},
	"노인":           {"njonghyun", "nsunhee"},
	"할아버지":         {"njonghyun", "nyoungil", "nwontak"},
	"할머니":          {"nsunhee"},

	"narrator":        {"njiyun", "njoonyoung", "nara"},
	"narrator_male":   {"njoonyoung", "njonghyun", "nsinu"},
	"narrator_female": {"njiyun", "nara", "nyejin"},

	"cute_animal": {"nmeow", "ndain", "ngaram"},
	"dog":         {"nwoof"},
	"demon":       {"nmammon"},
	"witch":       {"nsabina"},
	"robot":       {"nwontak"},
	"fairy":       {"nsinu", "nara", "napple"},
}

// KeywordVoices maps a character keyword to its voice category.
var KeywordVoices = map[string]string{
	// children
	"아기": "child_female", "아이": "child_male", "꼬마": "child_male",
	"어린": "child_female", "소년": "young_male", "소녀": "young_female",
	// family
	"엄마": "adult_female", "아빠": "adult_male",
	"할머니": "elder_female", "할아버지": "elder_male",
	"오빠": "young_male", "형": "young_male", "언니": "young_female", "누나": "young_female",
	"동생": "child_male", "삼촌": "adult_male", "이모": "adult_female", "고모": "adult_female",
	// age and social role
	"청년": "young_male", "아가씨": "young_female",
	"노인": "elder_male", "현자": "elder_male", "장로": "elder_male", "어르신": "elder_male",
	// occupations: education and medicine
	"선생님": "adult_female", "교수": "adult_male", "의사": "adult_male",
	"간호사": "adult_female", "약사": "adult_female",
	// occupations: civil and legal
	"경찰": "adult_male", "판사": "adult_male_deep", "변호사": "adult_male",
	"검사": "adult_male", "군인": "adult_male", "소방관": "adult_male", "공무원": "adult_male",
	// occupations: service and trade
	"사장님": "adult_male_deep", "기사님": "adult_male", "아저씨": "adult_male",
	"아줌마": "adult_female", "요리사": "adult_male", "상인": "adult_male", "점원": "young_female",
	// occupations: religious
	"신부": "adult_male", "목사": "adult_male", "수녀": "adult_female", "스님": "elder_male",
	// occupations: other
	"농부": "adult_male", "어부": "adult_male", "사냥꾼": "adult_male",
	"대장장이": "adult_male_deep", "광대": "young_male",
	// royalty and nobility
	"왕": "adult_male_deep", "여왕": "adult_female", "왕비": "adult_female",
	"공주": "young_female_1", "왕자": "young_male_1", "황제": "adult_male_deep",
	"황후": "adult_female", "장군": "adult_male_deep", "기사": "young_male",
	"영주": "adult_male_deep", "귀족": "adult_male", "시녀": "young_female",
	// animals: cute mammals
	"토끼": "cute_animal", "고양이": "cute_animal", "강아지": "dog",
	"다람쥐": "cute_animal", "햄스터": "cute_animal", "양": "cute_animal", "팬더": "cute_animal",
	// animals: large or threatening mammals
	"곰": "adult_male_deep", "여우": "young_female_3", "늑대": "adult_male_deep",
	"사자": "adult_male_deep", "호랑이": "adult_male_deep", "코끼리": "adult_male_deep",
	"하마": "adult_male_deep", "소": "adult_male_deep",
	// animals: other mammals
	"원숭이": "child_male", "쥐": "child_male", "사슴": "young_female",
	"돼지": "adult_male", "말": "young_male", "염소": "adult_male",
	"당나귀": "adult_male", "기린": "young_male",
	// birds
	"새": "child_female", "참새": "child_female", "비둘기": "child_male",
	"독수리": "adult_male_deep", "까마귀": "adult_male", "까치": "child_female",
	"부엉이": "elder_male", "올빼미": "elder_male", "앵무새": "child_female",
	"오리": "child_male", "백조": "young_female", "학": "elder_male",
	"닭": "adult_female", "수탉": "adult_male",
	// reptiles and amphibians
	"뱀": "adult_male", "용": "adult_male_deep", "드래곤": "adult_male_deep",
	"거북이": "elder_male", "악어": "adult_male_deep", "도마뱀": "child_male",
	"개구리": "child_male", "두꺼비": "adult_male",
	// insects and sea life
	"꿀벌": "child_female", "나비": "child_female", "개미": "child_male",
	"물고기": "child_male", "상어": "adult_male_deep", "고래": "adult_male_deep",
	"돌고래": "young_female", "문어": "adult_male", "게": "adult_male",
	// fantasy and myth
	"요정": "fairy", "마녀": "elder_female", "마법사": "elder_male", "로봇": "robot",
	"천사": "young_female", "악마": "adult_male_deep", "유령": "adult_female",
	"귀신": "adult_female", "괴물": "adult_male_deep", "거인": "adult_male_deep",
	"난쟁이": "child_male", "요괴": "adult_male", "도깨비": "adult_male",
	"신": "adult_male_deep", "여신": "adult_female", "정령": "fairy",
	"인어": "young_female", "유니콘": "young_female", "피닉스": "adult_male_deep",
	"트롤": "adult_male_deep", "고블린": "child_male", "엘프": "young_female",
	"오크": "adult_male_deep", "해골": "adult_male", "좀비": "adult_male",
	"뱀파이어": "adult_male", "늑대인간": "adult_male_deep",
	// pronouns
	"그": "adult_male", "그녀": "adult_female", "그들": "adult_male",
	"누군가": "adult_male", "아무도": "adult_male",
}

// Keyword pairs a character keyword with its category, ordered for matching.
type Keyword struct {
	Word     string
	Category string
}

// keywordsByLength is KeywordVoices sorted by descending keyword rune count
// so compound terms match before any shorter substring could. Ties break on
// the word itself to keep scans deterministic.
var keywordsByLength = func() []Keyword {
	out := make([]Keyword, 0, len(KeywordVoices))
	for w, c := range KeywordVoices {
		out = append(out, Keyword{Word: w, Category: c})
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := len([]rune(out[i].Word)), len([]rune(out[j].Word))
		if li != lj {
			return li > lj
		}
		return out[i].Word < out[j].Word
	})
	return out
}()

// KeywordsByLength returns the keyword table longest-first.
func KeywordsByLength() []Keyword { return keywordsByLength }

// CharsPerSecond is the average Korean reading rate at speed 0, used to fit
// narration into a target clip duration.
const CharsPerSecond = 4.5
