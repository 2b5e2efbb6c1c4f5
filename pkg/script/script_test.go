package script

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyreel/pkg/lexicon"
	"storyreel/pkg/schema"
)

type cannedInferencer struct {
	reply string
	err   error
}

func (c *cannedInferencer) Infer(context.Context, *openai.ChatCompletionNewParams, string, string) (string, error) {
	return c.reply, c.err
}

func (c *cannedInferencer) Verify(_ context.Context, result string) (bool, error) {
	return result != "", nil
}

func TestDraftConformsCount(t *testing.T) {
	reply := "```json\n" + `{"title":"숲의 친구들","scenes":[
		{"text":"옛날 깊은 숲 속에","speaker":"narrator"},
		{"text":"\"안녕!\"","speaker":"cute_animal (토끼)"}
	]}` + "\n```"
	d := NewDrafter(&cannedInferencer{reply: reply})

	script, err := d.Draft(context.Background(), []Page{{Scene: "page_001", Text: "본문"}}, 4)
	require.NoError(t, err)
	require.Len(t, script.Scenes, 4)
	assert.Equal(t, "narrator", script.Scenes[0].Speaker)
	assert.Equal(t, "none", script.Scenes[2].Speaker)
	assert.Equal(t, "none", script.Scenes[3].Speaker)
}

func TestDraftTruncatesExtras(t *testing.T) {
	reply := `{"title":"t","scenes":[
		{"text":"하나","speaker":"narrator"},
		{"text":"둘","speaker":"narrator"},
		{"text":"셋","speaker":"narrator"}
	]}`
	d := NewDrafter(&cannedInferencer{reply: reply})
	script, err := d.Draft(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Len(t, script.Scenes, 2)
}

func TestSceneCoercion(t *testing.T) {
	var script schema.Script
	raw := `{"title":"t","scenes":["그냥 문자열", "", 42, {"text":"정상","speaker":"narrator"}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &script))
	require.Len(t, script.Scenes, 4)

	assert.Equal(t, "그냥 문자열", script.Scenes[0].Text)
	assert.Equal(t, "narrator", script.Scenes[0].Speaker)
	assert.Equal(t, "none", script.Scenes[1].Speaker)
	assert.Equal(t, "none", script.Scenes[2].Speaker)
	assert.Equal(t, "정상", script.Scenes[3].Text)
}

func TestParseSpeaker(t *testing.T) {
	label, name := ParseSpeaker("child_male (민준)")
	assert.Equal(t, "child_male", label)
	assert.Equal(t, "민준", name)

	label, name = ParseSpeaker("narrator")
	assert.Equal(t, "narrator", label)
	assert.Empty(t, name)
}

func TestVoiceKey(t *testing.T) {
	cat, char := VoiceKey("cute_animal (토끼)")
	assert.Equal(t, "cute_animal", cat)
	assert.Equal(t, "토끼", char)

	cat, char = VoiceKey("child male (민준)")
	assert.Equal(t, "child_male", cat)
	assert.Equal(t, "민준", char)

	cat, _ = VoiceKey("none")
	assert.Equal(t, lexicon.None, cat)

	cat, _ = VoiceKey("totally made up label")
	assert.Equal(t, lexicon.Narrator, cat)

	// category recovered from the character name when the label is junk
	cat, char = VoiceKey("? (할머니)")
	assert.Equal(t, "elder_female", cat)
	assert.Equal(t, "할머니", char)
}
