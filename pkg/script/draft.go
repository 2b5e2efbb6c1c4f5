// Package script turns selected book pages into a trailer script: it prompts
// a drafting model for per-scene narration with speaker labels, then repairs
// whatever shape the model actually returned.
package script

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"storyreel/pkg/inference"
	"storyreel/pkg/schema"
	"storyreel/pkg/utils"
)

// Page is one selected book page in reading order.
type Page struct {
	Scene string `json:"scene"` // identifier like page_003
	Text  string `json:"text"`
}

const systemPrompt = `You write short trailer scripts for illustrated Korean children's books.
Given numbered pages of story text, produce exactly the requested number of scenes.
Each scene gets a short line of narration or a quoted line of dialogue drawn from the story.
Label each scene's speaker with a voice category (narrator, child_male, child_female, young_male, young_female, adult_male, adult_female, elder_male, elder_female, cute_animal, fairy), adding the character's name in parentheses when a specific character speaks.
Use "none" for scenes that should stay silent. Reply with JSON only.`

// promptBudget caps the drafting prompt size in tokens; page text beyond it
// is dropped chunk by chunk from the end.
const promptBudget = 6000

// Drafter asks a model for trailer narration.
type Drafter struct {
	inferencer inference.Inferencer
}

func NewDrafter(inf inference.Inferencer) *Drafter {
	return &Drafter{inferencer: inf}
}

// Draft produces exactly count scenes for the given pages, in page order.
// The model's reply is padded, truncated and coerced as needed, so the
// returned script always has count entries.
func (d *Drafter) Draft(ctx context.Context, pages []Page, count int) (schema.Script, error) {
	if count <= 0 {
		return schema.Script{}, fmt.Errorf("scene count must be positive, got %d", count)
	}

	user := buildPrompt(pages, count)
	params := &openai.ChatCompletionNewParams{
		ResponseFormat: schema.StructuredOutputsResponseFormat(),
	}
	raw, err := d.inferencer.Infer(ctx, params, systemPrompt, user)
	if err != nil {
		return schema.Script{}, fmt.Errorf("draft script: %w", err)
	}

	var script schema.Script
	if err := json.Unmarshal([]byte(utils.CleanJSON(raw)), &script); err != nil {
		return schema.Script{}, fmt.Errorf("draft script: decode reply: %w", err)
	}
	return Conform(script, count), nil
}

// buildPrompt numbers the pages and trims from the end to stay under the
// token budget.
func buildPrompt(pages []Page, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d scenes for this story.\n\n", count)
	for i, p := range pages {
		text := p.Text
		if tokens, err := utils.NumTokensFromMessages(b.String() + text); err == nil && tokens > promptBudget {
			chunks := utils.ChunkText(text, 200)
			if len(chunks) == 0 {
				continue
			}
			text = chunks[0] + " …"
			log.Debug("page text trimmed for prompt budget", "scene", p.Scene)
		}
		fmt.Fprintf(&b, "Page %d (%s):\n%s\n\n", i+1, p.Scene, text)
	}
	return b.String()
}

// Conform forces the script to exactly count scenes: extras are dropped,
// missing entries become silent scenes, and entries with text but no usable
// speaker fall back to the narrator.
func Conform(script schema.Script, count int) schema.Script {
	if len(script.Scenes) > count {
		log.Warn("draft returned extra scenes", "want", count, "got", len(script.Scenes))
		script.Scenes = script.Scenes[:count]
	}
	for len(script.Scenes) < count {
		script.Scenes = append(script.Scenes, schema.Scene{Speaker: "none"})
	}
	for i := range script.Scenes {
		s := &script.Scenes[i]
		s.Text = strings.TrimSpace(s.Text)
		s.Speaker = strings.TrimSpace(s.Speaker)
		switch {
		case s.Text == "":
			s.Speaker = "none"
		case s.Speaker == "" || strings.EqualFold(s.Speaker, "none"):
			s.Speaker = "narrator"
		}
	}
	return script
}
