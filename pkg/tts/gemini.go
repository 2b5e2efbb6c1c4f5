package tts

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiVoices maps voice categories onto the prebuilt voice set.
var geminiVoices = map[string]string{
	"narrator":        "Aoede",
	"narrator_male":   "Charon",
	"narrator_female": "Aoede",
	"child_male":      "Puck",
	"child_female":    "Leda",
	"young_male":      "Puck",
	"young_female":    "Kore",
	"adult_male":      "Charon",
	"adult_male_deep": "Orus",
	"adult_female":    "Kore",
	"elder_male":      "Orus",
	"elder_female":    "Callirrhoe",
	"cute_animal":     "Leda",
	"fairy":           "Leda",
}

// GeminiVoice translates a voice category to this backend's naming scheme.
// Unknown categories degrade to the narrator voice, never to another engine.
func GeminiVoice(category string) string {
	if v, ok := geminiVoices[category]; ok {
		return v
	}
	return geminiVoices["narrator"]
}

// GeminiWorkers caps batch concurrency for this backend, which rate limits
// aggressively.
const GeminiWorkers = 3

// GeminiSampleRate is the fixed rate of the raw PCM the speech model
// returns; the orchestrator wraps it into a playable container.
const GeminiSampleRate = 24000

// Gemini synthesizes through the generative speech model. Calls are spaced
// out by a shared limiter on top of the batch worker cap.
type Gemini struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{
		client:  client,
		model:   "gemini-2.5-flash-preview-tts",
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}, nil
}

func (g *Gemini) Kind() Kind { return KindGemini }
func (g *Gemini) Limit() int { return 4000 }

func (g *Gemini) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	prompt := req.Text
	if req.Style != "" {
		prompt = fmt.Sprintf("%s: %s", req.Style, req.Text)
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: req.Voice},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini synthesize: %w", err)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("gemini synthesize: no audio in response")
}
