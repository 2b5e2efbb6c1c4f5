package tts

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiVoices maps voice categories onto the model's fixed voice set.
var openaiVoices = map[string]openai.AudioSpeechNewParamsVoice{
	"narrator":        openai.AudioSpeechNewParamsVoiceMarin,
	"narrator_male":   openai.AudioSpeechNewParamsVoiceCedar,
	"narrator_female": openai.AudioSpeechNewParamsVoiceMarin,
	"child_male":      openai.AudioSpeechNewParamsVoiceBallad,
	"child_female":    openai.AudioSpeechNewParamsVoiceShimmer,
	"young_male":      openai.AudioSpeechNewParamsVoiceEcho,
	"young_female":    openai.AudioSpeechNewParamsVoiceCoral,
	"adult_male":      openai.AudioSpeechNewParamsVoiceCedar,
	"adult_male_deep": openai.AudioSpeechNewParamsVoiceAsh,
	"adult_female":    openai.AudioSpeechNewParamsVoiceSage,
	"elder_male":      openai.AudioSpeechNewParamsVoiceVerse,
	"elder_female":    openai.AudioSpeechNewParamsVoiceSage,
	"cute_animal":     openai.AudioSpeechNewParamsVoiceShimmer,
	"fairy":           openai.AudioSpeechNewParamsVoiceShimmer,
}

// OpenAIVoice translates a voice category to this backend's naming scheme.
// Unknown categories degrade to the narrator voice, never to another engine.
func OpenAIVoice(category string) string {
	if v, ok := openaiVoices[category]; ok {
		return string(v)
	}
	return string(openai.AudioSpeechNewParamsVoiceMarin)
}

// OpenAI synthesizes through the gpt-4o-mini speech model.
type OpenAI struct {
	client openai.Client
	model  openai.SpeechModel
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.SpeechModelGPT4oMiniTTS,
	}
}

func (o *OpenAI) Kind() Kind { return KindOpenAI }
func (o *OpenAI) Limit() int { return 4096 }

func (o *OpenAI) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	params := openai.AudioSpeechNewParams{
		Model: o.model,
		Input: req.Text,
		Voice: openai.AudioSpeechNewParamsVoice(req.Voice),
		Speed: openai.Float(1 - float64(req.Speed)*0.1),
	}
	if req.Style != "" {
		params.Instructions = openai.String(req.Style)
	}
	resp, err := o.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai synthesize: %w", err)
	}
	defer resp.Body.Close()
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai read audio: %w", err)
	}
	return audio, nil
}
