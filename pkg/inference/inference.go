// Package inference abstracts the chat models that draft trailer narration.
// Every provider is driven through the OpenAI request shape; non-OpenAI
// backends translate internally.
package inference

import (
	"context"

	"github.com/openai/openai-go/v3"
)

// Inferencer runs one model call and sanity-checks its output. The script
// layer builds the prompts; implementations only fill in transport, model
// defaults and decoding.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
	Verify(ctx context.Context, result string) (bool, error)
}
