package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Client is the minimal subset of openai.Client used by the gate and the
// relay; it is easy to mock in tests.
type Client interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}
