package llm

import (
	"context"
	"math"
	"strings"

	"github.com/fesaone/fesabot/internal/logger"
	"github.com/sashabaranov/go-openai"
)

// moderationMaxTokens caps the classifier output; a verdict is a word or
// two, never prose.
const moderationMaxTokens = 32

// SafetyGate classifies a user message with a guard model before any
// completion call is made.
type SafetyGate struct {
	client Client
	model  string
}

// NewSafetyGate creates a gate backed by the given classifier model.
func NewSafetyGate(client Client, model string) *SafetyGate {
	return &SafetyGate{client: client, model: model}
}

// Check returns false only when the guard model flags the message. The gate
// fails open: transport errors, upstream error payloads, and empty replies
// all count as safe. That trades strictness for availability while the
// moderation backend is unreachable, and it is intentional.
func (g *SafetyGate) Check(ctx context.Context, message string) bool {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		// go-openai drops a zero temperature from the request body; the
		// smallest nonzero float keeps sampling deterministic in practice.
		Temperature: math.SmallestNonzeroFloat32,
		MaxTokens:   moderationMaxTokens,
	})
	if err != nil {
		logger.L.Warn("moderation call failed, failing open", "error", err)
		return true
	}
	if len(resp.Choices) == 0 {
		logger.L.Warn("moderation returned no choices, failing open")
		return true
	}

	verdict := strings.ToLower(resp.Choices[0].Message.Content)
	return strings.Contains(verdict, "safe") && !strings.Contains(verdict, "unsafe")
}
