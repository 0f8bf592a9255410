package llm

import (
	"context"
	"errors"

	"github.com/fesaone/fesabot/internal/session"
	"github.com/sashabaranov/go-openai"
)

// systemPrompt is the fixed persona sent with every completion request.
const systemPrompt = "You are Fesaone AI (fesa.one), created by Fauzi Eka Suryana (Bandung, ID). He is a Dev/Designer & Tech Lead at R Media/Radar Bandung. Be helpful, concise, and polite in Indonesian."

const (
	completionTemperature = 0.7
	completionMaxTokens   = 1024
)

// RelayError is returned when the completion backend fails. Message carries
// the remote error text; callers must degrade to a generic user-facing
// string and never surface it.
type RelayError struct {
	Message string
	Err     error
}

func (e *RelayError) Error() string { return "llm: completion relay: " + e.Message }

func (e *RelayError) Unwrap() error { return e.Err }

// Relay forwards a user message plus bounded history to the completion
// model under the fixed system persona.
type Relay struct {
	client Client
	model  string
}

// NewRelay creates a relay backed by the given completion model.
func NewRelay(client Client, model string) *Relay {
	return &Relay{client: client, model: model}
}

// Complete sends persona + history + message and returns the assistant
// reply. History must already be capped by the caller.
func (r *Relay) Complete(ctx context.Context, message string, history []session.Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, t := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    t.Role,
			Content: t.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Messages:    messages,
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &RelayError{Message: apiErr.Message, Err: err}
		}
		return "", &RelayError{Message: err.Error(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &RelayError{Message: "completion returned no choices"}
	}

	return resp.Choices[0].Message.Content, nil
}
