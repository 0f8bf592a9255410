package llm

import (
	"net/http"

	"github.com/fesaone/fesabot/internal/config"
	"github.com/sashabaranov/go-openai"
)

// NewClient creates a client for the OpenAI-compatible completions API.
// An explicit transport timeout is installed so a hung upstream cannot pin
// a request forever.
func NewClient(cfg config.LLMConfig) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return openai.NewClientWithConfig(clientConfig)
}
