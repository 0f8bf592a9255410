package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	LLM       LLMConfig        `mapstructure:"llm"`
	Server    ServerConfig     `mapstructure:"server"`
	Chat      ChatConfig       `mapstructure:"chat"`
	Knowledge []KnowledgeEntry `mapstructure:"knowledge"`
	LogLevel  string           `mapstructure:"log_level"`
}

// LLMConfig holds the upstream completions API configuration. APIKey is
// normally supplied via the GROQ_API_KEY environment variable rather than
// the config file.
type LLMConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	CompletionModel string        `mapstructure:"completion_model"`
	ModerationModel string        `mapstructure:"moderation_model"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
}

// ChatConfig tunes the conversation pipeline.
type ChatConfig struct {
	// HistoryWindow is the number of most recent turns forwarded upstream.
	HistoryWindow int `mapstructure:"history_window"`
	// LocalDelay is the artificial pause before returning a canned answer,
	// so local hits feel like the remote path.
	LocalDelay time.Duration `mapstructure:"local_delay"`
}

// KnowledgeEntry is one deployer-editable canned answer. Keys are matched
// against tokenized user input; Response may contain markdown and bare URLs.
type KnowledgeEntry struct {
	Keys     []string `mapstructure:"keys"`
	Response string   `mapstructure:"response"`
}

// Load loads the configuration from config.yaml (or the file named by
// CONFIG_PATH) and applies defaults and environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.completion_model", "llama-3.3-70b-versatile")
	v.SetDefault("llm.moderation_model", "meta-llama/llama-guard-4-12b")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("chat.history_window", 10)
	v.SetDefault("chat.local_delay", 600*time.Millisecond)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine: defaults plus env cover everything
		// except the API key, which is checked at startup.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// The credential never lives in the config file in production.
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		config.LLM.APIKey = key
	}

	return &config, nil
}
