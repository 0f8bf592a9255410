package config

import (
	"os"
	"testing"
	"time"
)

const sampleConfig = `
llm:
  base_url: https://api.example.com/openai/v1
  api_key: dummy
  completion_model: llama-3.3-70b-versatile
  moderation_model: meta-llama/llama-guard-4-12b
  timeout: 5s
server:
  host: 0.0.0.0
  port: "9090"
chat:
  history_window: 4
  local_delay: 50ms
knowledge:
  - keys: ["siapa", "pembuat"]
    response: "Dibuat oleh **Fauzi Eka Suryana**."
`

// TestLoad verifies that Load unmarshals the full config shape.
func TestLoad(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString(sampleConfig); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.BaseURL != "https://api.example.com/openai/v1" {
		t.Fatalf("unexpected base_url: %s", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.LLM.Timeout)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("unexpected port: %s", cfg.Server.Port)
	}
	if cfg.Chat.HistoryWindow != 4 {
		t.Fatalf("unexpected history_window: %d", cfg.Chat.HistoryWindow)
	}
	if len(cfg.Knowledge) != 1 || len(cfg.Knowledge[0].Keys) != 2 {
		t.Fatalf("knowledge not parsed: %+v", cfg.Knowledge)
	}
}

// TestLoad_APIKeyEnvOverride verifies GROQ_API_KEY wins over the file value.
func TestLoad_APIKeyEnvOverride(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString(sampleConfig); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())
	t.Setenv("GROQ_API_KEY", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "from-env" {
		t.Fatalf("env override not applied: %s", cfg.LLM.APIKey)
	}
}

// TestLoad_Defaults verifies defaults apply when no config file exists.
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("GROQ_API_KEY", "")
	// t.Chdir requires Go 1.24+; emulate it for older toolchains.
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.BaseURL != "https://api.groq.com/openai/v1" {
		t.Fatalf("unexpected default base_url: %s", cfg.LLM.BaseURL)
	}
	if cfg.Chat.HistoryWindow != 10 {
		t.Fatalf("unexpected default history_window: %d", cfg.Chat.HistoryWindow)
	}
	if cfg.LLM.Timeout != 30*time.Second {
		t.Fatalf("unexpected default timeout: %s", cfg.LLM.Timeout)
	}
}
