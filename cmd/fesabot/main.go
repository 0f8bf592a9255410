package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/fesaone/fesabot/internal/agent"
	"github.com/fesaone/fesabot/internal/config"
	"github.com/fesaone/fesabot/internal/llm"
	"github.com/fesaone/fesabot/internal/logger"
	"github.com/fesaone/fesabot/internal/server"
)

func main() {
	// Local development convenience; in production the key comes from the
	// real environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.L.Warn("could not load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	// Start anyway without the key: /api/chat answers with a generic 500
	// until it is provided, which beats crash-looping under an orchestrator.
	if cfg.LLM.APIKey == "" {
		logger.L.Warn("upstream API key is not configured; chat requests will be rejected")
	}

	client := llm.NewClient(cfg.LLM)
	pipeline := agent.New(client, cfg)
	srv := server.New(cfg, pipeline)

	if err := srv.Start(); err != nil {
		logger.L.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
