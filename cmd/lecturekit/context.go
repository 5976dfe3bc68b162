package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/bdougie/lecturekit/internal/config"
	"github.com/bdougie/lecturekit/internal/embeddings"
	"github.com/bdougie/lecturekit/internal/llm"
	"github.com/bdougie/lecturekit/internal/logging"
	"github.com/bdougie/lecturekit/internal/summarize"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	logger     *slog.Logger
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		level := cfg.Logging.Level
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level = *c.logLevelFlag
		}
		logger, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) log() *slog.Logger {
	if c.logger == nil {
		return logging.NewNop()
	}
	return c.logger
}

// embedder builds the configured embedding service. Callers must Close it.
func (c *commandContext) embedder() (*embeddings.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	var backend embeddings.Backend
	switch cfg.Embeddings.Provider {
	case "hash":
		backend = embeddings.NewHashBackend(cfg.Embeddings.Dimensions)
	case "ollama":
		b, err := embeddings.NewOllamaBackend(cfg.Ollama.BaseURL, cfg.Embeddings.Model)
		if err != nil {
			return nil, err
		}
		backend = b
	default:
		return nil, fmt.Errorf("unsupported embeddings provider %q", cfg.Embeddings.Provider)
	}
	return embeddings.NewService(backend, cfg.Embeddings.Workers), nil
}

func (c *commandContext) summarizer(ctx context.Context, emb embeddings.Embedder) (summarize.Summarizer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Summarizer.Mode == "llm" {
		agent, err := llm.NewAgent(ctx, c.log(), llm.AgentConfig{
			BaseURL:      cfg.Ollama.BaseURL,
			Model:        cfg.Ollama.ChatModel,
			SystemPrompt: cfg.Summarizer.SystemPrompt,
		})
		if err != nil {
			return nil, err
		}
		return summarize.NewLLM(agent), nil
	}
	return summarize.NewExtractive(emb, cfg.Summarizer.MinLength, cfg.Summarizer.MaxLength), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
