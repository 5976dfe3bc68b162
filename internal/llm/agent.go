package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agent-api/core/pkg/agent"
	"github.com/agent-api/core/types"
	"github.com/agent-api/ollama"
	"github.com/ollama/ollama/api"
)

// Completer answers a single prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AgentConfig selects the Ollama server and chat model.
type AgentConfig struct {
	BaseURL      string
	Model        string
	SystemPrompt string
}

// Agent is a Completer backed by an agent-api chat agent on Ollama.
type Agent struct {
	agent  *agent.DefaultAgent
	model  string
	logger *slog.Logger
}

// NewAgent checks that Ollama is reachable and initializes a chat agent.
func NewAgent(ctx context.Context, logger *slog.Logger, cfg AgentConfig) (*Agent, error) {
	if logger == nil {
		logger = slog.Default()
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url %q: %w", cfg.BaseURL, err)
	}

	// Check if Ollama is running
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := api.NewClient(base, http.DefaultClient).Heartbeat(pingCtx); err != nil {
		return nil, fmt.Errorf("ollama not reachable at %s: %w", cfg.BaseURL, err)
	}

	port := 11434
	if p := base.Port(); p != "" {
		if port, err = strconv.Atoi(p); err != nil {
			return nil, fmt.Errorf("parse ollama port %q: %w", p, err)
		}
	}

	// Set up Ollama provider
	provider := ollama.NewProvider(&ollama.ProviderOpts{
		Logger:  logger,
		BaseURL: base.Scheme + "://" + base.Hostname(),
		Port:    port,
	})
	provider.UseModel(ctx, &types.Model{ID: cfg.Model})

	a := agent.NewAgent(&agent.NewAgentConfig{
		Provider:     provider,
		Logger:       logger,
		SystemPrompt: cfg.SystemPrompt,
	})
	logger.Debug("ollama agent ready", "url", cfg.BaseURL, "model", cfg.Model)
	return &Agent{agent: a, model: cfg.Model, logger: logger}, nil
}

// Complete runs the agent once and returns the model's final message.
func (a *Agent) Complete(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("llm complete: prompt required")
	}

	response := a.agent.Run(ctx, agent.WithInput(prompt))
	if response.Err != nil {
		return "", fmt.Errorf("llm complete (%s): %w", a.model, response.Err)
	}
	if len(response.Messages) == 0 {
		return "", fmt.Errorf("llm complete (%s): no response messages received from model", a.model)
	}

	// The last message is the model's reply, not the prompt.
	content := strings.TrimSpace(response.Messages[len(response.Messages)-1].Content)
	a.logger.Debug("llm response", "model", a.model, "chars", len(content))
	return content, nil
}
