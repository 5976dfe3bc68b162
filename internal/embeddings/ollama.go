package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaBackend calls the /api/embed endpoint of an Ollama server.
type OllamaBackend struct {
	client *api.Client
	model  string
}

// NewOllamaBackend connects to baseURL (e.g. http://localhost:11434).
func NewOllamaBackend(baseURL, model string) (*OllamaBackend, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url %q: %w", baseURL, err)
	}
	return &OllamaBackend{
		client: api.NewClient(base, &http.Client{Timeout: 2 * time.Minute}),
		model:  model,
	}, nil
}

// EmbedBatch embeds all texts in one request.
func (b *OllamaBackend) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := b.client.Embed(ctx, &api.EmbedRequest{
		Model: b.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed (%s): %w", b.model, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed (%s): got %d vectors for %d inputs", b.model, len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}
