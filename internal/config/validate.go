package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports every invalid setting in one joined error.
func (c *Config) Validate() error {
	var errs []error

	if c.Slides.FrameSkip <= 0 {
		errs = append(errs, errors.New("slides.frame_skip must be positive"))
	}
	if c.Slides.SimilarityThreshold <= 0 || c.Slides.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("slides.similarity_threshold must be in (0, 1], got %v", c.Slides.SimilarityThreshold))
	}
	if c.Slides.SummarySentences <= 0 {
		errs = append(errs, errors.New("slides.summary_sentences must be positive"))
	}
	if c.Slides.FrameInterval <= 0 {
		errs = append(errs, errors.New("slides.frame_interval must be positive"))
	}

	switch c.Summarizer.Mode {
	case "extractive", "llm":
	default:
		errs = append(errs, fmt.Errorf("summarizer.mode: unsupported value %q", c.Summarizer.Mode))
	}
	if c.Summarizer.MaxLength > 0 && c.Summarizer.MinLength > c.Summarizer.MaxLength {
		errs = append(errs, errors.New("summarizer.min_length exceeds max_length"))
	}

	switch c.Embeddings.Provider {
	case "ollama", "hash":
	default:
		errs = append(errs, fmt.Errorf("embeddings.provider: unsupported value %q", c.Embeddings.Provider))
	}
	if c.Embeddings.Dimensions <= 0 {
		errs = append(errs, errors.New("embeddings.dimensions must be positive"))
	}
	if c.Embeddings.Provider == "ollama" || c.Summarizer.Mode == "llm" {
		if strings.TrimSpace(c.Ollama.BaseURL) == "" {
			errs = append(errs, errors.New("ollama.base_url is required"))
		}
	}

	if c.Questions.MaxPerSentence <= 0 {
		errs = append(errs, errors.New("questions.max_per_sentence must be positive"))
	}

	if c.MindMap.TopN <= 0 {
		errs = append(errs, errors.New("mindmap.top_n must be positive"))
	}
	if c.MindMap.Clusters <= 0 {
		errs = append(errs, errors.New("mindmap.clusters must be positive"))
	}
	if c.MindMap.Width < 200 || c.MindMap.Height < 200 {
		errs = append(errs, errors.New("mindmap.width and mindmap.height must be at least 200"))
	}
	if c.MindMap.Iterations <= 0 {
		errs = append(errs, errors.New("mindmap.iterations must be positive"))
	}

	switch c.Storage.Backend {
	case "none", "json", "sqlite":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage.postgres_dsn (or DATABASE_URL) is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unsupported value %q", c.Storage.Backend))
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}
