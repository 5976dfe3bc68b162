package config

import (
	"os"
	"strings"
)

const (
	defaultOllamaURL     = "http://localhost:11434"
	defaultChatModel     = "llama3.2"
	defaultEmbedModel    = "all-minilm"
	defaultEmbedDims     = 384
	defaultWorkers       = 4
	defaultSummaryPrompt = "You summarize lecture slides. Reply with the most important sentences from the text, verbatim, one per line, and nothing else."
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Capture: Capture{
			Source:  "0",
			ShowGUI: true,
		},
		OCR: OCR{
			Languages: []string{"eng"},
		},
		Slides: Slides{
			FrameSkip:           30,
			SimilarityThreshold: 0.7,
			SummarySentences:    3,
			FrameInterval:       5,
			FramesDir:           "output_frames",
			Workers:             defaultWorkers,
		},
		Summarizer: Summarizer{
			Mode:         "extractive",
			MinLength:    40,
			MaxLength:    600,
			SystemPrompt: defaultSummaryPrompt,
		},
		Ollama: Ollama{
			BaseURL:   defaultOllamaURL,
			ChatModel: defaultChatModel,
		},
		Embeddings: Embeddings{
			Provider:   "ollama",
			Model:      defaultEmbedModel,
			Dimensions: defaultEmbedDims,
			Workers:    defaultWorkers,
		},
		Questions: Questions{
			MaxPerSentence: 5,
		},
		MindMap: MindMap{
			TopN:       20,
			Clusters:   3,
			Width:      1400,
			Height:     1000,
			SpringK:    0.5,
			Iterations: 50,
			Seed:       1,
			OutputPath: "mindmap.png",
		},
		Storage: Storage{
			Backend:    "none",
			Dir:        "output_slides",
			SQLitePath: "lecturekit.db",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}

func (c *Config) normalize() error {
	c.Summarizer.Mode = strings.ToLower(strings.TrimSpace(c.Summarizer.Mode))
	c.Embeddings.Provider = strings.ToLower(strings.TrimSpace(c.Embeddings.Provider))
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if host := strings.TrimSpace(os.Getenv("OLLAMA_HOST")); host != "" {
		if !strings.Contains(host, "://") {
			host = "http://" + host
		}
		c.Ollama.BaseURL = host
	}
	c.Ollama.BaseURL = strings.TrimRight(strings.TrimSpace(c.Ollama.BaseURL), "/")

	if c.Storage.PostgresDSN == "" {
		c.Storage.PostgresDSN = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	var err error
	if c.Slides.FramesDir, err = expandPath(c.Slides.FramesDir); err != nil {
		return err
	}
	if c.Storage.Dir, err = expandPath(c.Storage.Dir); err != nil {
		return err
	}
	if c.Storage.SQLitePath, err = expandPath(c.Storage.SQLitePath); err != nil {
		return err
	}
	if c.MindMap.OutputPath, err = expandPath(c.MindMap.OutputPath); err != nil {
		return err
	}

	if len(c.OCR.Languages) == 0 {
		c.OCR.Languages = []string{"eng"}
	}
	if c.Slides.Workers <= 0 {
		c.Slides.Workers = defaultWorkers
	}
	if c.Embeddings.Workers <= 0 {
		c.Embeddings.Workers = defaultWorkers
	}
	return nil
}
