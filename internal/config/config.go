package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Capture contains live video input settings.
type Capture struct {
	// Source is a camera index ("0") or a video file path.
	Source  string `toml:"source"`
	ShowGUI bool   `toml:"show_gui"`
}

// OCR contains Tesseract settings.
type OCR struct {
	Languages []string `toml:"languages"`
	// PageSegMode is passed to tesseract as-is; 0 leaves the engine default.
	PageSegMode int `toml:"page_seg_mode"`
}

// Slides contains slide-change detection settings.
type Slides struct {
	FrameSkip           int     `toml:"frame_skip"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	SummarySentences    int     `toml:"summary_sentences"`
	// FrameInterval is the ffmpeg sampling interval in seconds for offline videos.
	FrameInterval int    `toml:"frame_interval"`
	FramesDir     string `toml:"frames_dir"`
	Workers       int    `toml:"workers"`
}

// Summarizer selects the summarization backend.
type Summarizer struct {
	// Mode is "extractive" or "llm".
	Mode         string `toml:"mode"`
	MinLength    int    `toml:"min_length"`
	MaxLength    int    `toml:"max_length"`
	SystemPrompt string `toml:"system_prompt"`
}

// Ollama contains connection settings for the local model server.
type Ollama struct {
	BaseURL   string `toml:"base_url"`
	ChatModel string `toml:"chat_model"`
}

// Embeddings contains embedding model settings.
type Embeddings struct {
	// Provider is "ollama" or "hash".
	Provider   string `toml:"provider"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
	Workers    int    `toml:"workers"`
}

// Questions contains question generation settings.
type Questions struct {
	MaxPerSentence   int   `toml:"max_per_sentence"`
	Seed             int64 `toml:"seed"`
	CountryFollowUps bool  `toml:"country_follow_ups"`
}

// MindMap contains keyword clustering and rendering settings.
type MindMap struct {
	TopN       int     `toml:"top_n"`
	Clusters   int     `toml:"clusters"`
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	SpringK    float64 `toml:"spring_k"`
	Iterations int     `toml:"iterations"`
	Seed       int64   `toml:"seed"`
	OutputPath string  `toml:"output_path"`
}

// Storage selects where detected slides are persisted.
type Storage struct {
	// Backend is "none", "json", "sqlite" or "postgres".
	Backend     string `toml:"backend"`
	Dir         string `toml:"dir"`
	SQLitePath  string `toml:"sqlite_path"`
	PostgresDSN string `toml:"postgres_dsn"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for lecturekit.
type Config struct {
	Capture    Capture    `toml:"capture"`
	OCR        OCR        `toml:"ocr"`
	Slides     Slides     `toml:"slides"`
	Summarizer Summarizer `toml:"summarizer"`
	Ollama     Ollama     `toml:"ollama"`
	Embeddings Embeddings `toml:"embeddings"`
	Questions  Questions  `toml:"questions"`
	MindMap    MindMap    `toml:"mindmap"`
	Storage    Storage    `toml:"storage"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lecturekit/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns the
// resolved path and whether a file was actually read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lecturekit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
