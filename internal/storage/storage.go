// Package storage persists detected slides to JSON files, SQLite or
// Postgres with pgvector.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bdougie/lecturekit/internal/models"
)

const batchSize = 10 // Number of slides to batch write

// Storage defines the interface for storing detected slides
type Storage interface {
	// AddSlide adds a single slide
	AddSlide(ctx context.Context, slide models.Slide) error

	// Flush ensures all pending slides are saved
	Flush() error

	// Close flushes and releases the backend
	Close() error
}

// Searcher ranks stored slides against a query embedding
type Searcher interface {
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]models.SlideSearchResult, error)
}

// JSONStorage appends slides to <dir>/<session>/slides.json in batches
type JSONStorage struct {
	slides    []models.Slide
	mu        sync.Mutex
	outputDir string
	sessionID string
}

// NewJSONStorage creates a new JSON storage manager
func NewJSONStorage(outputDir, sessionID string) *JSONStorage {
	return &JSONStorage{
		outputDir: outputDir,
		sessionID: sessionID,
	}
}

// Path is the file slides are written to
func (s *JSONStorage) Path() string {
	return filepath.Join(s.outputDir, s.sessionID, "slides.json")
}

// AddSlide adds a slide to the batch and flushes if the batch is full
func (s *JSONStorage) AddSlide(ctx context.Context, slide models.Slide) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slides = append(s.slides, slide)

	// Write to disk when batch is full
	if len(s.slides) >= batchSize {
		if err := s.flush(); err != nil {
			return fmt.Errorf("flush slides: %w", err)
		}
	}
	return nil
}

// Flush writes all pending slides to disk
func (s *JSONStorage) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

// Close flushes pending slides
func (s *JSONStorage) Close() error {
	return s.Flush()
}

// Load reads every slide written so far
func (s *JSONStorage) Load() ([]models.Slide, error) {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slides: %w", err)
	}
	var slides []models.Slide
	if err := json.Unmarshal(data, &slides); err != nil {
		return nil, fmt.Errorf("failed to unmarshal existing slides: %w", err)
	}
	return slides, nil
}

// Internal flush implementation
func (s *JSONStorage) flush() error {
	if len(s.slides) == 0 {
		return nil
	}

	existing, err := s.Load()
	if err != nil {
		return err
	}
	all := append(existing, s.slides...)

	path := s.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for slides: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(all); err != nil {
		return err
	}

	s.slides = nil // Clear the batch
	return nil
}

// nopStorage discards slides
type nopStorage struct{}

func (nopStorage) AddSlide(context.Context, models.Slide) error { return nil }
func (nopStorage) Flush() error                                 { return nil }
func (nopStorage) Close() error                                 { return nil }

// Nop returns a Storage that keeps nothing
func Nop() Storage { return nopStorage{} }
