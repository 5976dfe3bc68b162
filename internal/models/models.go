package models

import (
	"image"
	"time"
)

// WorkItem represents a frame queued for OCR
type WorkItem struct {
	FramePath string
	FrameNum  int
	Total     int
}

// FrameText is the OCR output for one sampled frame
type FrameText struct {
	FrameNum   int     `json:"frame"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Slide represents a detected slide change and its summary
type Slide struct {
	SessionID  string    `json:"session_id"`
	FrameNum   int       `json:"frame"`
	Text       string    `json:"text"`
	Summary    string    `json:"summary"`
	Similarity float64   `json:"similarity"`
	Embedding  []float32 `json:"-"`
	CapturedAt time.Time `json:"captured_at"`
}

// SlideSearchResult is a stored slide ranked against a query
type SlideSearchResult struct {
	SessionID  string
	FrameNum   int
	Summary    string
	Similarity float64
}

// Keyword is an extracted keyword with its relevance to the source document
type Keyword struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Cluster groups related keywords under the name of its first member
type Cluster struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// Frame is one decoded video frame. Image is nil for frames the source was
// told not to sample.
type Frame struct {
	Num          int
	Image        image.Image
	Preprocessed bool
}
