// Package ocr defines the text recognition contract used by the slide
// watcher together with the image cleanup applied before recognition.
//
// Engines live in subpackages (see ocr/tesseract) so that callers which only
// need preprocessing do not link against a native OCR library.
package ocr

import (
	"context"
	"errors"
	"image"
	"strings"
)

// ErrNoText is returned when recognition succeeds but yields nothing usable.
var ErrNoText = errors.New("ocr: no text recognized")

// Result is the text recognized in one image.
type Result struct {
	Text string
	// Confidence is the mean word confidence in [0, 1], or 0 when unknown.
	Confidence float64
}

// Engine recognizes text in an image.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (Result, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, img image.Image) (Result, error)

// Recognize calls f.
func (f EngineFunc) Recognize(ctx context.Context, img image.Image) (Result, error) {
	return f(ctx, img)
}

// NormalizeText collapses runs of blank lines and trims trailing spaces so
// that two readings of the same slide compare equal.
func NormalizeText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
