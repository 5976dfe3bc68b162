package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/bdougie/lecturekit/internal/ocr"
)

// Engine implements ocr.Engine using a fresh gosseract client per call.
type Engine struct {
	languages     []string
	pageSegMode   int
	clientFactory func() *gosseract.Client
}

// Option customizes the engine.
type Option func(*Engine)

// WithLanguages sets the tesseract language list (default "eng").
func WithLanguages(langs ...string) Option {
	return func(e *Engine) {
		if len(langs) > 0 {
			e.languages = append([]string(nil), langs...)
		}
	}
}

// WithPageSegMode overrides tesseract's page segmentation mode; 0 keeps the default.
func WithPageSegMode(mode int) Option {
	return func(e *Engine) { e.pageSegMode = mode }
}

// New constructs a Tesseract-backed OCR engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		languages:     []string{"eng"},
		clientFactory: gosseract.NewClient,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recognize performs OCR on a single frame.
func (e *Engine) Recognize(ctx context.Context, img image.Image) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ocr.Result{}, fmt.Errorf("encode frame: %w", err)
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.languages...); err != nil {
		return ocr.Result{}, fmt.Errorf("set languages: %w", err)
	}
	if e.pageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(e.pageSegMode)); err != nil {
			return ocr.Result{}, fmt.Errorf("set page seg mode: %w", err)
		}
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}

	return ocr.Result{
		Text:       ocr.NormalizeText(text),
		Confidence: meanConfidence(c),
	}, nil
}

// Version reports the linked tesseract version.
func Version() string {
	c := gosseract.NewClient()
	defer c.Close()
	return c.Version()
}

func meanConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}

// String describes the engine configuration for logs.
func (e *Engine) String() string {
	return fmt.Sprintf("tesseract(%v, psm=%d)", e.languages, e.pageSegMode)
}
