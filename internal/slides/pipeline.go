package slides

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bdougie/lecturekit/internal/embeddings"
	"github.com/bdougie/lecturekit/internal/models"
	"github.com/bdougie/lecturekit/internal/ocr"
	"github.com/bdougie/lecturekit/internal/summarize"
)

// FrameSource yields frames until it returns io.EOF.
type FrameSource interface {
	Next(ctx context.Context) (models.Frame, error)
	Close() error
}

// Sink persists detected slides.
type Sink interface {
	AddSlide(ctx context.Context, slide models.Slide) error
}

// Config wires a Pipeline. Engine, Summarizer and Detector are required.
type Config struct {
	Engine     ocr.Engine
	Summarizer summarize.Summarizer
	Detector   *ChangeDetector

	// SummarySentences defaults to 3.
	SummarySentences int
	// Preprocess is applied to frames the source did not already clean up.
	// Defaults to ocr.Preprocess.
	Preprocess func(image.Image) image.Image
	// Sink and Embedder are optional; when both are set stored slides carry
	// an embedding of their text.
	Sink     Sink
	Embedder embeddings.Embedder
	// Out receives the human readable report, default os.Stdout.
	Out     io.Writer
	Logger  *slog.Logger
	OnSlide func(models.Slide)
	// SessionID tags stored slides; a random UUID when empty.
	SessionID string
	Now       func() time.Time
}

// Pipeline turns frames into slide-change reports.
type Pipeline struct {
	cfg Config
}

// New validates cfg and fills in defaults.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Engine == nil || cfg.Summarizer == nil || cfg.Detector == nil {
		return nil, errors.New("slides: engine, summarizer and detector are required")
	}
	if cfg.SummarySentences <= 0 {
		cfg.SummarySentences = 3
	}
	if cfg.Preprocess == nil {
		cfg.Preprocess = func(img image.Image) image.Image { return ocr.Preprocess(img) }
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Pipeline{cfg: cfg}, nil
}

// SessionID identifies this run in storage.
func (p *Pipeline) SessionID() string { return p.cfg.SessionID }

// Watch reads src until it is exhausted or ctx is done, OCR'ing every
// sampled frame and reporting slide changes. A closed source ends the watch
// without error.
func (p *Pipeline) Watch(ctx context.Context, src FrameSource) error {
	p.cfg.Logger.Info("watching for slide changes", "session", p.cfg.SessionID)
	for {
		frame, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if frame.Image == nil || !p.cfg.Detector.ShouldSample(frame.Num) {
			continue
		}

		ft, err := p.Recognize(ctx, frame)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.cfg.Logger.Warn("ocr failed", "frame", frame.Num, "error", err)
			continue
		}
		if _, err := p.Accept(ctx, ft); err != nil {
			return err
		}
	}
}

// Recognize preprocesses (unless already done) and OCRs one frame.
func (p *Pipeline) Recognize(ctx context.Context, frame models.Frame) (models.FrameText, error) {
	img := frame.Image
	if !frame.Preprocessed {
		img = p.cfg.Preprocess(img)
	}
	res, err := p.cfg.Engine.Recognize(ctx, img)
	if err != nil {
		return models.FrameText{}, fmt.Errorf("frame %d: %w", frame.Num, err)
	}
	p.cfg.Logger.Debug("frame recognized", "frame", frame.Num, "chars", len(res.Text), "confidence", res.Confidence)
	return models.FrameText{FrameNum: frame.Num, Text: res.Text, Confidence: res.Confidence}, nil
}

// Accept gates ft through the change detector. On a change it prints the
// banner and summary, stores the slide and returns it; otherwise nil.
func (p *Pipeline) Accept(ctx context.Context, ft models.FrameText) (*models.Slide, error) {
	changed, similarity := p.cfg.Detector.Observe(ft.Text)
	if !changed {
		p.cfg.Logger.Debug("same slide", "frame", ft.FrameNum, "similarity", similarity)
		return nil, nil
	}
	p.cfg.Logger.Info("slide changed", "frame", ft.FrameNum, "similarity", similarity)

	summary, err := p.cfg.Summarizer.Summarize(ctx, ft.Text, p.cfg.SummarySentences)
	switch {
	case errors.Is(err, summarize.ErrEmptyInput):
		summary = ""
	case err != nil:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.cfg.Logger.Warn("summary failed", "frame", ft.FrameNum, "error", err)
		summary = ""
	}

	fmt.Fprint(p.cfg.Out, "\n\n** Slide Changed! New Content Detected **\n\n")
	fmt.Fprintf(p.cfg.Out, "Summary:\n%s\n", summary)

	slide := models.Slide{
		SessionID:  p.cfg.SessionID,
		FrameNum:   ft.FrameNum,
		Text:       ft.Text,
		Summary:    summary,
		Similarity: similarity,
		CapturedAt: p.cfg.Now(),
	}

	if p.cfg.Sink != nil {
		if p.cfg.Embedder != nil && strings.TrimSpace(ft.Text) != "" {
			vectors, err := p.cfg.Embedder.Embed(ctx, []string{ft.Text})
			if err != nil {
				p.cfg.Logger.Warn("slide embedding failed", "frame", ft.FrameNum, "error", err)
			} else {
				slide.Embedding = vectors[0]
			}
		}
		if err := p.cfg.Sink.AddSlide(ctx, slide); err != nil {
			return nil, fmt.Errorf("store slide %d: %w", ft.FrameNum, err)
		}
	}

	if p.cfg.OnSlide != nil {
		p.cfg.OnSlide(slide)
	}
	return &slide, nil
}
