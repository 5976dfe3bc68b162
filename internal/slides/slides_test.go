package slides

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/bdougie/lecturekit/internal/logging"
	"github.com/bdougie/lecturekit/internal/models"
	"github.com/bdougie/lecturekit/internal/ocr"
	"github.com/bdougie/lecturekit/internal/summarize"
)

type sliceSource struct {
	frames []models.Frame
	next   int
}

func (s *sliceSource) Next(ctx context.Context) (models.Frame, error) {
	if s.next >= len(s.frames) {
		return models.Frame{}, io.EOF
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

func (s *sliceSource) Close() error { return nil }

type stubSummarizer struct {
	err   error
	calls []string
}

func (s *stubSummarizer) Summarize(ctx context.Context, text string, n int) (string, error) {
	s.calls = append(s.calls, text)
	if s.err != nil {
		return "", s.err
	}
	if strings.TrimSpace(text) == "" {
		return "", summarize.ErrEmptyInput
	}
	return "summary of " + text, nil
}

type memorySink struct {
	slides []models.Slide
}

func (m *memorySink) AddSlide(ctx context.Context, slide models.Slide) error {
	m.slides = append(m.slides, slide)
	return nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

// numberedImage encodes a frame number in its width so the stub engine can
// map frames to texts.
func numberedImage(n int) image.Image {
	return image.NewGray(image.Rect(0, 0, n, 1))
}

func textByWidth(texts map[int]string) ocr.Engine {
	return ocr.EngineFunc(func(ctx context.Context, img image.Image) (ocr.Result, error) {
		text, ok := texts[img.Bounds().Dx()]
		if !ok {
			return ocr.Result{}, errors.New("unreadable frame")
		}
		return ocr.Result{Text: text}, nil
	})
}

func newTestPipeline(t *testing.T, engine ocr.Engine, sum summarize.Summarizer, out io.Writer, sink Sink) *Pipeline {
	t.Helper()
	p, err := New(Config{
		Engine:     engine,
		Summarizer: sum,
		Detector:   NewChangeDetector(30, 0.7),
		Preprocess: func(img image.Image) image.Image { return img },
		Sink:       sink,
		Embedder:   stubEmbedder{},
		Out:        out,
		Logger:     logging.NewNop(),
		SessionID:  "session-1",
		Now:        func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestChangeDetector(t *testing.T) {
	d := NewChangeDetector(30, 0.7)
	if d.ShouldSample(29) || !d.ShouldSample(30) || !d.ShouldSample(60) {
		t.Fatal("expected sampling every 30th frame")
	}

	steps := []struct {
		text    string
		changed bool
	}{
		{"", false},
		{"Newton's Laws of Motion", true},
		{"Newton's Laws of Motion", false},
		{"Newton's Laws of Motion.", false},
		{"Kepler and planetary orbits", true},
	}
	for i, s := range steps {
		changed, sim := d.Observe(s.text)
		if changed != s.changed {
			t.Fatalf("step %d: Observe(%q) changed=%v (similarity %v), want %v", i, s.text, changed, sim, s.changed)
		}
	}
	if d.Previous() != "Kepler and planetary orbits" {
		t.Fatalf("unexpected reference text %q", d.Previous())
	}
}

func TestWatchReportsOnlySlideChanges(t *testing.T) {
	var frames []models.Frame
	for n := 1; n <= 90; n++ {
		frames = append(frames, models.Frame{Num: n, Image: numberedImage(n)})
	}
	engine := textByWidth(map[int]string{
		30: "Free fall and gravity",
		60: "Free fall and gravity",
		90: "Orbital mechanics and Kepler's laws",
	})
	sum := &stubSummarizer{}
	sink := &memorySink{}
	var out bytes.Buffer

	p := newTestPipeline(t, engine, sum, &out, sink)
	if err := p.Watch(context.Background(), &sliceSource{frames: frames}); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if got := strings.Count(out.String(), "Slide Changed! New Content Detected"); got != 2 {
		t.Fatalf("expected 2 slide banners, got %d:\n%s", got, out.String())
	}
	if !strings.Contains(out.String(), "Summary:\nsummary of Orbital mechanics and Kepler's laws") {
		t.Fatalf("missing summary in output:\n%s", out.String())
	}
	if len(sink.slides) != 2 {
		t.Fatalf("expected 2 stored slides, got %d", len(sink.slides))
	}
	first := sink.slides[0]
	if first.FrameNum != 30 || first.SessionID != "session-1" || first.Similarity != 0 || len(first.Embedding) != 3 {
		t.Fatalf("unexpected first slide: %+v", first)
	}
	if sink.slides[1].FrameNum != 90 {
		t.Fatalf("unexpected second slide frame %d", sink.slides[1].FrameNum)
	}
	if len(sum.calls) != 2 {
		t.Fatalf("expected summarizer to run only on changes, got %d calls", len(sum.calls))
	}
}

func TestWatchSkipsUnsampledAndFailedFrames(t *testing.T) {
	frames := []models.Frame{
		{Num: 30, Image: nil},
		{Num: 45, Image: numberedImage(45)},
		{Num: 60, Image: numberedImage(61)},
		{Num: 90, Image: numberedImage(90)},
	}
	engine := textByWidth(map[int]string{45: "never read", 90: "Momentum"})
	sink := &memorySink{}
	p := newTestPipeline(t, engine, &stubSummarizer{}, io.Discard, sink)
	if err := p.Watch(context.Background(), &sliceSource{frames: frames}); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if len(sink.slides) != 1 || sink.slides[0].Text != "Momentum" {
		t.Fatalf("unexpected slides: %+v", sink.slides)
	}
}

func TestAcceptKeepsGoingWhenSummaryFails(t *testing.T) {
	var out bytes.Buffer
	var seen []models.Slide
	p := newTestPipeline(t, textByWidth(nil), &stubSummarizer{err: errors.New("ollama down")}, &out, nil)
	p.cfg.OnSlide = func(s models.Slide) { seen = append(seen, s) }

	slide, err := p.Accept(context.Background(), models.FrameText{FrameNum: 30, Text: "Energy conservation"})
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if slide == nil || slide.Summary != "" {
		t.Fatalf("expected slide with empty summary, got %+v", slide)
	}
	if len(seen) != 1 {
		t.Fatalf("expected OnSlide callback, got %d", len(seen))
	}
	if !strings.Contains(out.String(), "Summary:\n\n") {
		t.Fatalf("expected empty summary block, got %q", out.String())
	}
}

func TestWatchStopsOnSourceError(t *testing.T) {
	boom := errors.New("device unplugged")
	src := sourceFunc(func() (models.Frame, error) { return models.Frame{}, boom })
	p := newTestPipeline(t, textByWidth(nil), &stubSummarizer{}, io.Discard, nil)
	if err := p.Watch(context.Background(), src); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}

type sourceFunc func() (models.Frame, error)

func (f sourceFunc) Next(ctx context.Context) (models.Frame, error) { return f() }
func (f sourceFunc) Close() error                                   { return nil }

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for empty config")
	}
	p, err := New(Config{Engine: textByWidth(nil), Summarizer: &stubSummarizer{}, Detector: NewChangeDetector(30, 0.7)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.SessionID() == "" {
		t.Fatal("expected generated session id")
	}
}

func writeShade(t *testing.T, dir, name string, shade uint8) {
	t.Helper()
	img := imaging.New(16, 16, color.NRGBA{R: shade, G: shade, B: shade, A: 255})
	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
}

func TestProcessFramesGatesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeShade(t, dir, "frame_0001.jpg", 20)
	writeShade(t, dir, "frame_0002.jpg", 20)
	writeShade(t, dir, "frame_0003.jpg", 230)
	writeShade(t, dir, "frame_0004.jpg", 20)
	if err := os.WriteFile(filepath.Join(dir, "frame_0005.jpg"), []byte("corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := ocr.EngineFunc(func(ctx context.Context, img image.Image) (ocr.Result, error) {
		r, _, _, _ := img.At(8, 8).RGBA()
		if r>>8 < 128 {
			return ocr.Result{Text: "Thermodynamics: the first law"}, nil
		}
		return ocr.Result{Text: "Entropy always increases"}, nil
	})

	sink := &memorySink{}
	p := newTestPipeline(t, engine, &stubSummarizer{}, io.Discard, sink)

	paths := []string{
		filepath.Join(dir, "frame_0001.jpg"),
		filepath.Join(dir, "frame_0002.jpg"),
		filepath.Join(dir, "frame_0003.jpg"),
		filepath.Join(dir, "frame_0004.jpg"),
		filepath.Join(dir, "frame_0005.jpg"),
	}
	err := p.ProcessFrames(context.Background(), paths, 3)
	if err == nil || !strings.Contains(err.Error(), "frame 5/5 failed") {
		t.Fatalf("expected error for the corrupt frame, got %v", err)
	}

	var got []int
	for _, s := range sink.slides {
		got = append(got, s.FrameNum)
	}
	want := []int{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("slide frames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slide frames = %v, want %v", got, want)
		}
	}
}
