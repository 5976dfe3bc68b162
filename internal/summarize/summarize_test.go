package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bdougie/lecturekit/internal/embeddings"
)

type fakeCompleter struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func hashEmbedder(t *testing.T) *embeddings.Service {
	t.Helper()
	svc := embeddings.NewService(embeddings.NewHashBackend(32), 2)
	t.Cleanup(svc.Close)
	return svc
}

const lecture = "Free fall is motion under the influence of gravity alone. " +
	"Near the surface of the Earth all objects accelerate at about 9.8 metres per second squared. " +
	"Air resistance is ignored in the ideal model of a falling body. " +
	"Galileo showed that heavy and light objects fall at the same rate. " +
	"The velocity of a falling object grows linearly with elapsed time."

func TestExtractiveRejectsEmptyText(t *testing.T) {
	s := NewExtractive(hashEmbedder(t), 40, 600)
	if _, err := s.Summarize(context.Background(), "  \n", 3); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestExtractiveReturnsShortTextWhole(t *testing.T) {
	s := NewExtractive(hashEmbedder(t), 40, 600)
	text := "Free fall is motion under the influence of gravity alone. Galileo showed that heavy and light objects fall at the same rate."
	got, err := s.Summarize(context.Background(), text, 3)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != text {
		t.Fatalf("expected the full text back, got %q", got)
	}
}

func TestExtractiveKeepsFragmentsWhenAllAreShort(t *testing.T) {
	s := NewExtractive(hashEmbedder(t), 40, 600)
	got, err := s.Summarize(context.Background(), "Newton's laws. Inertia.", 3)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.Contains(got, "Inertia") {
		t.Fatalf("expected short fragments to survive, got %q", got)
	}
}

func TestExtractivePicksFirstSentenceAndKeepsOrder(t *testing.T) {
	s := NewExtractive(hashEmbedder(t), 40, 600)
	got, err := s.Summarize(context.Background(), lecture, 3)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.HasPrefix(got, "Free fall is motion under the influence of gravity alone.") {
		t.Fatalf("expected the first sentence to lead, got %q", got)
	}

	order := []string{"Free fall is motion", "Near the surface", "Air resistance", "Galileo showed", "The velocity"}
	last, count := -1, 0
	for i, prefix := range order {
		idx := strings.Index(got, prefix)
		if idx < 0 {
			continue
		}
		count++
		if idx < last {
			t.Fatalf("sentence %d out of order in %q", i, got)
		}
		last = idx
	}
	if count < 2 || count > 3 {
		t.Fatalf("expected 2-3 sentences, got %d in %q", count, got)
	}
}

func TestExtractiveSingleSentence(t *testing.T) {
	s := NewExtractive(hashEmbedder(t), 40, 600)
	got, err := s.Summarize(context.Background(), lecture, 1)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "Free fall is motion under the influence of gravity alone." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestLLMSummarizeCleansReply(t *testing.T) {
	fc := &fakeCompleter{reply: "1. Free fall is motion under gravity.\n- Objects accelerate at 9.8.\n\n• Air resistance is ignored.\nExtra line."}
	got, err := NewLLM(fc).Summarize(context.Background(), lecture, 3)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := "Free fall is motion under gravity. Objects accelerate at 9.8. Air resistance is ignored."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !strings.Contains(fc.prompt, "3 most important sentences") || !strings.Contains(fc.prompt, "Galileo") {
		t.Fatalf("unexpected prompt %q", fc.prompt)
	}
}

func TestLLMSummarizeErrors(t *testing.T) {
	boom := errors.New("connection refused")
	if _, err := NewLLM(&fakeCompleter{err: boom}).Summarize(context.Background(), lecture, 3); !errors.Is(err, boom) {
		t.Fatalf("expected completer error, got %v", err)
	}
	if _, err := NewLLM(&fakeCompleter{reply: "  "}).Summarize(context.Background(), lecture, 3); err == nil {
		t.Fatal("expected error for empty reply")
	}
	if _, err := NewLLM(&fakeCompleter{}).Summarize(context.Background(), "", 3); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}
