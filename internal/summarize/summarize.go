// Package summarize condenses slide text into a few key sentences.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bdougie/lecturekit/internal/llm"
)

// ErrEmptyInput is returned when there is no text to summarize.
var ErrEmptyInput = errors.New("summarize: empty input")

// Summarizer reduces text to at most numSentences sentences.
type Summarizer interface {
	Summarize(ctx context.Context, text string, numSentences int) (string, error)
}

const llmPrompt = `Pick the %d most important sentences from the slide text below.
Copy them verbatim, one per line, in their original order. Do not add anything else.

Slide text:
%s`

// LLM asks a chat model for the key sentences.
type LLM struct {
	completer llm.Completer
}

// NewLLM wraps a completer.
func NewLLM(completer llm.Completer) *LLM {
	return &LLM{completer: completer}
}

// Summarize prompts the model and returns its reply joined into one paragraph.
func (s *LLM) Summarize(ctx context.Context, text string, numSentences int) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyInput
	}
	if numSentences <= 0 {
		return "", fmt.Errorf("summarize: sentence count must be positive, got %d", numSentences)
	}
	reply, err := s.completer.Complete(ctx, fmt.Sprintf(llmPrompt, numSentences, text))
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•0123456789.)"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", errors.New("summarize: model returned no sentences")
	}
	if len(lines) > numSentences {
		lines = lines[:numSentences]
	}
	return strings.Join(lines, " "), nil
}
