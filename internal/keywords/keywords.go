// Package keywords ranks the words of a document by how close their
// embedding sits to the embedding of the whole document.
package keywords

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/bdougie/lecturekit/internal/embeddings"
	"github.com/bdougie/lecturekit/internal/models"
)

// ErrNoKeywords is returned when the text has no candidate words left after
// stop-word removal.
var ErrNoKeywords = errors.New("keywords: no candidate words")

//go:embed stopwords.txt
var stopWordList string

var stopWords = func() map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(stopWordList) {
		out[w] = true
	}
	return out
}()

// words of two or more letters, digits or underscores
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// IsStopWord reports whether w is an English stop word.
func IsStopWord(w string) bool { return stopWords[strings.ToLower(w)] }

// Candidates returns the unique lower-cased non-stop-words of text in order
// of first appearance.
func Candidates(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if stopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// Extractor scores candidate words against their document.
type Extractor struct {
	embedder embeddings.Embedder
}

// New returns an Extractor backed by embedder.
func New(embedder embeddings.Embedder) *Extractor {
	return &Extractor{embedder: embedder}
}

// Extract returns up to topN keywords of text, most relevant first. Scores
// are cosine similarities rounded to four decimals; equal scores keep the
// order in which the words first appear.
func (e *Extractor) Extract(ctx context.Context, text string, topN int) ([]models.Keyword, error) {
	candidates := Candidates(text)
	if len(candidates) == 0 {
		return nil, ErrNoKeywords
	}
	if topN <= 0 {
		topN = 20
	}

	inputs := append([]string{text}, candidates...)
	vectors, err := e.embedder.Embed(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}
	if len(vectors) != len(inputs) {
		return nil, fmt.Errorf("embed candidates: got %d vectors for %d inputs", len(vectors), len(inputs))
	}

	doc := vectors[0]
	out := make([]models.Keyword, len(candidates))
	for i, word := range candidates {
		score := embeddings.Cosine(doc, vectors[i+1])
		out[i] = models.Keyword{Text: word, Score: math.Round(score*1e4) / 1e4}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

// Texts returns the words of kws.
func Texts(kws []models.Keyword) []string {
	out := make([]string, len(kws))
	for i, kw := range kws {
		out[i] = kw.Text
	}
	return out
}
