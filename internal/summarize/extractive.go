package summarize

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/bdougie/lecturekit/internal/embeddings"
	"github.com/bdougie/lecturekit/internal/nlp"
)

// Extractive picks representative sentences by clustering sentence
// embeddings and taking the sentence nearest each centroid. The first
// sentence is always part of the summary.
type Extractive struct {
	embedder  embeddings.Embedder
	minLength int
	maxLength int
}

// NewExtractive builds an extractive summarizer. Sentences shorter than
// minLength or longer than maxLength characters are ignored unless nothing
// else is left.
func NewExtractive(embedder embeddings.Embedder, minLength, maxLength int) *Extractive {
	return &Extractive{embedder: embedder, minLength: minLength, maxLength: maxLength}
}

// Summarize returns up to numSentences sentences of text in their original order.
func (s *Extractive) Summarize(ctx context.Context, text string, numSentences int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	if numSentences <= 0 {
		return "", fmt.Errorf("summarize: sentence count must be positive, got %d", numSentences)
	}

	all, err := nlp.SplitSentences(text)
	if err != nil {
		return "", err
	}
	sentences := s.filter(all)
	if len(sentences) == 0 {
		// slide text is often bullet fragments; keep them rather than returning nothing
		sentences = all
	}
	if len(sentences) <= numSentences {
		return strings.Join(sentences, " "), nil
	}
	if numSentences == 1 {
		return sentences[0], nil
	}

	vectors, err := s.embedder.Embed(ctx, sentences[1:])
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	picked, err := centroidSentences(vectors, numSentences-1)
	if err != nil {
		return "", err
	}

	chosen := []string{sentences[0]}
	for _, idx := range picked {
		chosen = append(chosen, sentences[idx+1])
	}
	return strings.Join(chosen, " "), nil
}

func (s *Extractive) filter(sentences []string) []string {
	var out []string
	for _, sent := range sentences {
		n := utf8.RuneCountInString(sent)
		if n < s.minLength || (s.maxLength > 0 && n > s.maxLength) {
			continue
		}
		out = append(out, sent)
	}
	return out
}

type sentencePoint struct {
	idx    int
	coords clusters.Coordinates
}

func (p sentencePoint) Coordinates() clusters.Coordinates { return p.coords }

func (p sentencePoint) Distance(c clusters.Coordinates) float64 { return p.coords.Distance(c) }

// centroidSentences partitions vectors into k clusters and returns the sorted
// indices of the member nearest each cluster centre.
func centroidSentences(vectors [][]float32, k int) ([]int, error) {
	var dataset clusters.Observations
	for i, v := range vectors {
		dataset = append(dataset, sentencePoint{idx: i, coords: embeddings.Float64s(v)})
	}

	km := kmeans.New()
	parts, err := km.Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("summarize: cluster sentences: %w", err)
	}

	seen := make(map[int]bool, k)
	var picked []int
	for _, c := range parts {
		best, bestDist := -1, 0.0
		for _, obs := range c.Observations {
			p := obs.(sentencePoint)
			d := p.Distance(c.Center)
			if best < 0 || d < bestDist {
				best, bestDist = p.idx, d
			}
		}
		if best >= 0 && !seen[best] {
			seen[best] = true
			picked = append(picked, best)
		}
	}
	sort.Ints(picked)
	return picked, nil
}
