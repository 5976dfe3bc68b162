package mindmap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bdougie/lecturekit/internal/cluster"
	"github.com/bdougie/lecturekit/internal/embeddings"
	"github.com/bdougie/lecturekit/internal/keywords"
	"github.com/bdougie/lecturekit/internal/models"
)

// Options configures Generate.
type Options struct {
	TopN     int
	Clusters int
	Layout   LayoutOptions
}

// Result is everything Generate produced along the way.
type Result struct {
	Keywords []models.Keyword
	Clusters []models.Cluster
	Graph    *Graph
	Layout   []Point
}

// Generate extracts keywords from text, clusters them by embedding and lays
// the resulting graph out around topic.
func Generate(ctx context.Context, embedder embeddings.Embedder, text, topic string, opts Options) (*Result, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.New("mindmap: topic required")
	}
	if opts.TopN <= 0 {
		opts.TopN = 20
	}
	if opts.Clusters <= 0 {
		opts.Clusters = 3
	}

	kws, err := keywords.New(embedder).Extract(ctx, text, opts.TopN)
	if err != nil {
		return nil, err
	}
	words := keywords.Texts(kws)

	vectors, err := embedder.Embed(ctx, words)
	if err != nil {
		return nil, fmt.Errorf("embed keywords: %w", err)
	}
	points := make([][]float64, len(vectors))
	for i, v := range vectors {
		points[i] = embeddings.Float64s(v)
	}
	labels, err := cluster.Agglomerative(points, opts.Clusters)
	if err != nil {
		return nil, fmt.Errorf("cluster keywords: %w", err)
	}
	groups := cluster.Group(words, labels)

	g := Build(topic, groups)
	return &Result{
		Keywords: kws,
		Clusters: groups,
		Graph:    g,
		Layout:   SpringLayout(g, opts.Layout),
	}, nil
}
