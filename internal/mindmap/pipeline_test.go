package mindmap

import (
	"context"
	"errors"
	"testing"

	"github.com/bdougie/lecturekit/internal/embeddings"
	"github.com/bdougie/lecturekit/internal/keywords"
)

const freeFall = `Free fall is the motion of a body where gravity is the only force acting upon it.
Galileo dropped spheres from a tower to show that mass does not change the acceleration.
Near the surface of the Earth the acceleration of gravity is about 9.8 metres per second squared.
Air resistance slows feathers and parachutes, so real objects reach a terminal velocity.`

func TestGenerate(t *testing.T) {
	svc := embeddings.NewService(embeddings.NewHashBackend(64), 2)
	defer svc.Close()

	res, err := Generate(context.Background(), svc, freeFall, "Free Fall", Options{
		TopN:     8,
		Clusters: 3,
		Layout:   LayoutOptions{Seed: 3},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Keywords) != 8 {
		t.Fatalf("expected 8 keywords, got %d", len(res.Keywords))
	}
	if len(res.Clusters) != 3 {
		t.Fatalf("expected 3 clusters, got %d", len(res.Clusters))
	}

	total := 0
	for _, c := range res.Clusters {
		if c.Name != c.Keywords[0] {
			t.Fatalf("cluster %q not named after its first keyword", c.Name)
		}
		total += len(c.Keywords)
	}
	if total != len(res.Keywords) {
		t.Fatalf("clusters hold %d keywords, want %d", total, len(res.Keywords))
	}
	if res.Graph.Nodes[0] != "Free Fall" || res.Graph.Degree(0) != 3 {
		t.Fatalf("topic should link to the 3 cluster names: %v", res.Graph.Nodes)
	}
	if len(res.Layout) != len(res.Graph.Nodes) {
		t.Fatalf("layout has %d points for %d nodes", len(res.Layout), len(res.Graph.Nodes))
	}
}

func TestGenerateErrors(t *testing.T) {
	svc := embeddings.NewService(embeddings.NewHashBackend(16), 1)
	defer svc.Close()

	if _, err := Generate(context.Background(), svc, freeFall, "  ", Options{}); err == nil {
		t.Fatal("expected error for a blank topic")
	}
	if _, err := Generate(context.Background(), svc, "the of and", "Physics", Options{}); !errors.Is(err, keywords.ErrNoKeywords) {
		t.Fatalf("expected ErrNoKeywords, got %v", err)
	}
}
