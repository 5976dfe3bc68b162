package mindmap

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/bdougie/lecturekit/internal/models"
)

func sampleClusters() []models.Cluster {
	return []models.Cluster{
		{Name: "gravity", Keywords: []string{"gravity", "mass", "acceleration"}},
		{Name: "galileo", Keywords: []string{"galileo", "experiment"}},
		{Name: "velocity", Keywords: []string{"velocity", "mass"}},
	}
}

func TestBuild(t *testing.T) {
	g := Build("Free Fall", sampleClusters())

	wantNodes := []string{"Free Fall", "gravity", "mass", "acceleration", "galileo", "experiment", "velocity"}
	if strings.Join(g.Nodes, "|") != strings.Join(wantNodes, "|") {
		t.Fatalf("nodes = %v, want %v", g.Nodes, wantNodes)
	}
	// topic-3 clusters, gravity-2, galileo-1, velocity-1 (mass is shared)
	if len(g.Edges) != 7 {
		t.Fatalf("expected 7 edges, got %d", len(g.Edges))
	}
	if d := g.Degree(0); d != 3 {
		t.Fatalf("topic degree = %d, want 3", d)
	}
	if d := g.Degree(2); d != 2 {
		t.Fatalf("shared keyword degree = %d, want 2", d)
	}
	for _, e := range g.Edges {
		if e.From == e.To {
			t.Fatalf("self loop on %q", g.Nodes[e.From])
		}
	}
}

func TestBuildTopicAsClusterName(t *testing.T) {
	g := Build("gravity", []models.Cluster{{Name: "gravity", Keywords: []string{"gravity", "mass"}}})
	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Fatalf("expected merged topic node, got nodes %v edges %v", g.Nodes, g.Edges)
	}
}

func TestSpringLayout(t *testing.T) {
	g := Build("Free Fall", sampleClusters())
	opts := LayoutOptions{K: 0.5, Iterations: 50, Seed: 7}
	a := SpringLayout(g, opts)
	b := SpringLayout(g, opts)
	if len(a) != len(g.Nodes) {
		t.Fatalf("expected %d positions, got %d", len(g.Nodes), len(a))
	}

	limit := 0.0
	for i, p := range a {
		if p != b[i] {
			t.Fatalf("layout not deterministic for a fixed seed at node %d", i)
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Fatalf("NaN position for node %d", i)
		}
		limit = math.Max(limit, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	if math.Abs(limit-1) > 1e-9 {
		t.Fatalf("expected positions scaled to [-1, 1], max was %v", limit)
	}

	if got := SpringLayout(NewGraph("solo"), opts); len(got) != 1 || got[0] != (Point{}) {
		t.Fatalf("single node should sit at the origin, got %v", got)
	}
}

func TestRenderPNG(t *testing.T) {
	g := Build("Free Fall", sampleClusters())
	layout := SpringLayout(g, LayoutOptions{Seed: 1})

	var buf bytes.Buffer
	if err := RenderPNG(&buf, g, layout, RenderOptions{Width: 700, Height: 500}); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 700 || b.Dy() != 500 {
		t.Fatalf("unexpected size %v", b)
	}
	if got := color.RGBAModel.Convert(img.At(0, 499)).(color.RGBA); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("expected white corner, got %v", got)
	}

	if err := RenderPNG(&buf, g, layout[:2], RenderOptions{}); err == nil {
		t.Fatal("expected error for mismatched layout")
	}
}

func TestWriteDOT(t *testing.T) {
	g := Build(`Newton's "Principia"`, []models.Cluster{{Name: "laws", Keywords: []string{"laws", "motion"}}})
	var buf bytes.Buffer
	if err := WriteDOT(&buf, g); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"graph mindmap {",
		`"Newton's \"Principia\"" -- "laws";`,
		`"laws" -- "motion";`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("DOT output missing %q:\n%s", want, out)
		}
	}
}
