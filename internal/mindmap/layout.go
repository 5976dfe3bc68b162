package mindmap

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// Point is a layout position.
type Point struct {
	X, Y float64
}

// LayoutOptions tunes SpringLayout.
type LayoutOptions struct {
	// K is the optimal distance between nodes, default 0.5.
	K          float64
	Iterations int
	Seed       uint64
}

const minDistance = 0.01

// SpringLayout positions the nodes of g with the Fruchterman-Reingold model:
// every pair repels with k²/d, every edge attracts with d²/k, and the step
// size cools linearly. Positions are centred and scaled into [-1, 1].
func SpringLayout(g *Graph, opts LayoutOptions) []Point {
	n := len(g.Nodes)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Point{{}}
	}
	if opts.K <= 0 {
		opts.K = 0.5
	}
	if opts.Iterations <= 0 {
		opts.Iterations = 50
	}
	k := opts.K

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	xs, ys := make([]float64, n), make([]float64, n)
	for i := range xs {
		xs[i], ys[i] = rng.Float64(), rng.Float64()
	}

	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for _, e := range g.Edges {
		adj[e.From][e.To] = true
		adj[e.To][e.From] = true
	}

	t := 0.1 * math.Max(floats.Max(xs)-floats.Min(xs), floats.Max(ys)-floats.Min(ys))
	dt := t / float64(opts.Iterations+1)

	dx, dy := make([]float64, n), make([]float64, n)
	for iter := 0; iter < opts.Iterations; iter++ {
		for i := 0; i < n; i++ {
			dx[i], dy[i] = 0, 0
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				ddx, ddy := xs[i]-xs[j], ys[i]-ys[j]
				d := math.Max(math.Hypot(ddx, ddy), minDistance)
				force := k * k / (d * d)
				if adj[i][j] {
					force -= d / k
				}
				dx[i] += ddx * force
				dy[i] += ddy * force
			}
		}
		for i := 0; i < n; i++ {
			length := math.Max(math.Hypot(dx[i], dy[i]), minDistance)
			xs[i] += dx[i] * t / length
			ys[i] += dy[i] * t / length
		}
		t -= dt
	}

	return rescale(xs, ys)
}

func rescale(xs, ys []float64) []Point {
	n := float64(len(xs))
	floats.AddConst(-floats.Sum(xs)/n, xs)
	floats.AddConst(-floats.Sum(ys)/n, ys)

	limit := 0.0
	for i := range xs {
		limit = math.Max(limit, math.Max(math.Abs(xs[i]), math.Abs(ys[i])))
	}
	out := make([]Point, len(xs))
	for i := range xs {
		if limit > 0 {
			out[i] = Point{X: xs[i] / limit, Y: ys[i] / limit}
		}
	}
	return out
}
