package embeddings

import (
	"gonum.org/v1/gonum/floats"
)

// Float64s widens a float32 vector for gonum.
func Float64s(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a zero
// vector or their lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	x, y := Float64s(a), Float64s(b)
	na, nb := floats.Norm(x, 2), floats.Norm(y, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(x, y) / (na * nb)
}

// Mean returns the element-wise mean of vectors.
func Mean(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	sum := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		floats.Add(sum, Float64s(v))
	}
	floats.Scale(1/float64(len(vectors)), sum)
	out := make([]float32, len(sum))
	for i, x := range sum {
		out[i] = float32(x)
	}
	return out
}
