// Package cluster groups embedding vectors bottom-up with Ward linkage.
package cluster

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/bdougie/lecturekit/internal/models"
)

// ErrDimensionMismatch is returned when vectors differ in length.
var ErrDimensionMismatch = errors.New("cluster: vectors differ in length")

// Agglomerative merges vectors pairwise until n clusters remain, always
// joining the pair whose merge least increases the within-cluster variance.
// n is clamped to [1, len(vectors)]. Labels are numbered by first appearance,
// so vectors[0] is always in cluster 0.
func Agglomerative(vectors [][]float64, n int) ([]int, error) {
	size := len(vectors)
	if size == 0 {
		return nil, nil
	}
	for _, v := range vectors[1:] {
		if len(v) != len(vectors[0]) {
			return nil, ErrDimensionMismatch
		}
	}
	n = max(1, min(n, size))

	// squared distances; Lance-Williams keeps Ward updates exact on these
	dist := make([][]float64, size)
	for i := range dist {
		dist[i] = make([]float64, size)
		for j := 0; j < i; j++ {
			d := floats.Distance(vectors[i], vectors[j], 2)
			dist[i][j] = d * d
			dist[j][i] = d * d
		}
	}

	members := make([][]int, size)
	active := make([]bool, size)
	for i := range members {
		members[i] = []int{i}
		active[i] = true
	}

	for clusters := size; clusters > n; clusters-- {
		a, b := -1, -1
		for i := 0; i < size; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < size; j++ {
				if active[j] && (a < 0 || dist[i][j] < dist[a][b]) {
					a, b = i, j
				}
			}
		}

		na, nb := float64(len(members[a])), float64(len(members[b]))
		for k := 0; k < size; k++ {
			if !active[k] || k == a || k == b {
				continue
			}
			nk := float64(len(members[k]))
			d := ((na+nk)*dist[a][k] + (nb+nk)*dist[b][k] - nk*dist[a][b]) / (na + nb + nk)
			dist[a][k] = d
			dist[k][a] = d
		}
		members[a] = append(members[a], members[b]...)
		members[b] = nil
		active[b] = false
	}

	raw := make([]int, size)
	for id, group := range members {
		for _, idx := range group {
			raw[idx] = id
		}
	}
	return relabel(raw), nil
}

func relabel(raw []int) []int {
	ids := make(map[int]int)
	out := make([]int, len(raw))
	for i, r := range raw {
		id, ok := ids[r]
		if !ok {
			id = len(ids)
			ids[r] = id
		}
		out[i] = id
	}
	return out
}

// Group collects keywords by label. Clusters come out in order of first
// appearance and each is named after its first keyword.
func Group(keywords []string, labels []int) []models.Cluster {
	index := make(map[int]int)
	var out []models.Cluster
	for i, kw := range keywords {
		if i >= len(labels) {
			break
		}
		pos, ok := index[labels[i]]
		if !ok {
			pos = len(out)
			index[labels[i]] = pos
			out = append(out, models.Cluster{Name: kw})
		}
		out[pos].Keywords = append(out[pos].Keywords, kw)
	}
	return out
}
