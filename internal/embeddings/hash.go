package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\w+`)

// HashBackend embeds text by hashing lower-cased words into a fixed number of
// buckets. It needs no model server and captures lexical overlap only.
type HashBackend struct {
	dims int
}

// NewHashBackend returns a backend producing vectors of length dims.
func NewHashBackend(dims int) *HashBackend {
	if dims <= 0 {
		dims = 384
	}
	return &HashBackend{dims: dims}
}

// EmbedBatch hashes each text independently.
func (b *HashBackend) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = b.embed(text)
	}
	return out, nil
}

func (b *HashBackend) embed(text string) []float32 {
	vec := make([]float32, b.dims)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		sum := h.Sum32()
		sign := float32(1)
		if sum&1 == 1 {
			sign = -1
		}
		vec[int(sum>>1)%b.dims] += sign
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
