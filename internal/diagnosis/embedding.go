package diagnosis

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// EmbeddingService turns a diagnosis summary into a vector for
// similar-case search.
type EmbeddingService interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingText flattens the searchable parts of a result into one
// string. Care text and the fun fact are deliberately excluded: two
// cases are "similar" when the plant and its problems match.
func EmbeddingText(r *Result) string {
	parts := []string{
		r.PlantName,
		r.ScientificName,
		string(r.HealthStatus),
	}
	parts = append(parts, r.Symptoms...)
	parts = append(parts, r.Causes...)
	return strings.ToLower(strings.Join(parts, " "))
}

type hashEmbedding struct {
	dim int
}

// NewHashEmbedding returns a deterministic bag-of-words embedder:
// each token hashes into one of dim buckets and the vector is
// L2-normalized. It stands in for a hosted embedding model while
// keeping similar-case search functional.
func NewHashEmbedding(dim int) EmbeddingService {
	if dim <= 0 {
		dim = 384
	}
	return &hashEmbedding{dim: dim}
}

func (h *hashEmbedding) Generate(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, h.dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		hasher := fnv.New32a()
		hasher.Write([]byte(token))
		vec[int(hasher.Sum32())%h.dim]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}
