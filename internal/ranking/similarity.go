// Package ranking scores corpus records against a query, either by cosine
// similarity over embedding vectors or by lexical word overlap when no
// query embedding is available.
package ranking

import (
	"fmt"
	"math"
	"sort"
)

// Scored pairs a corpus index with its relevance score
type Scored struct {
	Index int
	Score float64
}

// minSimilarity is the score assigned when cosine similarity is undefined
// (a zero-norm vector on either side).
const minSimilarity = -1.0

// CosineSimilarity returns the normalized dot product of two vectors in
// [-1, 1]. A zero-norm vector on either side scores minSimilarity instead
// of producing a division by zero.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d != %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return minSimilarity, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// TopKBySimilarity scores the query vector against every corpus embedding
// and returns the k best indices, score descending, ties broken by corpus
// order. k is clamped to the corpus size. A query whose dimension does not
// match the corpus is an error; the caller decides the fallback.
func TopKBySimilarity(embeddings [][]float64, query []float64, k int) ([]Scored, error) {
	if len(embeddings) > 0 && len(query) != len(embeddings[0]) {
		return nil, fmt.Errorf("query dimension %d does not match corpus dimension %d", len(query), len(embeddings[0]))
	}

	scored := make([]Scored, len(embeddings))
	for i, emb := range embeddings {
		sim, err := CosineSimilarity(query, emb)
		if err != nil {
			return nil, fmt.Errorf("score record %d: %w", i, err)
		}
		scored[i] = Scored{Index: i, Score: sim}
	}

	return topK(scored, k), nil
}

// topK sorts stably by score descending and truncates to k, clamped to the
// slice length
func topK(scored []Scored, k int) []Scored {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k < 0 {
		k = 0
	}
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}
