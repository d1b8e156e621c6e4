package ranking

import (
	"strings"
)

// TopKByOverlap scores every text by word overlap with the query and
// returns the k best indices, score descending, ties broken by corpus
// order. Scores are |query words ∩ text words| / |query words| in [0, 1].
// With no overlap anywhere the first k records in corpus order come back
// with score 0; a non-empty corpus never produces an empty result.
func TopKByOverlap(texts []string, query string, k int) []Scored {
	queryWords := wordSet(query)

	scored := make([]Scored, len(texts))
	for i, text := range texts {
		scored[i] = Scored{Index: i, Score: overlapScore(queryWords, wordSet(text))}
	}

	return topK(scored, k)
}

func overlapScore(query, text map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}

	matched := 0
	for w := range query {
		if _, ok := text[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(query))
}

// wordSet lowercases and splits on whitespace
func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
