package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopKByOverlapScoresRelevantAboveUnrelated(t *testing.T) {
	texts := []string{
		"the fruits of labor belong to no one",
		"perform your duty with action and detachment",
		"meditation brings peace to the restless mind",
	}

	results := TopKByOverlap(texts, "duty action", 3)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Index)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestTopKByOverlapPartialMatch(t *testing.T) {
	texts := []string{"duty is sacred"}

	results := TopKByOverlap(texts, "duty action", 1)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.5, results[0].Score, 1e-9)
}

func TestTopKByOverlapNoMatchesStillReturnsK(t *testing.T) {
	texts := []string{"alpha", "beta", "gamma", "delta"}

	results := TopKByOverlap(texts, "unrelated words entirely", 2)
	require.Len(t, results, 2)
	// Degenerate corpus-order fill with zero scores
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 1, results[1].Index)
	assert.Equal(t, 0.0, results[0].Score)
	assert.Equal(t, 0.0, results[1].Score)
}

func TestTopKByOverlapEmptyQuery(t *testing.T) {
	texts := []string{"alpha", "beta"}

	results := TopKByOverlap(texts, "   ", 2)
	require.Len(t, results, 2)
	assert.Equal(t, 0.0, results[0].Score)
}

func TestTopKByOverlapCaseInsensitive(t *testing.T) {
	texts := []string{"Duty And Action"}

	results := TopKByOverlap(texts, "duty action", 1)
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Score)
}
