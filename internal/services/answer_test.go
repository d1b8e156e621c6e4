package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gita-wisdom-query-api/internal/corpus"
)

type stubResolver struct {
	vector []float64
	ok     bool
	calls  int
}

func (r *stubResolver) Resolve(ctx context.Context, query string) ([]float64, bool) {
	r.calls++
	return r.vector, r.ok
}

type stubGenerator struct {
	answer string
	err    error
	prompt string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func testStore(t *testing.T) *corpus.Store {
	t.Helper()
	store, err := corpus.NewStore(
		[]corpus.VerseRecord{
			{ID: "1.1", Chapter: 1, Verse: 1, Text: "x", Translation: "On the field of dharma they assembled"},
			{ID: "2.47", Chapter: 2, Verse: 47, Text: "y", Translation: "You have the right to action alone, never to its fruits"},
			{ID: "3.19", Chapter: 3, Verse: 19, Text: "z", Translation: "Perform your duty with detached action"},
		},
		[][]float64{
			{1, 0},
			{0, 1},
			{0.7, 0.7},
		},
	)
	require.NoError(t, err)
	return store
}

func TestAnswerExactReferenceBypassesRanking(t *testing.T) {
	resolver := &stubResolver{}
	generator := &stubGenerator{answer: "should not be used"}
	svc := NewAnswerService(testStore(t), resolver, generator, 3, nil)

	answer, usedVerses := svc.Answer(context.Background(), "What does chapter 2 verse 47 say?")

	assert.True(t, usedVerses)
	assert.Equal(t, "You have the right to action alone, never to its fruits", answer)
	assert.Equal(t, 0, resolver.calls, "exact reference must skip embedding resolution")
	assert.Empty(t, generator.prompt, "exact reference must skip generation")
}

func TestAnswerExactReferenceNotFound(t *testing.T) {
	svc := NewAnswerService(testStore(t), &stubResolver{}, &stubGenerator{}, 3, nil)

	answer, usedVerses := svc.Answer(context.Background(), "chapter 99 verse 1")

	assert.True(t, usedVerses)
	assert.Contains(t, answer, "99")
	assert.Contains(t, answer, "1")
	assert.Contains(t, answer, "couldn't find")
}

func TestAnswerSimilarityPath(t *testing.T) {
	resolver := &stubResolver{vector: []float64{0, 1}, ok: true}
	generator := &stubGenerator{answer: "Detachment is the heart of action."}
	svc := NewAnswerService(testStore(t), resolver, generator, 2, nil)

	answer, usedVerses := svc.Answer(context.Background(), "what does the gita say about results?")

	assert.True(t, usedVerses)
	assert.Equal(t, "Detachment is the heart of action.", answer)
	// Closest vector to (0,1) is record 2.47, then 3.19
	assert.Contains(t, generator.prompt, "2.47: You have the right to action alone")
	assert.Contains(t, generator.prompt, "3.19:")
	assert.NotContains(t, generator.prompt, "1.1:")
}

func TestAnswerLexicalFallbackOnChainExhaustion(t *testing.T) {
	resolver := &stubResolver{ok: false}
	generator := &stubGenerator{answer: "Grounded answer."}
	svc := NewAnswerService(testStore(t), resolver, generator, 1, nil)

	answer, usedVerses := svc.Answer(context.Background(), "duty action")

	assert.True(t, usedVerses)
	assert.Equal(t, "Grounded answer.", answer)
	assert.Equal(t, 1, resolver.calls)
	// Lexical overlap ranks 3.19 ("duty", "action") first
	assert.Contains(t, generator.prompt, "3.19:")
}

func TestAnswerDimensionMismatchFallsBackToLexical(t *testing.T) {
	resolver := &stubResolver{vector: []float64{1, 0, 0, 0}, ok: true}
	generator := &stubGenerator{answer: "ok"}
	svc := NewAnswerService(testStore(t), resolver, generator, 1, nil)

	answer, usedVerses := svc.Answer(context.Background(), "duty action")

	assert.True(t, usedVerses)
	assert.Equal(t, "ok", answer)
	assert.Contains(t, generator.prompt, "3.19:")
}

func TestAnswerGenerationFailureDegradesToVerses(t *testing.T) {
	resolver := &stubResolver{vector: []float64{0, 1}, ok: true}
	generator := &stubGenerator{err: fmt.Errorf("status 503")}
	svc := NewAnswerService(testStore(t), resolver, generator, 2, nil)

	answer, usedVerses := svc.Answer(context.Background(), "what about results?")

	assert.True(t, usedVerses)
	assert.NotEmpty(t, answer)
	assert.Contains(t, answer, "2.47: You have the right to action alone")
	assert.Contains(t, answer, "couldn't generate")
}

func TestAnswerEmptyCorpus(t *testing.T) {
	store, err := corpus.NewStore(nil, nil)
	require.NoError(t, err)
	svc := NewAnswerService(store, &stubResolver{}, &stubGenerator{}, 3, nil)

	answer, usedVerses := svc.Answer(context.Background(), "anything")

	assert.False(t, usedVerses)
	assert.NotEmpty(t, answer)
}

func TestAnswerClampsTopKToCorpusSize(t *testing.T) {
	resolver := &stubResolver{vector: []float64{1, 0}, ok: true}
	generator := &stubGenerator{answer: "ok"}
	svc := NewAnswerService(testStore(t), resolver, generator, 50, nil)

	_, usedVerses := svc.Answer(context.Background(), "anything at all")
	assert.True(t, usedVerses)
}

func TestParseReference(t *testing.T) {
	ref, ok := ParseReference("what does chapter 2 verse 47 say?")
	require.True(t, ok)
	assert.Equal(t, Reference{Chapter: 2, Verse: 47}, ref)

	ref, ok = ParseReference("CHAPTER 12 VERSE 8")
	require.True(t, ok)
	assert.Equal(t, Reference{Chapter: 12, Verse: 8}, ref)

	_, ok = ParseReference("tell me about duty")
	assert.False(t, ok)

	_, ok = ParseReference("chapter verse")
	assert.False(t, ok)

	_, ok = ParseReference("chapter 0 verse 1")
	assert.False(t, ok)
}
