package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gita-wisdom-query-api/internal/corpus"
	"github.com/gita-wisdom-query-api/internal/ranking"
	"github.com/gita-wisdom-query-api/pkg/generation"
)

// EmbeddingResolver obtains a query embedding. ok is false on chain
// exhaustion.
type EmbeddingResolver interface {
	Resolve(ctx context.Context, query string) (vector []float64, ok bool)
}

// Generator produces text from a grounding prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	verseNotFoundFormat = "Sorry, I couldn't find chapter %d verse %d in the Gita."
	emptyCorpusAnswer   = "I don't have any verses loaded to answer from."
	degradedHeader      = "I couldn't generate an answer right now. Here are the most relevant verses:"
)

// AnswerService answers a question from the verse corpus: exact reference
// lookup when the query names one, otherwise retrieval (embedding
// similarity, or lexical overlap when no embedding can be resolved)
// followed by grounded generation.
type AnswerService struct {
	store     *corpus.Store
	resolver  EmbeddingResolver
	generator Generator
	topK      int
	logger    *zap.Logger
}

// NewAnswerService creates a new answer service
func NewAnswerService(store *corpus.Store, resolver EmbeddingResolver, generator Generator, topK int, logger *zap.Logger) *AnswerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if topK <= 0 {
		topK = 3
	}
	return &AnswerService{
		store:     store,
		resolver:  resolver,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

// Answer answers the question. usedVerses reports whether the answer is
// grounded in corpus verses. Every query-time failure has a fallback, so
// there is no error return.
func (s *AnswerService) Answer(ctx context.Context, query string) (answer string, usedVerses bool) {
	normalized := strings.ToLower(strings.TrimSpace(query))

	if ref, ok := ParseReference(normalized); ok {
		return s.answerReference(ref), true
	}

	if s.store.Len() == 0 {
		return emptyCorpusAnswer, false
	}

	verses := s.retrieve(ctx, query, normalized)
	return s.compose(ctx, query, verses), true
}

func (s *AnswerService) answerReference(ref Reference) string {
	record, found := s.store.FindByReference(ref.Chapter, ref.Verse)
	if !found {
		return fmt.Sprintf(verseNotFoundFormat, ref.Chapter, ref.Verse)
	}
	return record.DisplayText()
}

// retrieve returns the top-k verses for the query: by cosine similarity
// when an embedding resolves, by word overlap otherwise. The two paths are
// mutually exclusive; similarity results are never blended with lexical
// ones.
func (s *AnswerService) retrieve(ctx context.Context, query, normalized string) []corpus.VerseRecord {
	k := s.topK
	if k > s.store.Len() {
		k = s.store.Len()
	}

	var scored []ranking.Scored
	if vector, ok := s.resolver.Resolve(ctx, query); ok {
		var err error
		scored, err = ranking.TopKBySimilarity(s.store.Embeddings(), vector, k)
		if err != nil {
			s.logger.Warn("similarity ranking failed, falling back to lexical ranking", zap.Error(err))
			scored = nil
		}
	}
	if scored == nil {
		scored = ranking.TopKByOverlap(s.store.DisplayTexts(), normalized, k)
	}

	verses := make([]corpus.VerseRecord, len(scored))
	for i, sc := range scored {
		verses[i] = s.store.Record(sc.Index)
	}
	return verses
}

// compose asks the generation model for a grounded answer and degrades to
// the verses verbatim when it fails
func (s *AnswerService) compose(ctx context.Context, query string, verses []corpus.VerseRecord) string {
	grounding := make([]generation.Verse, len(verses))
	for i, v := range verses {
		grounding[i] = generation.Verse{ID: v.ID, Translation: v.DisplayText()}
	}

	prompt := generation.BuildPrompt(query, grounding)
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("generation failed, returning verses verbatim", zap.Error(err))
		return degradedHeader + "\n" + generation.FormatVerses(grounding)
	}
	return answer
}
