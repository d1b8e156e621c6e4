// prepare builds the corpus artifacts the API serves from.
//
// It reads the raw verse export (verse.json), normalizes the mixed source
// keys to one schema, embeds every verse's display text through the
// configured embedding providers, and writes either the JSON artifact pair
// (metadata.json + embeddings.json) or a single SQLite database.
//
// Environment variables: HF_API_TOKEN and friends, see internal/config.
//
// Usage:
//   go run ./scripts/prepare -input verse.json -backend json -out data/
//   go run ./scripts/prepare -input verse.json -backend sqlite -out data/

package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gita-wisdom-query-api/internal/config"
	"github.com/gita-wisdom-query-api/internal/corpus"
	"github.com/gita-wisdom-query-api/pkg/embeddings"
)

const embedBatchSize = 32

// rawVerse mirrors the inconsistent key variants in the source export.
// Normalization happens here, once, so nothing downstream ever sees the
// alternate keys.
type rawVerse struct {
	ChapterNumber   int    `json:"chapter_number"`
	ChapterID       int    `json:"chapter_id"`
	VerseNumber     int    `json:"verse_number"`
	VerseOrder      int    `json:"verse_order"`
	Text            string `json:"text"`
	Translation     string `json:"translation"`
	Transliteration string `json:"transliteration"`
	WordMeanings    string `json:"word_meanings"`
}

func main() {
	inputPath := flag.String("input", "verse.json", "Raw verse export to process")
	backend := flag.String("backend", "json", "Artifact backend: json or sqlite")
	outDir := flag.String("out", "data", "Output directory for artifacts")
	flag.Parse()

	godotenv.Load()
	cfg := config.GetConfig()

	records, err := loadRawVerses(*inputPath)
	if err != nil {
		log.Fatalf("Failed to load raw verses: %v", err)
	}
	if len(records) == 0 {
		log.Fatalf("No verses found in %s", *inputPath)
	}
	log.Printf("Loaded %d verses from %s", len(records), *inputPath)

	ctx := context.Background()
	vectors, err := embedAll(ctx, cfg, records)
	if err != nil {
		log.Fatalf("Failed to embed verses: %v", err)
	}

	// Run the same validation the API runs at startup, before writing
	if _, err := corpus.NewStore(records, vectors); err != nil {
		log.Fatalf("Artifacts would be inconsistent: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	switch *backend {
	case "sqlite":
		path := filepath.Join(*outDir, "corpus.db")
		if err := corpus.SaveSQLite(ctx, path, records, vectors); err != nil {
			log.Fatalf("Failed to write corpus database: %v", err)
		}
		log.Printf("Wrote %s", path)
	case "json":
		metaPath := filepath.Join(*outDir, "metadata.json")
		embPath := filepath.Join(*outDir, "embeddings.json")
		if err := corpus.SaveJSON(metaPath, embPath, records, vectors); err != nil {
			log.Fatalf("Failed to write corpus artifacts: %v", err)
		}
		log.Printf("Wrote %s and %s", metaPath, embPath)
	default:
		log.Fatalf("Unknown backend %q (use json or sqlite)", *backend)
	}

	log.Printf("Done: %d verses, dimension %d", len(records), len(vectors[0]))
}

func loadRawVerses(path string) ([]corpus.VerseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []rawVerse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	records := make([]corpus.VerseRecord, len(raw))
	for i, v := range raw {
		records[i] = v.normalize()
	}
	return records, nil
}

// normalize canonicalizes the mixed-key source schema to a VerseRecord
func (v rawVerse) normalize() corpus.VerseRecord {
	chapter := v.ChapterNumber
	if chapter == 0 {
		chapter = v.ChapterID
	}
	verse := v.VerseNumber
	if verse == 0 {
		verse = v.VerseOrder
	}
	translation := v.Translation
	if translation == "" {
		translation = v.Text
	}

	return corpus.VerseRecord{
		ID:              corpus.ReferenceID(chapter, verse),
		Chapter:         chapter,
		Verse:           verse,
		Text:            v.Text,
		Translation:     translation,
		Transliteration: v.Transliteration,
		WordMeanings:    v.WordMeanings,
	}
}

// embedAll embeds every verse's display text in batches through the first
// provider that serves each batch
func embedAll(ctx context.Context, cfg *config.Config, records []corpus.VerseRecord) ([][]float64, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	var providers []embeddings.Provider
	for _, name := range cfg.EmbeddingProviders {
		switch name {
		case "huggingface":
			providers = append(providers,
				embeddings.NewHuggingFaceProvider(cfg.HFAPIURL, cfg.EmbeddingModel, cfg.HFAPIToken))
		case "vertex":
			vertex, err := embeddings.NewVertexProvider(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.VertexModel)
			if err != nil {
				log.Printf("Skipping vertex provider: %v", err)
				continue
			}
			defer vertex.Close()
			providers = append(providers, vertex)
		case "custom":
			providers = append(providers,
				embeddings.NewCustomProvider(cfg.EmbeddingServiceURL))
		}
	}

	chain := embeddings.NewChain(providers,
		time.Duration(cfg.EmbeddingTimeoutSeconds)*time.Second, logger)

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.DisplayText()
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := chain.ResolveBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
		log.Printf("Embedded %d/%d verses", end, len(texts))
	}

	return vectors, nil
}
