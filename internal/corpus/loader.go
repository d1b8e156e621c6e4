package corpus

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadJSON builds a store from the JSON artifact pair produced by the
// prepare script: an ordered metadata array and a dense embedding matrix
// with matching row order.
func LoadJSON(metadataPath, embeddingsPath string) (*Store, error) {
	metaBytes, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("read metadata artifact: %w", err)
	}

	var records []VerseRecord
	if err := json.Unmarshal(metaBytes, &records); err != nil {
		return nil, fmt.Errorf("parse metadata artifact %s: %w", metadataPath, err)
	}

	embBytes, err := os.ReadFile(embeddingsPath)
	if err != nil {
		return nil, fmt.Errorf("read embeddings artifact: %w", err)
	}

	var embeddings [][]float64
	if err := json.Unmarshal(embBytes, &embeddings); err != nil {
		return nil, fmt.Errorf("parse embeddings artifact %s: %w", embeddingsPath, err)
	}

	store, err := NewStore(records, embeddings)
	if err != nil {
		return nil, fmt.Errorf("validate corpus artifacts: %w", err)
	}
	return store, nil
}

// SaveJSON writes the JSON artifact pair. Used by the prepare script.
func SaveJSON(metadataPath, embeddingsPath string, records []VerseRecord, embeddings [][]float64) error {
	metaBytes, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(metadataPath, metaBytes, 0o644); err != nil {
		return fmt.Errorf("write metadata artifact: %w", err)
	}

	embBytes, err := json.Marshal(embeddings)
	if err != nil {
		return fmt.Errorf("encode embeddings: %w", err)
	}
	if err := os.WriteFile(embeddingsPath, embBytes, 0o644); err != nil {
		return fmt.Errorf("write embeddings artifact: %w", err)
	}
	return nil
}
