package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HuggingFaceProvider generates embeddings through the Hugging Face
// inference API's feature-extraction pipeline.
type HuggingFaceProvider struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
}

// NewHuggingFaceProvider creates a Hugging Face embedding provider. A
// missing token is reported when an embedding is requested, not here, so
// the chain can still fall through to other providers.
func NewHuggingFaceProvider(baseURL, model, token string) *HuggingFaceProvider {
	return &HuggingFaceProvider{
		baseURL: baseURL,
		model:   model,
		token:   token,
		client:  &http.Client{},
	}
}

// Name identifies the provider in logs and configuration
func (p *HuggingFaceProvider) Name() string {
	return "huggingface"
}

type huggingFaceEmbeddingRequest struct {
	Inputs []string `json:"inputs"`
}

// Embed generates an embedding for a single text
func (p *HuggingFaceProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request
func (p *HuggingFaceProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if p.token == "" {
		return nil, fmt.Errorf("HF_API_TOKEN is not set")
	}

	url := fmt.Sprintf("%s/pipeline/feature-extraction/%s", p.baseURL, p.model)

	jsonBody, err := json.Marshal(huggingFaceEmbeddingRequest{Inputs: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Hugging Face API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Hugging Face API returned status %d: %s", resp.StatusCode, string(body))
	}

	vectors, err := normalizeEmbeddingPayload(body, len(texts))
	if err != nil {
		return nil, fmt.Errorf("unexpected embedding payload: %w", err)
	}
	return vectors, nil
}

// normalizeEmbeddingPayload reduces the three payload shapes the inference
// API produces to one vector per input text:
//   - a flat vector (single input, pooled model output)
//   - a batch of vectors, one per input
//   - a token-by-dimension matrix per input, reduced to the leading token
func normalizeEmbeddingPayload(body []byte, inputs int) ([][]float64, error) {
	var flat []float64
	if err := json.Unmarshal(body, &flat); err == nil {
		if len(flat) == 0 {
			return nil, fmt.Errorf("empty vector")
		}
		return [][]float64{flat}, nil
	}

	var batch [][]float64
	if err := json.Unmarshal(body, &batch); err == nil {
		if len(batch) == 0 || len(batch[0]) == 0 {
			return nil, fmt.Errorf("empty batch")
		}
		// A single input can also decode here as a token-level matrix;
		// a row per input is only plausible when the counts agree.
		if len(batch) == inputs {
			return batch, nil
		}
		return [][]float64{batch[0]}, nil
	}

	var tokenLevel [][][]float64
	if err := json.Unmarshal(body, &tokenLevel); err == nil {
		if len(tokenLevel) == 0 {
			return nil, fmt.Errorf("empty token-level payload")
		}
		vectors := make([][]float64, len(tokenLevel))
		for i, tokens := range tokenLevel {
			if len(tokens) == 0 || len(tokens[0]) == 0 {
				return nil, fmt.Errorf("empty token-level sequence at index %d", i)
			}
			vectors[i] = tokens[0]
		}
		return vectors, nil
	}

	return nil, fmt.Errorf("payload is not a vector, a batch, or a token matrix")
}
