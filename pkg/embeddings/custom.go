package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// CustomProvider generates embeddings through a self-hosted HTTP embedding
// service. It is the last link in the default chain, for deployments that
// run their own encoder.
type CustomProvider struct {
	serviceURL string
	client     *http.Client
}

// NewCustomProvider creates a custom HTTP embedding provider
func NewCustomProvider(serviceURL string) *CustomProvider {
	return &CustomProvider{
		serviceURL: serviceURL,
		client:     &http.Client{},
	}
}

// Name identifies the provider in logs and configuration
func (p *CustomProvider) Name() string {
	return "custom"
}

const (
	queryInstruction    = "Represent the question for retrieving relevant Gita verses: "
	documentInstruction = "Represent the Gita verse for retrieval: "
)

type customEmbeddingRequest struct {
	Text        string `json:"text"`
	Instruction string `json:"instruction"`
}

type customEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

type customBatchEmbeddingRequest struct {
	Texts       []string `json:"texts"`
	Instruction string   `json:"instruction"`
}

type customBatchEmbeddingResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Embed generates an embedding for a single query text
func (p *CustomProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	reqBody := customEmbeddingRequest{
		Text:        text,
		Instruction: queryInstruction,
	}

	var embResp customEmbeddingResponse
	if err := p.post(ctx, p.serviceURL+"/embed", reqBody, &embResp); err != nil {
		return nil, err
	}
	return embResp.Embedding, nil
}

// EmbedBatch generates embeddings for multiple document texts
func (p *CustomProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	reqBody := customBatchEmbeddingRequest{
		Texts:       texts,
		Instruction: documentInstruction,
	}

	var batchResp customBatchEmbeddingResponse
	if err := p.post(ctx, p.serviceURL+"/embed/batch", reqBody, &batchResp); err != nil {
		return nil, err
	}
	return batchResp.Embeddings, nil
}

func (p *CustomProvider) post(ctx context.Context, url string, reqBody, out interface{}) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call embedding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("embedding service error: %s", string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
