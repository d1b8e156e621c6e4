package embeddings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuggingFaceEmbedFlatVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pipeline/feature-extraction/test-model", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Write([]byte(`[0.1, 0.2, 0.3]`))
	}))
	defer server.Close()

	p := NewHuggingFaceProvider(server.URL, "test-model", "token")

	vector, err := p.Embed(context.Background(), "what is duty?")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vector)
}

func TestHuggingFaceEmbedBatchPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[0.1, 0.2], [0.3, 0.4]]`))
	}))
	defer server.Close()

	p := NewHuggingFaceProvider(server.URL, "test-model", "token")

	// Single input: a 2x2 payload is a token matrix, reduce to the first token
	vector, err := p.Embed(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, vector)

	// Two inputs: the same payload is one row per input
	vectors, err := p.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.1, 0.2}, {0.3, 0.4}}, vectors)
}

func TestHuggingFaceEmbedTokenLevelPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[[0.5, 0.6], [0.7, 0.8]]]`))
	}))
	defer server.Close()

	p := NewHuggingFaceProvider(server.URL, "test-model", "token")

	vector, err := p.Embed(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.6}, vector, "token-level payload reduces to the leading token vector")
}

func TestHuggingFaceEmbedNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := NewHuggingFaceProvider(server.URL, "test-model", "token")

	_, err := p.Embed(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHuggingFaceEmbedMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "oops"}`))
	}))
	defer server.Close()

	p := NewHuggingFaceProvider(server.URL, "test-model", "token")

	_, err := p.Embed(context.Background(), "q")
	assert.Error(t, err)
}

func TestHuggingFaceMissingTokenFailsAtPointOfUse(t *testing.T) {
	p := NewHuggingFaceProvider("http://unused", "test-model", "")

	_, err := p.Embed(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HF_API_TOKEN")
}
