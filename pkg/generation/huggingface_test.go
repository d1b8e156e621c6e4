package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(url, "test-model", "token", 200, 0.7, 5*time.Second)
}

func TestGenerateStripsEchoedPrompt(t *testing.T) {
	prompt := BuildPrompt("What is duty?", []Verse{{ID: "2.47", Translation: "You have the right to action alone"}})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		body := `[{"generated_text": ` + jsonString(prompt+" Duty means acting without attachment.") + `}]`
		w.Write([]byte(body))
	}))
	defer server.Close()

	answer, err := newTestClient(server.URL).Generate(context.Background(), prompt)
	require.NoError(t, err)
	assert.Equal(t, "Duty means acting without attachment.", answer)
}

func TestGenerateStripsAnswerLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text": "Answer: Act without attachment."}]`))
	}))
	defer server.Close()

	answer, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Act without attachment.", answer)
}

func TestGenerateNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGenerateMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generated_text": "not a list"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestGenerateEmptyTextIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text": "  "}]`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestGenerateMissingToken(t *testing.T) {
	c := NewClient("http://unused", "test-model", "", 200, 0.7, time.Second)

	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HF_API_TOKEN")
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("What is duty?", []Verse{
		{ID: "2.47", Translation: "You have the right to action alone"},
		{ID: "3.19", Translation: "Perform your duty without attachment"},
	})

	assert.Contains(t, prompt, "2.47: You have the right to action alone")
	assert.Contains(t, prompt, "3.19: Perform your duty without attachment")
	assert.Contains(t, prompt, "Question: What is duty?")
	assert.Contains(t, prompt, "Answer concisely")
}

func TestFormatVerses(t *testing.T) {
	out := FormatVerses([]Verse{
		{ID: "2.47", Translation: "a"},
		{ID: "3.19", Translation: "b"},
	})
	assert.Equal(t, "2.47: a\n3.19: b", out)
}

// jsonString encodes s as a JSON string literal for handler bodies
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
