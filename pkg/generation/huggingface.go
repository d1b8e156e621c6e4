package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls a text-generation model through the Hugging Face inference
// API.
type Client struct {
	baseURL      string
	model        string
	token        string
	maxNewTokens int
	temperature  float64
	httpClient   *http.Client
}

// NewClient creates a generation client. A missing token is reported when
// generation is requested, not here; the caller degrades to verbatim
// verses either way.
func NewClient(baseURL, model, token string, maxNewTokens int, temperature float64, timeout time.Duration) *Client {
	return &Client{
		baseURL:      baseURL,
		model:        model,
		token:        token,
		maxNewTokens: maxNewTokens,
		temperature:  temperature,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type generationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
}

type generationParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
}

type generationResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Generate sends the prompt to the model and returns the generated text
// with any echoed prompt or answer label stripped. Any failure is returned
// as an error for the caller to degrade on.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.token == "" {
		return "", fmt.Errorf("HF_API_TOKEN is not set")
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)

	jsonBody, err := json.Marshal(generationRequest{
		Inputs: prompt,
		Parameters: generationParameters{
			MaxNewTokens: c.maxNewTokens,
			Temperature:  c.temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call generation API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API returned status %d: %s", resp.StatusCode, string(body))
	}

	var generated []generationResponse
	if err := json.Unmarshal(body, &generated); err != nil {
		return "", fmt.Errorf("unexpected generation payload: %w", err)
	}
	if len(generated) == 0 {
		return "", fmt.Errorf("generation payload is empty")
	}

	answer := stripPrompt(generated[0].GeneratedText, prompt)
	if answer == "" {
		return "", fmt.Errorf("generation produced no text")
	}
	return answer, nil
}

// stripPrompt removes the echoed prompt prefix instruct models return with
// their completion, plus a leading "Answer:" label if one remains
func stripPrompt(text, prompt string) string {
	text = strings.TrimSpace(text)
	if after, ok := strings.CutPrefix(text, strings.TrimSpace(prompt)); ok {
		text = strings.TrimSpace(after)
	}
	if after, ok := strings.CutPrefix(text, "Answer:"); ok {
		text = strings.TrimSpace(after)
	}
	return text
}
