// Package ai integrates with an external chat-completion provider.
//
// The HTTP shape follows the OpenAI chat completions API, which several
// hosted providers implement verbatim, so the base URL is configurable.
// Every failure mode collapses into a single wrapped error so callers and
// clients see one uniform message regardless of whether the transport, the
// provider, or the response shape misbehaved.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Provider produces an assistant reply for a single user message.
type Provider interface {
	Complete(ctx context.Context, message string) (string, error)
}

// DefaultBaseURL is the hosted OpenAI endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// systemPrompt frames every relayed conversation.
const systemPrompt = "You are a helpful assistant supporting medical consultations. Answer clearly and concisely."

// OpenAIClient is an http Provider speaking the chat completions protocol.
type OpenAIClient struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client
}

// NewOpenAIClient builds a client with sane transport defaults.
func NewOpenAIClient(apiKey, model string, temperature float64, maxTokens int) *OpenAIClient {
	return &OpenAIClient{
		BaseURL:     DefaultBaseURL,
		APIKey:      apiKey,
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// wrap collapses any failure into the uniform relay error.
func wrap(err error) error {
	return fmt.Errorf("Error communicating with OpenAI: %w", err)
}

// Complete sends one user message and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, message string) (string, error) {
	payload := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", wrap(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", wrap(err)
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", wrap(fmt.Errorf("unexpected response: %s", truncate(raw, 200)))
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != nil && out.Error.Message != "" {
			return "", wrap(fmt.Errorf("provider returned %d: %s", resp.StatusCode, out.Error.Message))
		}
		return "", wrap(fmt.Errorf("provider returned %d", resp.StatusCode))
	}
	if len(out.Choices) == 0 {
		return "", wrap(fmt.Errorf("provider returned no choices"))
	}
	return out.Choices[0].Message.Content, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
