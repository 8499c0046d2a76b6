package mistral_provider

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

const defaultBaseURL = "https://api.mistral.ai"

// errorBodyLimit caps how much of an upstream failure body gets embedded
// into the visible error marker.
const errorBodyLimit = 4096

const systemPrompt = "You are a helpful assistant. Answer the question based only on the provided text."

// Client implements the provider interface using Mistral's chat API
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents a request to the Mistral chat completions API
type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// response represents a response from the Mistral API
type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// APIError is a non-200 response from the Mistral API. It renders as the
// well-known "[Mistral API Error]" marker so the failure stays visible in
// an otherwise successful pipeline response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mistral api returned status %d: %s", e.Status, e.Body)
}

// Marker renders the failure as answer text. The literal prefix is part of
// the external contract; downstream consumers parse it.
func (e *APIError) Marker() string {
	return strings.TrimSpace(fmt.Sprintf("[Mistral API Error] %d %s", e.Status, e.Body))
}

// NewClient creates a new Mistral client
func NewClient(apiKey, baseURL, model string, temperature float64, maxTokens int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Answer sends one chat completion request: a fixed system instruction and
// a user message composed of the question plus the retrieved context.
func (c *Client) Answer(ctx context.Context, question string, grounding string) (string, error) {
	prompt := fmt.Sprintf("Answer the question: %s\n\nHere is the information found:\n%s", question, grounding)
	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}
	return c.sendRequest(ctx, messages)
}

// sendRequest sends a request to the Mistral API
func (c *Client) sendRequest(ctx context.Context, messages []Message) (string, error) {
	requestBody := request{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return "", &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var mistralResp response
	if err := json.NewDecoder(resp.Body).Decode(&mistralResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(mistralResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return mistralResp.Choices[0].Message.Content, nil
}
