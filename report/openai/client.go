package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/aquaswift/aquaswift-api/env"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	systemPrompt   = "You are a water purification assistant that only responds with valid JSON."
)

// Client calls an OpenAI-compatible chat completions endpoint
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClientFromEnv creates a new Client and parses environment variables
func NewClientFromEnv() (*Client, error) {
	apiKey, err := env.GetEnv("OpenAI API key", "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	return NewClient(apiKey,
		env.GetEnvOrDefault("OPENAI_MODEL", defaultModel),
		env.GetEnvOrDefault("OPENAI_BASE_URL", defaultBaseURL),
		&http.Client{}), nil
}

// NewClient creates a Client against the given endpoint
func NewClient(apiKey string, model string, baseURL string, httpClient *http.Client) *Client {
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Name returns the model identifier used for logging
func (c *Client) Name() string {
	return "openai/" + c.model
}

// Generate sends the prompt in JSON mode and returns the first choice
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model:          c.model,
		Temperature:    0.4,
		ResponseFormat: &responseFormat{Type: "json_object"},
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", errors.Wrap(err, "encode OpenAI request")
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", errors.Wrap(err, "build OpenAI request")
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.apiKey)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", errors.Wrap(err, "call OpenAI")
	}
	defer response.Body.Close()

	var decoded chatResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return "", errors.Wrapf(err, "decode OpenAI response (status %d)", response.StatusCode)
	}
	if response.StatusCode >= 300 {
		if decoded.Error != nil && decoded.Error.Message != "" {
			return "", fmt.Errorf("openai status %d: %s", response.StatusCode, decoded.Error.Message)
		}
		return "", fmt.Errorf("openai status %d", response.StatusCode)
	}

	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return "", errors.New("openai returned no content")
	}
	return decoded.Choices[0].Message.Content, nil
}
