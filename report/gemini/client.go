package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/aquaswift/aquaswift-api/env"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
)

// Client calls the Gemini generateContent endpoint
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClientFromEnv creates a new Client and parses environment variables
func NewClientFromEnv() (*Client, error) {
	apiKey, err := env.GetEnv("Gemini API key", "GEMINI_API_KEY")
	if err != nil {
		return nil, err
	}

	return NewClient(apiKey,
		env.GetEnvOrDefault("GEMINI_MODEL", defaultModel),
		env.GetEnvOrDefault("GEMINI_BASE_URL", defaultBaseURL),
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
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Name returns the model identifier used for logging
func (c *Client) Name() string {
	return "gemini/" + c.model
}

// Generate sends the prompt as a single user turn,
// asking for a JSON response, and returns the first non-empty text part
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{
			Temperature:      0.4,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", errors.Wrap(err, "encode Gemini request")
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), &buf)
	if err != nil {
		return "", errors.Wrap(err, "build Gemini request")
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-goog-api-key", c.apiKey)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", errors.Wrap(err, "call Gemini")
	}
	defer response.Body.Close()

	var decoded generateResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return "", errors.Wrapf(err, "decode Gemini response (status %d)", response.StatusCode)
	}
	if response.StatusCode >= 300 {
		if decoded.Error != nil && decoded.Error.Message != "" {
			return "", fmt.Errorf("gemini status %d: %s", response.StatusCode, decoded.Error.Message)
		}
		return "", fmt.Errorf("gemini status %d", response.StatusCode)
	}

	for _, candidate := range decoded.Candidates {
		for _, p := range candidate.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text, nil
			}
		}
	}

	return "", errors.New("gemini returned no text")
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}
