package imgbb

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/aquaswift/aquaswift-api/env"
	"github.com/aquaswift/aquaswift-api/upload"
)

const (
	providerName   = "imgbb"
	defaultBaseURL = "https://api.imgbb.com/1/upload"
)

// Provider implements an upload provider against the ImgBB API
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// uploadResponse covers both the success and the error shapes
// returned by the API
type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	StatusTxt string `json:"status_txt"`
}

// NewProvider creates a new instance of a Provider
// and parses environment variables
func NewProvider() (*Provider, error) {
	apiKey, err := env.GetEnv("ImgBB API key", "IMGBB_API_KEY")
	if err != nil {
		return nil, err
	}

	return NewProviderWithClient(apiKey, env.GetEnvOrDefault("IMGBB_BASE_URL", defaultBaseURL), &http.Client{}), nil
}

// NewProviderWithClient creates a Provider against the given endpoint
func NewProviderWithClient(apiKey string, baseURL string, httpClient *http.Client) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Provider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Upload base64-encodes the image and posts it as a form,
// returning the hosted URL
func (p *Provider) Upload(ctx context.Context, image io.Reader, ext string, mime string) (string, error) {
	contents, err := ioutil.ReadAll(image)
	if err != nil {
		return "", errors.Wrap(err, "read image")
	}

	// ImgBB derives the extension from the image itself
	fileName, err := upload.NewFileName("")
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("image", base64.StdEncoding.EncodeToString(contents))
	form.Set("name", fileName)

	endpoint := fmt.Sprintf("%s?key=%s", p.baseURL, url.QueryEscape(p.apiKey))
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "build ImgBB request")
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log.Ctx(ctx).Debug().Str("file_name", fileName).Int("bytes", len(contents)).Msg("uploading image to ImgBB")
	response, err := p.httpClient.Do(request)
	if err != nil {
		return "", upload.NewUpstreamError(providerName, err.Error())
	}
	defer response.Body.Close()

	var decoded uploadResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return "", upload.NewUpstreamError(providerName,
			fmt.Sprintf("unreadable response (status %d)", response.StatusCode))
	}

	if response.StatusCode >= 300 || !decoded.Success || decoded.Data.URL == "" {
		message := decoded.Error.Message
		if message == "" {
			message = decoded.StatusTxt
		}
		if message == "" {
			message = fmt.Sprintf("status %d", response.StatusCode)
		}
		return "", upload.NewUpstreamError(providerName, message)
	}

	return decoded.Data.URL, nil
}
