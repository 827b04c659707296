package xai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the x.ai API host used when no override is configured.
	DefaultBaseURL = "https://api.x.ai/v1"

	// DefaultTimeout bounds the single blocking request.
	DefaultTimeout = 60 * time.Second
)

var (
	// ErrRequestFailed covers transport failures, timeouts and non-2xx statuses.
	ErrRequestFailed = errors.New("api request failed")
	// ErrMalformedResponse covers bodies that cannot be decoded.
	ErrMalformedResponse = errors.New("malformed api response")
)

// Client issues chat completion requests against an OpenAI-compatible endpoint.
// The API key is supplied per call so node inputs can override the environment.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ChatCompletion performs a single POST to {base}/chat/completions. One
// attempt, no retry.
func (c *Client) ChatCompletion(ctx context.Context, apiKey string, chatReq *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	jsonBytes, err := chatReq.Marshal()
	if err != nil {
		return nil, fmt.Errorf("error marshalling request: %w", err)
	}

	body, err := c.post(ctx, "/chat/completions", apiKey, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return nil, err
	}

	respData := &ChatCompletionResponse{}
	if err := respData.Unmarshal(body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return respData, nil
}

func (c *Client) post(ctx context.Context, path string, apiKey string, data *bytes.Buffer) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, data)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))

	log.Debugf("Sending request to %s", url)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: error reading response: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: unexpected status %s: %s", ErrRequestFailed, resp.Status, truncate(string(body), 256))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
