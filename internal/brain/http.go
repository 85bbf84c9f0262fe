package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/antoniostano/dante/internal/reliability"
)

const (
	defaultAPIURL = "https://api.groq.com/openai/v1"
	defaultModel  = "llama3-8b-8192"

	maxAttempts  = 3
	retryBase    = 500 * time.Millisecond
	retryCap     = 4 * time.Second
	errorBodyCap = 4 << 10
)

// HTTPAdapter talks to an OpenAI-compatible chat completions endpoint.
type HTTPAdapter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewHTTPAdapter(baseURL, apiKey, model string) *HTTPAdapter {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &HTTPAdapter{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (a *HTTPAdapter) Complete(ctx context.Context, messages []Message) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := reliability.ExponentialBackoff(attempt-1, retryBase, retryCap)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, retryable, err := a.attempt(ctx, payload)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}
	return "", lastErr
}

func (a *HTTPAdapter) attempt(ctx context.Context, payload []byte) (text string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	res, err := a.client.Do(req)
	if err != nil {
		// Transport errors (refused, reset, timeout) are worth a retry.
		return "", true, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, errorBodyCap))
		return "", reliability.IsRetryableHTTPStatus(res.StatusCode),
			fmt.Errorf("completion http status %d: %s", res.StatusCode, string(body))
	}

	var parsed completionResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", false, ErrEmptyCompletion
	}
	out := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if out == "" {
		return "", false, ErrEmptyCompletion
	}
	return out, false, nil
}
