package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Message is one entry of the model input, oldest first.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ErrEmptyCompletion signals that the model call succeeded at the transport
// level but produced no usable text.
var ErrEmptyCompletion = errors.New("model returned no usable text")

// Adapter bridges the chat runtime with the language model.
type Adapter interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Config controls adapter construction.
type Config struct {
	Mode   string
	APIURL string
	APIKey string
	Model  string
}

func NewAdapter(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewHTTPAdapter(cfg.APIURL, cfg.APIKey, cfg.Model), nil
		}
		return NewMockAdapter(), nil
	case "http":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("brain API key is required for http mode")
		}
		return NewHTTPAdapter(cfg.APIURL, cfg.APIKey, cfg.Model), nil
	case "mock":
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported brain adapter mode %q", cfg.Mode)
	}
}
