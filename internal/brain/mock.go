package brain

import (
	"context"
	"fmt"
	"strings"
)

// MockAdapter provides deterministic local replies when no model API key is
// configured.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (a *MockAdapter) Complete(ctx context.Context, messages []Message) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return buildMockReply(messages), nil
}

func buildMockReply(messages []Message) string {
	var lastUser string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			lastUser = strings.TrimSpace(messages[i].Content)
			break
		}
	}
	if lastUser == "" {
		return "I am listening."
	}
	return fmt.Sprintf("I heard you: %s", lastUser)
}
