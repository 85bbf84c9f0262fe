package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/antoniostano/dante/internal/brain"
	"github.com/antoniostano/dante/internal/memory"
)

// BuildHistory assembles the bounded model input for one user: the persona
// system message, the rolling summary when one exists, then up to limit
// recent turns in chronological order. The result never exceeds 2+limit
// messages and is deterministic for a given store state.
//
// Store read failures degrade rather than abort: the affected section is
// skipped and the error is returned alongside the partial history, so the
// caller can log it and still attempt the model call.
func BuildHistory(ctx context.Context, store memory.Store, userID string, limit int) ([]brain.Message, error) {
	msgs := make([]brain.Message, 0, limit+2)
	msgs = append(msgs, brain.Message{Role: memory.RoleSystem, Content: personaPrompt})

	var errs []error

	summary, err := store.Summary(ctx, userID)
	if err != nil {
		errs = append(errs, fmt.Errorf("load summary: %w", err))
	} else if summary != nil && strings.TrimSpace(summary.Content) != "" {
		msgs = append(msgs, brain.Message{
			Role:    memory.RoleSystem,
			Content: summaryPrefix + summary.Content,
		})
	}

	recent, err := store.Recent(ctx, userID, limit)
	if err != nil {
		errs = append(errs, fmt.Errorf("load recent turns: %w", err))
	}
	for _, t := range recent {
		msgs = append(msgs, brain.Message{Role: t.Role, Content: t.Content})
	}

	return msgs, errors.Join(errs...)
}
