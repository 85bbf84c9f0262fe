package memory

import (
	"context"
	"time"
)

// Conversation roles as stored in the turn log.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn stores a single user or assistant conversational turn.
type Turn struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SummaryRecord holds the rolling conversation summary for one user.
// There is never more than one per user.
type SummaryRecord struct {
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// summarySeparator joins an existing summary with a newly merged fragment.
const summarySeparator = "\n\n"

// Store persists conversational memory: the ordered turn log plus the
// per-user rolling summary. Turns are ordered by (created_at, id); the id
// breaks ties between turns written in the same clock instant.
type Store interface {
	// AppendTurn durably writes one turn and returns its id.
	AppendTurn(ctx context.Context, userID, role, content string) (int64, error)

	// Recent returns up to limit most recent turns in chronological order
	// (oldest first). An unknown user yields an empty slice.
	Recent(ctx context.Context, userID string, limit int) ([]Turn, error)

	// Oldest returns up to limit oldest turns in chronological order.
	// The compactor uses it to select a compaction block.
	Oldest(ctx context.Context, userID string, limit int) ([]Turn, error)

	// DeleteTurns removes the given turns. Ids that no longer exist are
	// ignored, so a retried delete is a no-op.
	DeleteTurns(ctx context.Context, ids []int64) error

	// CountTurns reports how many turns are currently stored for the user.
	CountTurns(ctx context.Context, userID string) (int, error)

	// Summary returns the user's rolling summary, or nil when none exists.
	Summary(ctx context.Context, userID string) (*SummaryRecord, error)

	// UpsertSummary creates the user's summary from fragment, or appends
	// fragment to the existing content separated by a blank line. This is
	// the only mutation path for summaries.
	UpsertSummary(ctx context.Context, userID, fragment string) error

	Close() error
}
