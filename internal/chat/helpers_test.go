package chat

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/antoniostano/dante/internal/brain"
	"github.com/antoniostano/dante/internal/memory"
	"github.com/antoniostano/dante/internal/observability"
)

var metricsSeq atomic.Int64

// newTestMetrics gives every test its own namespace so promauto's default
// registry never sees a duplicate registration.
func newTestMetrics(t *testing.T) *observability.Metrics {
	t.Helper()
	return observability.NewMetrics(fmt.Sprintf("test_chat_%d", metricsSeq.Add(1)))
}

// scriptedBrain replies from a fixed script and records what it was asked.
type scriptedBrain struct {
	replies []string
	err     error
	calls   [][]brain.Message
}

func (b *scriptedBrain) Complete(_ context.Context, messages []brain.Message) (string, error) {
	b.calls = append(b.calls, messages)
	if b.err != nil {
		return "", b.err
	}
	if len(b.replies) == 0 {
		return "ok", nil
	}
	next := b.replies[0]
	if len(b.replies) > 1 {
		b.replies = b.replies[1:]
	}
	return next, nil
}

var errInjected = errors.New("injected failure")

// faultyStore wraps a real store and fails selected operations on demand.
type faultyStore struct {
	memory.Store
	failAppend  bool
	failRecent  bool
	failSummary bool
	failUpsert  bool
	failDelete  bool
}

func (s *faultyStore) AppendTurn(ctx context.Context, userID, role, content string) (int64, error) {
	if s.failAppend {
		return 0, errInjected
	}
	return s.Store.AppendTurn(ctx, userID, role, content)
}

func (s *faultyStore) Recent(ctx context.Context, userID string, limit int) ([]memory.Turn, error) {
	if s.failRecent {
		return nil, errInjected
	}
	return s.Store.Recent(ctx, userID, limit)
}

func (s *faultyStore) Summary(ctx context.Context, userID string) (*memory.SummaryRecord, error) {
	if s.failSummary {
		return nil, errInjected
	}
	return s.Store.Summary(ctx, userID)
}

func (s *faultyStore) UpsertSummary(ctx context.Context, userID, fragment string) error {
	if s.failUpsert {
		return errInjected
	}
	return s.Store.UpsertSummary(ctx, userID, fragment)
}

func (s *faultyStore) DeleteTurns(ctx context.Context, ids []int64) error {
	if s.failDelete {
		return errInjected
	}
	return s.Store.DeleteTurns(ctx, ids)
}
