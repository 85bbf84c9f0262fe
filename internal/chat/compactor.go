package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/antoniostano/dante/internal/brain"
	"github.com/antoniostano/dante/internal/memory"
	"github.com/antoniostano/dante/internal/observability"
)

// compactionTimeout bounds one detached compaction run. It is generous
// because a run includes a full model call.
const compactionTimeout = 2 * time.Minute

// Compactor folds the oldest block of a user's turn log into the rolling
// summary once the log crosses the threshold. It never runs on the reply
// path and never surfaces failures to the user; a failed run is simply
// retried on a later qualifying turn.
type Compactor struct {
	store     memory.Store
	adapter   brain.Adapter
	metrics   *observability.Metrics
	threshold int
	blockSize int
	userLocks *keyedMutex

	mu       sync.Mutex
	inflight map[string]bool

	// onDone, when set, observes the outcome of each async run.
	onDone func(userID string, compacted bool, err error)
}

func NewCompactor(store memory.Store, adapter brain.Adapter, metrics *observability.Metrics, threshold, blockSize int, userLocks *keyedMutex) *Compactor {
	return &Compactor{
		store:     store,
		adapter:   adapter,
		metrics:   metrics,
		threshold: threshold,
		blockSize: blockSize,
		userLocks: userLocks,
		inflight:  make(map[string]bool),
	}
}

// SetDoneHook registers an observer for async run outcomes.
func (c *Compactor) SetDoneHook(hook func(userID string, compacted bool, err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDone = hook
}

// MaybeCompactAsync spawns a compaction check for the user without blocking
// the caller. At most one run per user is in flight; overlapping triggers
// are skipped, not queued. The run uses a detached context so a session
// disconnect cannot cancel it mid-way.
func (c *Compactor) MaybeCompactAsync(userID string) {
	c.mu.Lock()
	if c.inflight[userID] {
		c.mu.Unlock()
		c.metrics.CompactionRuns.WithLabelValues("skipped_inflight").Inc()
		return
	}
	c.inflight[userID] = true
	hook := c.onDone
	c.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), compactionTimeout)
		defer cancel()

		compacted, err := c.Compact(ctx, userID)
		switch {
		case err != nil:
			log.Printf("chat: compaction for %s failed: %v", userID, err)
			c.metrics.CompactionRuns.WithLabelValues("failed").Inc()
		case compacted:
			c.metrics.CompactionRuns.WithLabelValues("compacted").Inc()
		default:
			c.metrics.CompactionRuns.WithLabelValues("below_threshold").Inc()
		}

		c.mu.Lock()
		delete(c.inflight, userID)
		c.mu.Unlock()

		if hook != nil {
			hook(userID, compacted, err)
		}
	}()
}

// Compact runs one synchronous compaction check. It reports whether a block
// was folded into the summary. On any failure the store is left untouched:
// the summary is written before the block is deleted, so a crash in between
// at worst re-summarizes the same turns later, never loses them.
func (c *Compactor) Compact(ctx context.Context, userID string) (bool, error) {
	n, err := c.store.CountTurns(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("count turns: %w", err)
	}
	if n < c.threshold {
		return false, nil
	}

	block, err := c.store.Oldest(ctx, userID, c.blockSize)
	if err != nil {
		return false, fmt.Errorf("select compaction block: %w", err)
	}
	if len(block) == 0 {
		return false, nil
	}

	summary, err := c.adapter.Complete(ctx, []brain.Message{
		{Role: memory.RoleSystem, Content: summarizeInstruction},
		{Role: memory.RoleUser, Content: buildTranscript(block)},
	})
	if err != nil {
		c.metrics.BrainErrors.WithLabelValues("compaction").Inc()
		return false, fmt.Errorf("summarize block: %w", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		c.metrics.BrainErrors.WithLabelValues("compaction").Inc()
		return false, fmt.Errorf("summarize block: %w", brain.ErrEmptyCompletion)
	}

	// Merge before prune. Deleting first could lose turns whose summary was
	// never captured.
	if err := c.store.UpsertSummary(ctx, userID, summary); err != nil {
		return false, fmt.Errorf("merge summary: %w", err)
	}

	ids := make([]int64, len(block))
	for i, t := range block {
		ids[i] = t.ID
	}

	unlock := c.userLocks.lock(userID)
	defer unlock()
	if err := c.store.DeleteTurns(ctx, ids); err != nil {
		return false, fmt.Errorf("prune compacted turns: %w", err)
	}
	return true, nil
}

func buildTranscript(block []memory.Turn) string {
	var b strings.Builder
	for _, t := range block {
		b.WriteString(t.Role)
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	return b.String()
}
