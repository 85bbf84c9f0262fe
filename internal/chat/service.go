package chat

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/antoniostano/dante/internal/brain"
	"github.com/antoniostano/dante/internal/memory"
	"github.com/antoniostano/dante/internal/observability"
	"github.com/antoniostano/dante/internal/policy"
)

const storeWriteTimeout = 5 * time.Second

// Config bounds conversation growth and input size.
type Config struct {
	MaxHistoryMessages     int
	SummarizationThreshold int
	MessagesToSummarize    int
	MaxMessageLen          int
}

func (c Config) withDefaults() Config {
	if c.MaxHistoryMessages <= 0 {
		c.MaxHistoryMessages = 50
	}
	if c.SummarizationThreshold <= 0 {
		c.SummarizationThreshold = 40
	}
	if c.MessagesToSummarize <= 0 {
		c.MessagesToSummarize = 30
	}
	if c.MaxMessageLen <= 0 {
		c.MaxMessageLen = 4000
	}
	return c
}

// keyedMutex serializes store writes per user so a compaction delete can
// never race a fresh append for the same user. Different users never contend.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Service is the turn-taking entry point: it persists the user turn, builds
// the bounded history, calls the model, persists the reply, and kicks the
// compactor off the reply path.
type Service struct {
	store     memory.Store
	adapter   brain.Adapter
	metrics   *observability.Metrics
	cfg       Config
	userLocks *keyedMutex
	compactor *Compactor
}

func NewService(store memory.Store, adapter brain.Adapter, metrics *observability.Metrics, cfg Config) *Service {
	cfg = cfg.withDefaults()
	locks := newKeyedMutex()
	return &Service{
		store:     store,
		adapter:   adapter,
		metrics:   metrics,
		cfg:       cfg,
		userLocks: locks,
		compactor: NewCompactor(store, adapter, metrics, cfg.SummarizationThreshold, cfg.MessagesToSummarize, locks),
	}
}

// Compactor exposes the service's compactor, mainly for tests and admin use.
func (s *Service) Compactor() *Compactor { return s.compactor }

// HandleTurn processes one inbound user message and returns the assistant
// reply. Validation failures come back as errors with no state change;
// collaborator failures are absorbed into a safe user-visible reply.
func (s *Service) HandleTurn(ctx context.Context, userID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > s.cfg.MaxMessageLen {
		return "", ErrMessageTooLong
	}

	start := time.Now()
	redacted, _ := policy.RedactPII(text)

	// A failed append must not abort the reply path; the model is still
	// called with whatever history is readable.
	degraded := false
	if err := s.appendTurn(ctx, userID, memory.RoleUser, redacted); err != nil {
		log.Printf("chat: append user turn for %s failed: %v", userID, err)
		s.metrics.StoreErrors.WithLabelValues("append").Inc()
		degraded = true
	}

	history, err := BuildHistory(ctx, s.store, userID, s.cfg.MaxHistoryMessages)
	if err != nil {
		log.Printf("chat: history for %s degraded: %v", userID, err)
		s.metrics.StoreErrors.WithLabelValues("read").Inc()
		degraded = true
	}

	reply, err := s.adapter.Complete(ctx, history)
	if err != nil || strings.TrimSpace(reply) == "" {
		log.Printf("chat: completion for %s failed: %v", userID, err)
		s.metrics.BrainErrors.WithLabelValues("turn").Inc()
		return ApologyReply, nil
	}

	if err := s.appendTurn(ctx, userID, memory.RoleAssistant, reply); err != nil {
		log.Printf("chat: append assistant turn for %s failed: %v", userID, err)
		s.metrics.StoreErrors.WithLabelValues("append").Inc()
	}

	s.metrics.ObserveTurnLatency(time.Since(start))
	s.compactor.MaybeCompactAsync(userID)

	if degraded {
		return degradedNote + "\n\n" + reply, nil
	}
	return reply, nil
}

// appendTurn writes one turn under the user's write lock with its own
// deadline, so a stalled store cannot wedge the session loop indefinitely.
func (s *Service) appendTurn(ctx context.Context, userID, role, content string) error {
	unlock := s.userLocks.lock(userID)
	defer unlock()

	writeCtx, cancel := context.WithTimeout(ctx, storeWriteTimeout)
	defer cancel()
	_, err := s.store.AppendTurn(writeCtx, userID, role, content)
	return err
}
