package memory

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore is a simple in-process memory store for local/dev use.
type InMemoryStore struct {
	mu        sync.RWMutex
	nextID    int64
	turns     map[string][]Turn
	summaries map[string]SummaryRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		turns:     make(map[string][]Turn),
		summaries: make(map[string]SummaryRecord),
	}
}

func (s *InMemoryStore) AppendTurn(_ context.Context, userID, role, content string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := Turn{
		ID:        s.nextID,
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.turns[userID] = append(s.turns[userID], t)
	return t.ID, nil
}

func (s *InMemoryStore) Recent(_ context.Context, userID string, limit int) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.turns[userID]
	if len(arr) == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > len(arr) {
		limit = len(arr)
	}
	out := make([]Turn, limit)
	copy(out, arr[len(arr)-limit:])
	return out, nil
}

func (s *InMemoryStore) Oldest(_ context.Context, userID string, limit int) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.turns[userID]
	if len(arr) == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > len(arr) {
		limit = len(arr)
	}
	out := make([]Turn, limit)
	copy(out, arr[:limit])
	return out, nil
}

func (s *InMemoryStore) DeleteTurns(_ context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, arr := range s.turns {
		kept := arr[:0]
		for _, t := range arr {
			if _, ok := drop[t.ID]; !ok {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(s.turns, userID)
			continue
		}
		s.turns[userID] = kept
	}
	return nil
}

func (s *InMemoryStore) CountTurns(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns[userID]), nil
}

func (s *InMemoryStore) Summary(_ context.Context, userID string) (*SummaryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.summaries[userID]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (s *InMemoryStore) UpsertSummary(_ context.Context, userID, fragment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.summaries[userID]
	if !ok {
		s.summaries[userID] = SummaryRecord{
			UserID:    userID,
			Content:   fragment,
			UpdatedAt: time.Now().UTC(),
		}
		return nil
	}
	rec.Content = rec.Content + summarySeparator + fragment
	rec.UpdatedAt = time.Now().UTC()
	s.summaries[userID] = rec
	return nil
}

func (s *InMemoryStore) Close() error { return nil }
