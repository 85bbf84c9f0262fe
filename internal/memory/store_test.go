package memory

import (
	"context"
	"path/filepath"
	"testing"
)

// runStoreContract exercises the Store behaviors every backend must share.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	// Empty history yields empty results.
	turns, err := s.Recent(ctx, "u1", 5)
	if err != nil {
		t.Fatalf("Recent() on empty store error = %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("Recent() on empty store = %d turns, want 0", len(turns))
	}

	contents := []string{"one", "two", "three", "four", "five"}
	ids := make([]int64, 0, len(contents))
	for i, c := range contents {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		id, err := s.AppendTurn(ctx, "u1", role, c)
		if err != nil {
			t.Fatalf("AppendTurn(%q) error = %v", c, err)
		}
		ids = append(ids, id)
	}

	n, err := s.CountTurns(ctx, "u1")
	if err != nil {
		t.Fatalf("CountTurns() error = %v", err)
	}
	if n != len(contents) {
		t.Fatalf("CountTurns() = %d, want %d", n, len(contents))
	}

	// Recent must be bounded and chronological.
	turns, err = s.Recent(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("Recent(3) = %d turns, want 3", len(turns))
	}
	for i, want := range []string{"three", "four", "five"} {
		if turns[i].Content != want {
			t.Fatalf("Recent(3)[%d] = %q, want %q", i, turns[i].Content, want)
		}
	}

	// Oldest selects the head of the log.
	turns, err = s.Oldest(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("Oldest() error = %v", err)
	}
	if len(turns) != 2 || turns[0].Content != "one" || turns[1].Content != "two" {
		t.Fatalf("Oldest(2) = %+v, want [one two]", turns)
	}

	// Other users are untouched.
	n, err = s.CountTurns(ctx, "u2")
	if err != nil {
		t.Fatalf("CountTurns(u2) error = %v", err)
	}
	if n != 0 {
		t.Fatalf("CountTurns(u2) = %d, want 0", n)
	}

	// Delete is idempotent: a second identical delete is a no-op.
	block := ids[:2]
	if err := s.DeleteTurns(ctx, block); err != nil {
		t.Fatalf("DeleteTurns() error = %v", err)
	}
	if err := s.DeleteTurns(ctx, block); err != nil {
		t.Fatalf("repeated DeleteTurns() error = %v", err)
	}
	n, err = s.CountTurns(ctx, "u1")
	if err != nil {
		t.Fatalf("CountTurns() after delete error = %v", err)
	}
	if n != 3 {
		t.Fatalf("CountTurns() after delete = %d, want 3", n)
	}
	turns, err = s.Recent(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("Recent() after delete error = %v", err)
	}
	if len(turns) != 3 || turns[0].Content != "three" {
		t.Fatalf("Recent() after delete = %+v, want [three four five]", turns)
	}

	// Summary upsert merges fragments into one record, never two.
	rec, err := s.Summary(ctx, "u1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if rec != nil {
		t.Fatalf("Summary() before upsert = %+v, want nil", rec)
	}
	if err := s.UpsertSummary(ctx, "u1", "alpha"); err != nil {
		t.Fatalf("UpsertSummary(alpha) error = %v", err)
	}
	if err := s.UpsertSummary(ctx, "u1", "beta"); err != nil {
		t.Fatalf("UpsertSummary(beta) error = %v", err)
	}
	rec, err = s.Summary(ctx, "u1")
	if err != nil {
		t.Fatalf("Summary() after upserts error = %v", err)
	}
	if rec == nil {
		t.Fatalf("Summary() after upserts = nil, want record")
	}
	if rec.Content != "alpha"+summarySeparator+"beta" {
		t.Fatalf("Summary content = %q, want merged fragments in call order", rec.Content)
	}
}

func TestInMemoryStoreContract(t *testing.T) {
	s := NewInMemoryStore()
	defer s.Close()
	runStoreContract(t, s)
}

func TestSQLiteStoreContract(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "dante.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()
	runStoreContract(t, s)
}

func TestFactoryDefaultsToInMemory(t *testing.T) {
	s, err := NewStore(context.Background(), "", "")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	defer s.Close()
	if _, ok := s.(*InMemoryStore); !ok {
		t.Fatalf("NewStore(\"\", \"\") = %T, want *InMemoryStore", s)
	}
}

func TestFactoryPicksSQLiteForPath(t *testing.T) {
	s, err := NewStore(context.Background(), "", filepath.Join(t.TempDir(), "dante.db"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("NewStore with sqlite path = %T, want *SQLiteStore", s)
	}
}
