package session

import (
	"context"
	"testing"
	"time"
)

func TestManagerCreateGetEnd(t *testing.T) {
	m := NewManager(time.Minute, 10, time.Minute)
	s := m.Create("u1")
	if s.ID == "" {
		t.Fatalf("session ID should not be empty")
	}
	if s.Gate == nil {
		t.Fatalf("session Gate should be initialized on create")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UserID != "u1" || got.Status != StatusActive {
		t.Fatalf("unexpected session state: %+v", got)
	}

	ended, err := m.End(s.ID)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if ended.Status != StatusEnded {
		t.Fatalf("ended status = %q, want %q", ended.Status, StatusEnded)
	}
	if ended.Gate != nil {
		t.Fatalf("ended session should have dropped its rate window")
	}
	if _, err := m.Get(s.ID); err != ErrNotFound {
		t.Fatalf("Get() after End error = %v, want ErrNotFound", err)
	}
}

func TestManagerJanitorExpiresInactive(t *testing.T) {
	m := NewManager(30*time.Millisecond, 10, time.Minute)
	s := m.Create("u1")

	expired := make(chan *Session, 1)
	m.SetExpireHook(func(es *Session) { expired <- es })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartJanitor(ctx, 10*time.Millisecond)

	select {
	case es := <-expired:
		if es.ID != s.ID || es.Status != StatusEnded {
			t.Fatalf("expired session = %+v, want ended %s", es, s.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("janitor did not expire inactive session")
	}

	if _, err := m.Get(s.ID); err != ErrNotFound {
		t.Fatalf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestManagerGateIsSharedAcrossGets(t *testing.T) {
	m := NewManager(time.Minute, 1, time.Minute)
	s := m.Create("u1")

	if !s.Gate.Allow() {
		t.Fatalf("first Allow() = false, want true")
	}

	// A later Get must observe the same window state, not a fresh counter.
	again, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.Gate.Allow() {
		t.Fatalf("Allow() via second handle = true, want false (quota already spent)")
	}
}
