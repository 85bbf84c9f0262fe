package ratelimit

import (
	"testing"
	"time"
)

func TestWindowDeniesFourthRequest(t *testing.T) {
	w := NewWindow(3, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	w.SetClock(func() time.Time { return now })

	want := []bool{true, true, true, false}
	for i, expected := range want {
		if got := w.Allow(); got != expected {
			t.Fatalf("Allow() call %d = %v, want %v", i+1, got, expected)
		}
	}
}

func TestWindowRecoversAfterElapse(t *testing.T) {
	w := NewWindow(3, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	w.SetClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if !w.Allow() {
			t.Fatalf("Allow() call %d = false, want true", i+1)
		}
	}
	if w.Allow() {
		t.Fatalf("Allow() over quota = true, want false")
	}

	now = now.Add(61 * time.Second)
	if !w.Allow() {
		t.Fatalf("Allow() after window elapsed = false, want true")
	}
}

func TestWindowDenialDoesNotConsumeSlot(t *testing.T) {
	w := NewWindow(2, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	w.SetClock(func() time.Time { return now })

	w.Allow()
	now = now.Add(30 * time.Second)
	w.Allow()
	if w.Allow() {
		t.Fatalf("Allow() over quota = true, want false")
	}

	// Only the first accepted stamp should age out; the denial above must
	// not have taken its place.
	now = now.Add(31 * time.Second)
	if !w.Allow() {
		t.Fatalf("Allow() after oldest stamp aged out = false, want true")
	}
	if w.Allow() {
		t.Fatalf("Allow() with window full again = true, want false")
	}
}
