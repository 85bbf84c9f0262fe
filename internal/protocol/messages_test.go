package protocol

import (
	"errors"
	"testing"
)

func TestParseClientMessageUserMessage(t *testing.T) {
	raw := []byte(`{"type":"user_message","session_id":"s1","text":"hello","ts_ms":123}`)
	msg, err := ParseClientMessage(raw)
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}

	um, ok := msg.(UserMessage)
	if !ok {
		t.Fatalf("message type = %T, want UserMessage", msg)
	}
	if um.SessionID != "s1" || um.Text != "hello" {
		t.Fatalf("unexpected user message: %+v", um)
	}
	if um.TSMs != 123 {
		t.Fatalf("TSMs = %d, want %d", um.TSMs, 123)
	}
}

func TestParseClientMessageRejectsUnknownType(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":"wat"}`))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("error = %v, want ErrUnsupportedType", err)
	}
}

func TestParseClientMessageRejectsMissingSession(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":"user_message","text":"hello"}`))
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestParseClientMessageAllowsEmptyText(t *testing.T) {
	// Empty text is a chat-level validation concern; the wire layer only
	// checks framing.
	msg, err := ParseClientMessage([]byte(`{"type":"user_message","session_id":"s1","text":""}`))
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	if _, ok := msg.(UserMessage); !ok {
		t.Fatalf("message type = %T, want UserMessage", msg)
	}
}
