package store

import (
	"testing"
	"time"
)

func TestHistoryOrderedScopedIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	messages := NewMessageStore(gdb)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of timestamp order into two rooms.
	if _, err := messages.Append(1, 7, 9, "second", base.Add(time.Minute)); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if _, err := messages.Append(1, 9, 7, "first", base); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if _, err := messages.Append(2, 5, 6, "other room", base); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	for i := 0; i < 2; i++ {
		history, err := messages.History(1)
		if err != nil {
			t.Fatalf("History returned error: %v", err)
		}

		if len(history) != 2 {
			t.Fatalf("History returned %d messages, want 2", len(history))
		}
		if history[0].Message != "first" || history[1].Message != "second" {
			t.Errorf("History order = [%q %q], want [first second]", history[0].Message, history[1].Message)
		}
		for _, m := range history {
			if m.RequestID != 1 {
				t.Errorf("History leaked message for request %d", m.RequestID)
			}
		}
	}
}

func TestHistoryEmptyRoom(t *testing.T) {
	gdb := newTestDB(t)
	messages := NewMessageStore(gdb)

	history, err := messages.History(42)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("History of empty room returned %d messages", len(history))
	}
}
