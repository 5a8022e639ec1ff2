package store

import (
	"fmt"
	"testing"

	"github.com/paulhq/paul-assistant/internal/model/chat"
)

func TestMemoryStoreBoundedHistory(t *testing.T) {
	s := NewMemoryStore()

	for i := 0; i < 20; i++ {
		s.Append("conv", chat.RoleUser, fmt.Sprintf("message %d", i))

		want := i + 1
		if want > chat.HistoryLimit {
			want = chat.HistoryLimit
		}
		if got := len(s.History("conv")); got != want {
			t.Fatalf("after %d appends: got %d messages, want %d", i+1, got, want)
		}
	}

	history := s.History("conv")
	if history[0].Content != "message 5" {
		t.Fatalf("oldest retained message: got %q, want %q", history[0].Content, "message 5")
	}
	if history[len(history)-1].Content != "message 19" {
		t.Fatalf("newest message: got %q, want %q", history[len(history)-1].Content, "message 19")
	}
}

func TestMemoryStoreLazyCreation(t *testing.T) {
	s := NewMemoryStore()

	if got := s.History("unknown"); len(got) != 0 {
		t.Fatalf("unknown conversation: got %d messages, want 0", len(got))
	}
	// Second read must also succeed without an explicit create.
	if got := s.History("unknown"); len(got) != 0 {
		t.Fatalf("second read: got %d messages, want 0", len(got))
	}
}

func TestMemoryStoreClearIdempotent(t *testing.T) {
	s := NewMemoryStore()
	s.Clear("never-existed")

	s.Append("conv", chat.RoleUser, "hello")
	s.Clear("conv")
	if got := s.History("conv"); len(got) != 0 {
		t.Fatalf("after clear: got %d messages, want 0", len(got))
	}
	s.Clear("conv")
}

func TestMemoryStoreHistoryCopiesOut(t *testing.T) {
	s := NewMemoryStore()
	s.Append("conv", chat.RoleUser, "hello")

	history := s.History("conv")
	history[0].Content = "mutated"

	if got := s.History("conv")[0].Content; got != "hello" {
		t.Fatalf("store exposed internal slice: got %q", got)
	}
}
