package core

import (
	"errors"
	"testing"
)

func assertCurrent(t *testing.T, s *BufferSet, want string) {
	t.Helper()

	count := 0
	for _, b := range s.Buffers() {
		if b.Current {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one current buffer, got %d", count)
	}
	if got := s.Current().Name; got != want {
		t.Fatalf("current buffer = %q, want %q", got, want)
	}
}

func TestBufferSetStartsWithCurrentRoot(t *testing.T) {
	s := NewBufferSet("server")

	if s.Len() != 1 {
		t.Fatalf("expected only the root buffer, got %d buffers", s.Len())
	}
	assertCurrent(t, s, "server")
	if s.Current().Log == nil {
		t.Fatal("root buffer has no log")
	}
}

func TestBufferSetEnsureIsIdempotent(t *testing.T) {
	s := NewBufferSet("server")

	first := s.Ensure("#go")
	second := s.Ensure("#go")

	if first != second {
		t.Fatal("Ensure created a second buffer for the same name")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 buffers, got %d", s.Len())
	}
	if first.Current {
		t.Fatal("ensured buffer must not be created current")
	}
	assertCurrent(t, s, "server")
}

func TestBufferSetSetCurrentUnknownName(t *testing.T) {
	s := NewBufferSet("server")

	err := s.SetCurrent("#ghost")
	if !errors.Is(err, ErrUnknownBuffer) {
		t.Fatalf("expected ErrUnknownBuffer, got %v", err)
	}
	assertCurrent(t, s, "server")
}

func TestBufferSetRemoveProtectsRoot(t *testing.T) {
	s := NewBufferSet("server")

	err := s.Remove("server")
	if !errors.Is(err, ErrProtectedBuffer) {
		t.Fatalf("expected ErrProtectedBuffer, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("root buffer was removed, %d buffers remain", s.Len())
	}
}

func TestBufferSetRemoveCurrentPicksNextInOrder(t *testing.T) {
	s := NewBufferSet("server")
	s.Ensure("#a")
	s.Ensure("#b")
	s.Ensure("#c")

	if err := s.SetCurrent("#b"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if err := s.Remove("#b"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	assertCurrent(t, s, "#c")
}

func TestBufferSetRemoveLastCurrentWrapsToRoot(t *testing.T) {
	s := NewBufferSet("server")
	s.Ensure("#a")

	if err := s.SetCurrent("#a"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if err := s.Remove("#a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	assertCurrent(t, s, "server")
}

func TestBufferSetRemoveNonCurrentKeepsCurrent(t *testing.T) {
	s := NewBufferSet("server")
	s.Ensure("#a")
	s.Ensure("#b")

	if err := s.SetCurrent("#b"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if err := s.Remove("#a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	assertCurrent(t, s, "#b")
}

func TestBufferSetCyclicNavigation(t *testing.T) {
	s := NewBufferSet("server")
	s.Ensure("#a")
	s.Ensure("#b")

	if got := s.Next().Name; got != "#a" {
		t.Fatalf("Next from root = %q, want #a", got)
	}
	if got := s.Previous().Name; got != "#b" {
		t.Fatalf("Previous from root = %q, want #b", got)
	}
	// Navigation must not change the current buffer.
	assertCurrent(t, s, "server")

	if err := s.SetCurrent("#b"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if got := s.Next().Name; got != "server" {
		t.Fatalf("Next from tail = %q, want server", got)
	}
}

func TestBufferSetSendCreatesTarget(t *testing.T) {
	s := NewBufferSet("server")

	s.Send("alice", "alice", "hi there")

	_, b := s.lookup("alice")
	if b == nil {
		t.Fatal("Send did not create the target buffer")
	}
	entries := b.Log.Entries()
	if len(entries) != 1 || entries[0] != (Entry{Author: "alice", Text: "hi there"}) {
		t.Fatalf("unexpected log entries: %+v", entries)
	}
	assertCurrent(t, s, "server")
}

func TestBufferSetRenameNickMovesPrivateChat(t *testing.T) {
	s := NewBufferSet("server")
	s.Send("alice", "alice", "hello")

	s.RenameNick("alice", "alicia")

	if _, b := s.lookup("alice"); b != nil {
		t.Fatal("old private chat buffer still present")
	}
	_, b := s.lookup("alicia")
	if b == nil {
		t.Fatal("renamed private chat buffer missing")
	}
	// History keeps the author that was valid at post time.
	if got := b.Log.Entries()[0].Author; got != "alice" {
		t.Fatalf("log author rewritten to %q", got)
	}
}

func TestBufferSetRenameNickSkipsTakenName(t *testing.T) {
	s := NewBufferSet("server")
	s.Ensure("alice")
	s.Ensure("alicia")

	s.RenameNick("alice", "alicia")

	if _, b := s.lookup("alice"); b == nil {
		t.Fatal("rename onto an existing buffer must be a no-op")
	}
}
