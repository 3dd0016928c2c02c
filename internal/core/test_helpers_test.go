package core

import (
	"testing"
	"time"
)

func newTestSession() *Session {
	return NewSession(Options{RootBuffer: "server", CommandPrefix: '/'}, nil)
}

// registered fast-forwards a session past connection setup.
func registered(s *Session, nick string) {
	s.handleEvent(Event{Kind: EventRegistered, Nick: nick})
}

func mustCommand(t *testing.T, ch <-chan Command) Command {
	t.Helper()

	select {
	case cmd := <-ch:
		return cmd
	case <-time.After(2 * time.Second):
		t.Fatal("expected an outbound command")
		return Command{}
	}
}

func mustNoCommand(t *testing.T, ch <-chan Command) {
	t.Helper()

	select {
	case cmd := <-ch:
		t.Fatalf("unexpected outbound command: %+v", cmd)
	default:
	}
}

func mustSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()

	select {
	case snap := <-ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("expected a snapshot")
		return Snapshot{}
	}
}

func bufferNames(s *Session) []string {
	names := make([]string, 0, s.buffers.Len())
	for _, b := range s.buffers.Buffers() {
		names = append(names, b.Name)
	}
	return names
}

func lastEntry(t *testing.T, s *Session, buffer string) Entry {
	t.Helper()

	_, b := s.buffers.lookup(buffer)
	if b == nil {
		t.Fatalf("buffer %q does not exist", buffer)
	}
	entries := b.Log.Entries()
	if len(entries) == 0 {
		t.Fatalf("buffer %q has no log entries", buffer)
	}
	return entries[len(entries)-1]
}
