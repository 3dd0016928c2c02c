package core

import "testing"

func TestRostersAddRemove(t *testing.T) {
	r := NewRosters()

	r.Add("#go", "alice")
	r.Add("#go", "alice") // idempotent
	r.Add("#go", "bob")

	members := r.Get("#go")
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	r.Remove("#go", "alice")
	r.Remove("#go", "ghost") // no-op
	r.Remove("#rust", "bob") // unknown channel, no-op

	if _, ok := r.Get("#go")["alice"]; ok {
		t.Fatal("alice still present after Remove")
	}
}

func TestRostersAddKeepsExistingMetadata(t *testing.T) {
	r := NewRosters()
	r.ReplaceAll("#go", map[string]Member{"alice": {Mode: "@", Self: true}})

	r.Add("#go", "alice")

	if got := r.Get("#go")["alice"]; got != (Member{Mode: "@", Self: true}) {
		t.Fatalf("Add overwrote metadata: %+v", got)
	}
}

func TestRostersRenamePreservesMetadata(t *testing.T) {
	r := NewRosters()
	r.ReplaceAll("#go", map[string]Member{
		"alice": {Mode: "@"},
		"bob":   {},
	})

	r.Rename("#go", "alice", "alicia")
	r.Rename("#go", "ghost", "spook") // absent nick, no-op

	members := r.Get("#go")
	if _, ok := members["alice"]; ok {
		t.Fatal("old nick still present after Rename")
	}
	if got := members["alicia"]; got.Mode != "@" {
		t.Fatalf("mode lost across rename: %+v", got)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
}

func TestRostersReplaceAllRoundTrip(t *testing.T) {
	r := NewRosters()
	want := map[string]Member{
		"alice": {Mode: "@", Self: false},
		"me":    {Mode: "", Self: true},
		"bob":   {Mode: "+", Self: false},
	}

	r.ReplaceAll("#go", want)

	got := r.Get("#go")
	if len(got) != len(want) {
		t.Fatalf("expected %d members, got %d", len(want), len(got))
	}
	for nick, member := range want {
		if got[nick] != member {
			t.Fatalf("member %q = %+v, want %+v", nick, got[nick], member)
		}
	}
}

func TestRostersClearAndGetUnknown(t *testing.T) {
	r := NewRosters()
	r.Add("#go", "alice")

	r.Clear("#go")

	if len(r.Get("#go")) != 0 {
		t.Fatal("roster not empty after Clear")
	}
	if got := r.Get("#never"); got == nil || len(got) != 0 {
		t.Fatalf("Get for unknown channel = %v, want empty map", got)
	}
}

func TestRostersGetReturnsCopy(t *testing.T) {
	r := NewRosters()
	r.Add("#go", "alice")

	snapshot := r.Get("#go")
	delete(snapshot, "alice")

	if _, ok := r.Get("#go")["alice"]; !ok {
		t.Fatal("mutating the snapshot leaked into the roster")
	}
}
