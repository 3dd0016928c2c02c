package core

import "sort"

// BufferView is an immutable copy of one buffer for rendering.
type BufferView struct {
	Name    string
	Current bool
	Entries []Entry
}

// RosterEntry is one roster line for rendering.
type RosterEntry struct {
	Nick string
	Mode string
	Self bool
}

// Snapshot is the complete renderable session state. It holds value copies
// only, so the rendering goroutine may read it without coordination.
type Snapshot struct {
	Nick    string
	Buffers []BufferView
	Roster  []RosterEntry // roster of the current buffer, nil for non-channels
}

// CurrentBuffer returns the view of the buffer marked current.
func (s Snapshot) CurrentBuffer() BufferView {
	for _, b := range s.Buffers {
		if b.Current {
			return b
		}
	}
	return BufferView{}
}

func (s *Session) snapshot() Snapshot {
	buffers := make([]BufferView, 0, s.buffers.Len())
	for _, b := range s.buffers.Buffers() {
		entries := make([]Entry, b.Log.Len())
		copy(entries, b.Log.Entries())
		buffers = append(buffers, BufferView{Name: b.Name, Current: b.Current, Entries: entries})
	}

	var roster []RosterEntry
	if current := s.buffers.Current(); current.IsChannel() {
		members := s.rosters.Get(current.Name)
		roster = make([]RosterEntry, 0, len(members))
		for nick, m := range members {
			roster = append(roster, RosterEntry{Nick: nick, Mode: m.Mode, Self: m.Self})
		}
		sort.Slice(roster, func(i, j int) bool { return roster[i].Nick < roster[j].Nick })
	}

	return Snapshot{Nick: s.nick, Buffers: buffers, Roster: roster}
}

// publish pushes the latest snapshot, replacing a stale undelivered one so a
// slow renderer never blocks event processing.
func (s *Session) publish() {
	snap := s.snapshot()
	for {
		select {
		case s.Updates <- snap:
			return
		default:
			select {
			case <-s.Updates:
			default:
			}
		}
	}
}
