package core

// Member is one roster entry for a channel participant.
type Member struct {
	Mode string
	Self bool
}

// Rosters tracks channel membership keyed by channel name. Only channel
// buffers have rosters; private chats and the root buffer never do.
type Rosters struct {
	channels map[string]map[string]Member
}

// NewRosters constructs an empty roster collection.
func NewRosters() *Rosters {
	return &Rosters{channels: make(map[string]map[string]Member)}
}

// Add inserts nick with default metadata. Adding a present nick keeps its
// existing metadata.
func (r *Rosters) Add(channel, nick string) {
	m := r.channels[channel]
	if m == nil {
		m = make(map[string]Member)
		r.channels[channel] = m
	}
	if _, ok := m[nick]; !ok {
		m[nick] = Member{}
	}
}

// Remove deletes nick from channel's roster. Unknown nicks and channels are
// no-ops.
func (r *Rosters) Remove(channel, nick string) {
	delete(r.channels[channel], nick)
}

// Rename moves oldNick's entry to newNick, keeping mode and self flags.
// A no-op when oldNick is not present.
func (r *Rosters) Rename(channel, oldNick, newNick string) {
	m := r.channels[channel]
	member, ok := m[oldNick]
	if !ok {
		return
	}
	delete(m, oldNick)
	m[newNick] = member
}

// ReplaceAll swaps in a complete membership snapshot for channel.
func (r *Rosters) ReplaceAll(channel string, members map[string]Member) {
	m := make(map[string]Member, len(members))
	for nick, member := range members {
		m[nick] = member
	}
	r.channels[channel] = m
}

// Clear drops channel's roster entirely.
func (r *Rosters) Clear(channel string) {
	delete(r.channels, channel)
}

// Get returns a copy of channel's membership, empty when unknown.
func (r *Rosters) Get(channel string) map[string]Member {
	out := make(map[string]Member, len(r.channels[channel]))
	for nick, member := range r.channels[channel] {
		out[nick] = member
	}
	return out
}
