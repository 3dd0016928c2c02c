package core

// EventKind identifies a protocol event delivered by the bridge.
type EventKind int

const (
	// EventRegistered confirms the connection and carries the local nick.
	EventRegistered EventKind = iota
	// EventMessage is chat text addressed to a channel, the root buffer, or us.
	EventMessage
	// EventJoin reports a user (possibly us) joining a channel.
	EventJoin
	// EventPart reports a user (possibly us) leaving a channel.
	EventPart
	// EventNick reports a nick change visible in the listed channels.
	EventNick
	// EventNames delivers a complete membership snapshot for a channel.
	EventNames
	// EventQuit reports a user disconnecting from all listed channels.
	EventQuit
	// EventProtoError surfaces a server-reported protocol error.
	EventProtoError
)

// Event is a single inbound protocol event. Only the fields relevant to the
// kind are populated.
type Event struct {
	Kind     EventKind
	To       string
	Nick     string
	Text     string
	Channel  string
	Reason   string
	Message  string // server-provided notice text for join/part
	OldNick  string
	NewNick  string
	Channels []string
	Names    map[string]string // nick -> mode, for EventNames
	Code     string            // protocol error code
	Args     []string          // protocol error arguments
}
