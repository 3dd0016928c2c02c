package core

// CommandKind describes what the client asks the server to do.
type CommandKind int

const (
	// CommandMessage delivers chat text to the target's counterpart.
	CommandMessage CommandKind = iota
	// CommandRaw forwards a user-typed server command verbatim.
	CommandRaw
)

// Command is an outbound request for the bridge.
type Command struct {
	Kind   CommandKind
	Raw    string
	Target string
}

// IntentKind describes a local UI action.
type IntentKind int

const (
	// IntentSubmit routes one line of user input.
	IntentSubmit IntentKind = iota
	// IntentNextTab moves the current buffer forward.
	IntentNextTab
	// IntentPreviousTab moves the current buffer backward.
	IntentPreviousTab
)

// Intent is a local action requested by the UI.
type Intent struct {
	Kind IntentKind
	Raw  string
}
