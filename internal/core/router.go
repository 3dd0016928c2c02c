package core

import "strings"

// InputKind classifies one submitted line.
type InputKind int

const (
	// InputChat is plain text for the current buffer.
	InputChat InputKind = iota
	// InputRemoteCommand is forwarded to the server verbatim.
	InputRemoteCommand
	// InputLocalCommand is handled by the session itself.
	InputLocalCommand
	// InputDiscard is dropped: the root buffer accepts only commands.
	InputDiscard
)

// LocalKind identifies a locally handled command.
type LocalKind int

const (
	// LocalPartChat closes the current private chat buffer.
	LocalPartChat LocalKind = iota
	// LocalPrivateMsg opens a private chat and sends its first message.
	LocalPrivateMsg
)

// Input is the routing decision for one submitted line.
type Input struct {
	Kind  InputKind
	Local LocalKind
	Raw   string
	Args  []string
}

// Classify decides whether raw input is chat text, a server command, or a
// locally handled command. currentBuffer is the buffer the user is typing in;
// chat text typed into the root buffer is discarded.
func Classify(raw, currentBuffer, rootBuffer string, prefix byte) Input {
	if len(raw) > 0 && raw[0] == prefix {
		stripped := raw[1:]
		tokens := strings.Fields(stripped)
		privateChat := currentBuffer != rootBuffer && !strings.HasPrefix(currentBuffer, ChannelSigil)
		switch {
		case len(tokens) == 1 && tokens[0] == "part" && privateChat:
			return Input{Kind: InputLocalCommand, Local: LocalPartChat, Raw: stripped}
		case len(tokens) > 0 && tokens[0] == "pm":
			return Input{Kind: InputLocalCommand, Local: LocalPrivateMsg, Raw: stripped, Args: tokens[1:]}
		default:
			return Input{Kind: InputRemoteCommand, Raw: stripped}
		}
	}
	if currentBuffer == rootBuffer {
		return Input{Kind: InputDiscard, Raw: raw}
	}
	return Input{Kind: InputChat, Raw: raw}
}
