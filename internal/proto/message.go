package proto

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/wirechat-client/internal/core"
)

// Inbound is the envelope for events coming from the server.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeRegistered = "registered"
	InboundTypeMessage    = "message"
	InboundTypeJoin       = "join"
	InboundTypePart       = "part"
	InboundTypeNick       = "nick"
	InboundTypeNames      = "names"
	InboundTypeQuit       = "quit"
	InboundTypeError      = "error"

	OutboundTypeHello   = "hello"
	OutboundTypeMessage = "message"
	OutboundTypeCommand = "command"
)

// RegisteredData confirms the connection and carries our nick.
type RegisteredData struct {
	Nick string `json:"nick"`
}

// MessageData is a chat message addressed to a channel, the root buffer, or us.
type MessageData struct {
	To   string `json:"to"`
	Nick string `json:"nick"`
	Text string `json:"text"`
}

// JoinData reports a user joining a channel.
type JoinData struct {
	Channel string `json:"channel"`
	Nick    string `json:"nick"`
	Message string `json:"message,omitempty"`
}

// PartData reports a user leaving a channel.
type PartData struct {
	Channel string `json:"channel"`
	Nick    string `json:"nick"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// NickData reports a nick change visible in the listed channels.
type NickData struct {
	OldNick  string   `json:"oldnick"`
	NewNick  string   `json:"newnick"`
	Channels []string `json:"channels"`
}

// NamesData delivers a complete membership snapshot for a channel.
type NamesData struct {
	Channel string            `json:"channel"`
	Names   map[string]string `json:"names"`
}

// QuitData reports a user disconnecting from all listed channels.
type QuitData struct {
	Nick     string   `json:"nick"`
	Channels []string `json:"channels"`
	Reason   string   `json:"reason,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// ErrorData is a server-reported protocol error.
type ErrorData struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// Context scopes an outbound request to a buffer.
type Context struct {
	Target string `json:"target"`
}

// Outbound is the envelope for requests sent to the server.
type Outbound struct {
	Type    string   `json:"type"`
	Raw     string   `json:"raw,omitempty"`
	Context *Context `json:"context,omitempty"`

	// Hello fields.
	Nick     string `json:"nick,omitempty"`
	Session  string `json:"session,omitempty"`
	Protocol int    `json:"protocol,omitempty"`
}

// Hello introduces the client; sent once right after dialing.
func Hello(nick, session string) Outbound {
	return Outbound{
		Type:     OutboundTypeHello,
		Nick:     nick,
		Session:  session,
		Protocol: ProtocolVersion,
	}
}

// Encode maps an outbound core command to its wire envelope.
func Encode(cmd core.Command) Outbound {
	t := OutboundTypeMessage
	if cmd.Kind == core.CommandRaw {
		t = OutboundTypeCommand
	}
	return Outbound{
		Type:    t,
		Raw:     cmd.Raw,
		Context: &Context{Target: cmd.Target},
	}
}

// Decode maps an inbound envelope to a core event. Unknown envelope types are
// an error so the bridge can log and keep reading.
func Decode(in Inbound) (core.Event, error) {
	switch in.Type {
	case InboundTypeRegistered:
		var d RegisteredData
		if err := unmarshal(in, &d); err != nil {
			return core.Event{}, err
		}
		return core.Event{Kind: core.EventRegistered, Nick: d.Nick}, nil
	case InboundTypeMessage:
		var d MessageData
		if err := unmarshal(in, &d); err != nil {
			return core.Event{}, err
		}
		return core.Event{Kind: core.EventMessage, To: d.To, Nick: d.Nick, Text: d.Text}, nil
	case InboundTypeJoin:
		var d JoinData
		if err := unmarshal(in, &d); err != nil {
			return core.Event{}, err
		}
		return core.Event{Kind: core.EventJoin, Channel: d.Channel, Nick: d.Nick, Message: d.Message}, nil
	case InboundTypePart:
		var d PartData
		if err := unmarshal(in, &d); err != nil {
			return core.Event{}, err
		}
		return core.Event{Kind: core.EventPart, Channel: d.Channel, Nick: d.Nick, Reason: d.Reason, Message: d.Message}, nil
	case InboundTypeNick:
		var d NickData
		if err := unmarshal(in, &d); err != nil {
			return core.Event{}, err
		}
		return core.Event{Kind: core.EventNick, OldNick: d.OldNick, NewNick: d.NewNick, Channels: d.Channels}, nil
	case InboundTypeNames:
		var d NamesData
		if err := unmarshal(in, &d); err != nil {
			return core.Event{}, err
		}
		return core.Event{Kind: core.EventNames, Channel: d.Channel, Names: d.Names}, nil
	case InboundTypeQuit:
		var d QuitData
		if err := unmarshal(in, &d); err != nil {
			return core.Event{}, err
		}
		return core.Event{Kind: core.EventQuit, Nick: d.Nick, Channels: d.Channels, Reason: d.Reason, Message: d.Message}, nil
	case InboundTypeError:
		var d ErrorData
		if err := unmarshal(in, &d); err != nil {
			return core.Event{}, err
		}
		return core.Event{Kind: core.EventProtoError, Code: d.Command, Args: d.Args}, nil
	default:
		return core.Event{}, fmt.Errorf("unknown inbound type %q", in.Type)
	}
}

func unmarshal(in Inbound, v any) error {
	if err := json.Unmarshal(in.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", in.Type, err)
	}
	return nil
}
