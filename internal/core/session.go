package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ProtoErrNoSuchNick is the protocol error code for undeliverable private
// messages.
const ProtoErrNoSuchNick = "err_nosuchnick"

// Options carries the session constants resolved at startup.
type Options struct {
	RootBuffer    string
	CommandPrefix byte
}

// Session owns the client-side chat state: the local nick, the buffer set and
// the channel rosters. It consumes protocol events from the bridge and intents
// from the UI one at a time, and publishes a fresh snapshot after every state
// change.
type Session struct {
	Events   chan Event      // inbound protocol events, fed by the bridge
	Intents  chan Intent     // local UI actions
	Commands chan Command    // outbound requests, drained by the bridge
	Updates  chan Snapshot   // renderable state, latest wins
	Errors   chan *CoreError // recoverable user-facing errors

	nick    string
	buffers *BufferSet
	rosters *Rosters
	opts    Options
	log     *zerolog.Logger
}

// NewSession constructs a session holding only the root buffer. A nil logger
// disables logging.
func NewSession(opts Options, logger *zerolog.Logger) *Session {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Session{
		Events:   make(chan Event, 8),
		Intents:  make(chan Intent, 8),
		Commands: make(chan Command, 8),
		Updates:  make(chan Snapshot, 1),
		Errors:   make(chan *CoreError, 8),
		buffers:  NewBufferSet(opts.RootBuffer),
		rosters:  NewRosters(),
		opts:     opts,
		log:      logger,
	}
}

// Run processes events and intents until ctx is cancelled. All state lives on
// this goroutine, so lookup-then-mutate sequences never interleave. No handler
// blocks and no handler failure stops the loop.
func (s *Session) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.Events:
			s.handleEvent(ev)
			s.publish()
		case in := <-s.Intents:
			s.handleIntent(in)
			s.publish()
		}
	}
}

func (s *Session) handleEvent(ev Event) {
	switch ev.Kind {
	case EventRegistered:
		s.nick = ev.Nick
	case EventMessage:
		// Channel and root-buffer traffic lands in the named buffer;
		// anything else is a private message filed under the sender.
		target := ev.Nick
		if strings.HasPrefix(ev.To, ChannelSigil) || ev.To == s.opts.RootBuffer {
			target = ev.To
		}
		s.buffers.Send(target, ev.Nick, ev.Text)
	case EventJoin:
		if ev.Nick == s.nick {
			s.buffers.Ensure(ev.Channel)
			s.switchTo(ev.Channel)
		} else {
			s.rosters.Add(ev.Channel, ev.Nick)
		}
		s.buffers.SystemMessage(ev.Channel, joinNotice(ev))
	case EventPart:
		s.handlePart(ev)
	case EventNick:
		s.handleNick(ev)
	case EventNames:
		members := make(map[string]Member, len(ev.Names))
		for nick, mode := range ev.Names {
			members[nick] = Member{Mode: mode, Self: nick == s.nick}
		}
		s.rosters.ReplaceAll(ev.Channel, members)
	case EventQuit:
		// A quit fans out into one part per joined channel.
		for _, channel := range ev.Channels {
			s.handlePart(Event{
				Kind:    EventPart,
				Channel: channel,
				Nick:    ev.Nick,
				Reason:  ev.Reason,
				Message: ev.Message,
			})
		}
	case EventProtoError:
		s.handleProtoError(ev)
	default:
		s.log.Warn().Int("kind", int(ev.Kind)).Msg("unhandled event kind")
	}
}

func (s *Session) handlePart(ev Event) {
	if ev.Nick == s.nick {
		// Only the confirming server event removes the buffer; a locally
		// issued part command does not touch state on its own.
		if err := s.buffers.Remove(ev.Channel); err != nil {
			s.log.Warn().Err(err).Str("channel", ev.Channel).Msg("part for unknown buffer")
		}
		s.rosters.Clear(ev.Channel)
		return
	}
	s.buffers.SystemMessage(ev.Channel, partNotice(ev))
	s.rosters.Remove(ev.Channel, ev.Nick)
}

func (s *Session) handleNick(ev Event) {
	channels := ev.Channels
	if ev.OldNick == s.nick {
		s.nick = ev.NewNick
		// Our own rename must show up in the root buffer too, even though
		// it is not a joined channel.
		channels = append(channels, s.opts.RootBuffer)
	}
	s.buffers.RenameNick(ev.OldNick, ev.NewNick)
	for _, channel := range channels {
		s.rosters.Rename(channel, ev.OldNick, ev.NewNick)
		s.buffers.SystemMessage(channel, fmt.Sprintf("%s is now known as %s", ev.OldNick, ev.NewNick))
	}
}

func (s *Session) handleProtoError(ev Event) {
	switch ev.Code {
	case ProtoErrNoSuchNick:
		if len(ev.Args) < 2 {
			s.log.Warn().Strs("args", ev.Args).Msg("malformed nosuchnick error")
			return
		}
		nick := ev.Args[1]
		s.buffers.SystemMessage(nick, fmt.Sprintf("message to %s could not be delivered: no such nick", nick))
	default:
		s.log.Warn().Str("code", ev.Code).Strs("args", ev.Args).Msg("unhandled protocol error")
	}
}

func (s *Session) handleIntent(in Intent) {
	switch in.Kind {
	case IntentSubmit:
		s.submit(in.Raw)
	case IntentNextTab:
		s.switchTo(s.buffers.Next().Name)
	case IntentPreviousTab:
		s.switchTo(s.buffers.Previous().Name)
	}
}

func (s *Session) submit(raw string) {
	current := s.buffers.Current().Name
	in := Classify(raw, current, s.opts.RootBuffer, s.opts.CommandPrefix)
	switch in.Kind {
	case InputChat:
		s.send(Command{Kind: CommandMessage, Raw: in.Raw, Target: current})
		// Optimistic echo; the server will not reflect our own message.
		s.buffers.Send(current, s.nick, in.Raw)
	case InputRemoteCommand:
		s.send(Command{Kind: CommandRaw, Raw: in.Raw, Target: current})
	case InputLocalCommand:
		s.handleLocal(in)
	case InputDiscard:
		// The root buffer accepts only commands.
	}
}

func (s *Session) handleLocal(in Input) {
	switch in.Local {
	case LocalPartChat:
		name := s.buffers.Current().Name
		if err := s.buffers.Remove(name); err != nil {
			s.log.Warn().Err(err).Str("buffer", name).Msg("cannot close buffer")
		}
	case LocalPrivateMsg:
		if len(in.Args) < 2 {
			s.report(coreError(ErrCodeBadUsage, "usage: pm <nick> <message>"))
			return
		}
		target := in.Args[0]
		text := strings.Join(in.Args[1:], " ")
		s.send(Command{Kind: CommandMessage, Raw: text, Target: target})
		s.buffers.Send(target, s.nick, text)
		s.switchTo(target)
	}
}

func (s *Session) switchTo(name string) {
	if err := s.buffers.SetCurrent(name); err != nil {
		s.log.Warn().Err(err).Str("buffer", name).Msg("buffer switch failed")
	}
}

func (s *Session) send(cmd Command) {
	select {
	case s.Commands <- cmd:
	default:
		s.log.Warn().Str("raw", cmd.Raw).Msg("outbound queue full, dropping command")
	}
}

func (s *Session) report(err *CoreError) {
	select {
	case s.Errors <- err:
	default:
	}
}

func joinNotice(ev Event) string {
	if ev.Message != "" {
		return fmt.Sprintf("%s joined %s (%s)", ev.Nick, ev.Channel, ev.Message)
	}
	return fmt.Sprintf("%s joined %s", ev.Nick, ev.Channel)
}

func partNotice(ev Event) string {
	switch {
	case ev.Reason != "":
		return fmt.Sprintf("%s left %s (%s)", ev.Nick, ev.Channel, ev.Reason)
	case ev.Message != "":
		return fmt.Sprintf("%s left %s (%s)", ev.Nick, ev.Channel, ev.Message)
	default:
		return fmt.Sprintf("%s left %s", ev.Nick, ev.Channel)
	}
}
