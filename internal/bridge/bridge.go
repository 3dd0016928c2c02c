// Package bridge connects the session to a chat server over a websocket,
// translating wire envelopes to core events and outbound commands back to
// wire envelopes.
package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/core"
	"github.com/vovakirdan/wirechat-client/internal/proto"
)

// Bridge is one live server connection.
type Bridge struct {
	conn *websocket.Conn
	log  *zerolog.Logger
}

// Dial connects to url and introduces the client with a hello envelope
// carrying the preferred nick and a fresh session id.
func Dial(ctx context.Context, url, nick string, logger *zerolog.Logger) (*Bridge, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	if err := wsjson.Write(ctx, conn, proto.Hello(nick, uuid.NewString())); err != nil {
		conn.Close(websocket.StatusInternalError, "hello failed")
		return nil, fmt.Errorf("send hello: %w", err)
	}

	logger.Info().Str("url", url).Str("nick", nick).Msg("connected")
	return &Bridge{conn: conn, log: logger}, nil
}

// Run pumps inbound envelopes into events and outbound commands onto the wire
// until ctx is cancelled or the connection fails. Normal closures return nil.
func (b *Bridge) Run(ctx context.Context, events chan<- core.Event, commands <-chan core.Command) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- b.readLoop(loopCtx, events)
	}()
	go func() {
		errCh <- b.writeLoop(loopCtx, commands)
	}()

	err := <-errCh
	cancel() // stop the other loop
	<-errCh

	b.conn.Close(websocket.StatusNormalClosure, "bye")

	// Cancellation of the caller's context is a clean shutdown.
	if err == nil || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return nil
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return nil
	}
	return err
}

func (b *Bridge) readLoop(ctx context.Context, events chan<- core.Event) error {
	for {
		var in proto.Inbound
		if err := wsjson.Read(ctx, b.conn, &in); err != nil {
			return err
		}

		ev, err := proto.Decode(in)
		if err != nil {
			b.log.Warn().Err(err).Str("type", in.Type).Msg("dropping undecodable envelope")
			continue
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Bridge) writeLoop(ctx context.Context, commands <-chan core.Command) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-commands:
			if err := wsjson.Write(ctx, b.conn, proto.Encode(cmd)); err != nil {
				return err
			}
		}
	}
}
