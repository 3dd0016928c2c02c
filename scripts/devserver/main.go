// Command devserver is a minimal chat server for local client development.
// It speaks the client's envelope protocol only: no auth, no persistence,
// no flood control. Run it, then point one or more clients at it:
//
//	go run ./scripts/devserver -addr :8080
//	go run ./cmd/client --server ws://localhost:8080/ws --nick alice
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/wirechat-client/internal/proto"
)

type client struct {
	conn *websocket.Conn
	nick string
	mu   sync.Mutex // serializes writes
}

func (c *client) send(ctx context.Context, typ string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("marshal %s: %v", typ, err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := wsjson.Write(ctx, c.conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		log.Printf("send %s to %s: %v", typ, c.nick, err)
	}
}

type server struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	channels map[string]map[*client]struct{}
}

func newServer() *server {
	return &server{
		clients:  make(map[*client]struct{}),
		channels: make(map[string]map[*client]struct{}),
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Printf("accept: %v", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	ctx := r.Context()

	var hello proto.Outbound
	if err := wsjson.Read(ctx, conn, &hello); err != nil || hello.Type != proto.OutboundTypeHello {
		conn.Close(websocket.StatusPolicyViolation, "expected hello")
		return
	}

	c := &client{conn: conn, nick: hello.Nick}
	if c.nick == "" {
		c.nick = fmt.Sprintf("guest-%d", time.Now().UnixNano()%10000)
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	c.send(ctx, proto.InboundTypeRegistered, proto.RegisteredData{Nick: c.nick})
	log.Printf("%s connected", c.nick)

	defer s.disconnect(ctx, c)

	for {
		var out proto.Outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			return
		}
		switch out.Type {
		case proto.OutboundTypeMessage:
			s.deliver(ctx, c, out)
		case proto.OutboundTypeCommand:
			s.command(ctx, c, out)
		}
	}
}

func (s *server) deliver(ctx context.Context, from *client, out proto.Outbound) {
	if out.Context == nil {
		return
	}
	target := out.Context.Target
	msg := proto.MessageData{To: target, Nick: from.nick, Text: out.Raw}

	if strings.HasPrefix(target, "#") {
		// The sender echoes locally, so skip it on broadcast.
		s.broadcast(ctx, target, from, proto.InboundTypeMessage, msg)
		return
	}

	if to := s.byNick(target); to != nil {
		to.send(ctx, proto.InboundTypeMessage, proto.MessageData{To: to.nick, Nick: from.nick, Text: out.Raw})
		return
	}
	from.send(ctx, proto.InboundTypeError, proto.ErrorData{
		Command: "err_nosuchnick",
		Args:    []string{from.nick, target, "No such nick/channel"},
	})
}

func (s *server) command(ctx context.Context, c *client, out proto.Outbound) {
	tokens := strings.Fields(out.Raw)
	if len(tokens) == 0 {
		return
	}
	switch tokens[0] {
	case "join":
		if len(tokens) < 2 {
			return
		}
		s.join(ctx, c, tokens[1])
	case "part":
		// A bare part applies to the buffer it was typed in.
		channel, reason := "", ""
		if len(tokens) >= 2 {
			channel = tokens[1]
			reason = strings.Join(tokens[2:], " ")
		} else if out.Context != nil {
			channel = out.Context.Target
		}
		if strings.HasPrefix(channel, "#") {
			s.part(ctx, c, channel, reason)
		}
	case "nick":
		if len(tokens) < 2 {
			return
		}
		s.rename(ctx, c, tokens[1])
	default:
		log.Printf("%s sent unsupported command %q", c.nick, out.Raw)
	}
}

func (s *server) join(ctx context.Context, c *client, channel string) {
	s.mu.Lock()
	members := s.channels[channel]
	if members == nil {
		members = make(map[*client]struct{})
		s.channels[channel] = members
	}
	members[c] = struct{}{}
	names := make(map[string]string, len(members))
	for m := range members {
		names[m.nick] = ""
	}
	s.mu.Unlock()

	s.broadcast(ctx, channel, nil, proto.InboundTypeJoin, proto.JoinData{Channel: channel, Nick: c.nick})
	c.send(ctx, proto.InboundTypeNames, proto.NamesData{Channel: channel, Names: names})
}

func (s *server) part(ctx context.Context, c *client, channel, reason string) {
	s.mu.Lock()
	delete(s.channels[channel], c)
	s.mu.Unlock()

	c.send(ctx, proto.InboundTypePart, proto.PartData{Channel: channel, Nick: c.nick, Reason: reason})
	s.broadcast(ctx, channel, nil, proto.InboundTypePart, proto.PartData{Channel: channel, Nick: c.nick, Reason: reason})
}

func (s *server) rename(ctx context.Context, c *client, newNick string) {
	s.mu.Lock()
	oldNick := c.nick
	c.nick = newNick
	channels := s.memberOfLocked(c)
	recipients := make(map[*client]struct{})
	for _, channel := range channels {
		for m := range s.channels[channel] {
			recipients[m] = struct{}{}
		}
	}
	recipients[c] = struct{}{}
	s.mu.Unlock()

	data := proto.NickData{OldNick: oldNick, NewNick: newNick, Channels: channels}
	for m := range recipients {
		m.send(ctx, proto.InboundTypeNick, data)
	}
}

func (s *server) disconnect(ctx context.Context, c *client) {
	s.mu.Lock()
	channels := s.memberOfLocked(c)
	for _, channel := range channels {
		delete(s.channels[channel], c)
	}
	delete(s.clients, c)
	s.mu.Unlock()

	for _, channel := range channels {
		s.broadcast(ctx, channel, nil, proto.InboundTypeQuit, proto.QuitData{
			Nick: c.nick, Channels: []string{channel}, Reason: "connection closed",
		})
	}
	log.Printf("%s disconnected", c.nick)
}

func (s *server) memberOfLocked(c *client) []string {
	var channels []string
	for name, members := range s.channels {
		if _, ok := members[c]; ok {
			channels = append(channels, name)
		}
	}
	return channels
}

func (s *server) byNick(nick string) *client {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		if c.nick == nick {
			return c
		}
	}
	return nil
}

func (s *server) broadcast(ctx context.Context, channel string, skip *client, typ string, data any) {
	s.mu.Lock()
	members := make([]*client, 0, len(s.channels[channel]))
	for m := range s.channels[channel] {
		if m != skip {
			members = append(members, m)
		}
	}
	s.mu.Unlock()

	for _, m := range members {
		m.send(ctx, typ, data)
	}
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/ws", newServer())

	srv := &http.Server{Addr: *addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("devserver listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("devserver: %v", err)
	}
}
