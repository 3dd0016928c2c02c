package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/core"
	"github.com/vovakirdan/wirechat-client/internal/proto"
)

// fakeServer accepts one websocket connection and exposes both ends of the
// wire for the test to drive.
type fakeServer struct {
	ts    *httptest.Server
	conns chan *websocket.Conn
}

func startFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	fs := &fakeServer{conns: make(chan *websocket.Conn, 1)}
	fs.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		fs.conns <- conn
		// Keep the handler alive until the test server shuts down.
		<-r.Context().Done()
	}))
	t.Cleanup(fs.ts.Close)

	return fs
}

func (fs *fakeServer) url() string {
	return strings.Replace(fs.ts.URL, "http", "ws", 1)
}

func (fs *fakeServer) conn(t *testing.T) *websocket.Conn {
	t.Helper()

	select {
	case conn := <-fs.conns:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("no websocket connection accepted")
		return nil
	}
}

func mustEvent(t *testing.T, ch <-chan core.Event) core.Event {
	t.Helper()

	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("expected an event")
		return core.Event{}
	}
}

func TestBridgeHelloAndEventFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fs := startFakeServer(t)
	logger := zerolog.Nop()

	b, err := Dial(ctx, fs.url(), "me", &logger)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	events := make(chan core.Event, 8)
	commands := make(chan core.Command, 8)
	runErr := make(chan error, 1)
	go func() {
		runErr <- b.Run(ctx, events, commands)
	}()

	server := fs.conn(t)
	defer server.Close(websocket.StatusNormalClosure, "done")

	// The client introduces itself first.
	var hello proto.Outbound
	if err := wsjson.Read(ctx, server, &hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != proto.OutboundTypeHello || hello.Nick != "me" || hello.Session == "" {
		t.Fatalf("unexpected hello: %+v", hello)
	}

	// Server events surface as decoded core events.
	data, _ := json.Marshal(proto.RegisteredData{Nick: "me"})
	if err := wsjson.Write(ctx, server, proto.Inbound{Type: proto.InboundTypeRegistered, Data: data}); err != nil {
		t.Fatalf("write registered: %v", err)
	}
	ev := mustEvent(t, events)
	if ev.Kind != core.EventRegistered || ev.Nick != "me" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	// Outbound commands reach the wire as envelopes.
	commands <- core.Command{Kind: core.CommandMessage, Raw: "hi", Target: "#go"}
	var out proto.Outbound
	if err := wsjson.Read(ctx, server, &out); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	if out.Type != proto.OutboundTypeMessage || out.Raw != "hi" || out.Context.Target != "#go" {
		t.Fatalf("unexpected outbound: %+v", out)
	}

	cancel()
	if err := <-runErr; err != nil {
		t.Fatalf("Run returned %v after cancellation", err)
	}
}

func TestBridgeSkipsUndecodableEnvelopes(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fs := startFakeServer(t)
	logger := zerolog.Nop()

	b, err := Dial(ctx, fs.url(), "me", &logger)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	events := make(chan core.Event, 8)
	commands := make(chan core.Command)
	go b.Run(ctx, events, commands)

	server := fs.conn(t)
	defer server.Close(websocket.StatusNormalClosure, "done")

	var hello proto.Outbound
	if err := wsjson.Read(ctx, server, &hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}

	// An unknown envelope must not kill the read loop.
	if err := wsjson.Write(ctx, server, proto.Inbound{Type: "teleport", Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("write unknown: %v", err)
	}
	data, _ := json.Marshal(proto.JoinData{Channel: "#go", Nick: "me"})
	if err := wsjson.Write(ctx, server, proto.Inbound{Type: proto.InboundTypeJoin, Data: data}); err != nil {
		t.Fatalf("write join: %v", err)
	}

	ev := mustEvent(t, events)
	if ev.Kind != core.EventJoin || ev.Channel != "#go" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestBridgeRunReturnsNilOnServerClose(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fs := startFakeServer(t)
	logger := zerolog.Nop()

	b, err := Dial(ctx, fs.url(), "me", &logger)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	events := make(chan core.Event, 8)
	commands := make(chan core.Command)
	runErr := make(chan error, 1)
	go func() {
		runErr <- b.Run(ctx, events, commands)
	}()

	server := fs.conn(t)
	var hello proto.Outbound
	if err := wsjson.Read(ctx, server, &hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	server.Close(websocket.StatusNormalClosure, "bye")

	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("Run = %v, want nil on normal closure", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after server close")
	}
}
