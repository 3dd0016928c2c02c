package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/bridge"
	"github.com/vovakirdan/wirechat-client/internal/config"
	"github.com/vovakirdan/wirechat-client/internal/core"
	"github.com/vovakirdan/wirechat-client/internal/tui"
)

// App wires the bridge, the session and the terminal UI together.
type App struct {
	cfg config.Config
	log *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	return &App{cfg: cfg, log: logger}
}

// Run connects to the server and blocks until the UI exits, the connection
// drops, or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	br, err := bridge.Dial(ctx, a.cfg.ServerURL, a.cfg.Nick, a.log)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	session := core.NewSession(core.Options{
		RootBuffer:    a.cfg.RootBuffer,
		CommandPrefix: a.cfg.CommandPrefix[0],
	}, a.log)
	go session.Run(ctx)

	bridgeErr := make(chan error, 1)
	go func() {
		bridgeErr <- br.Run(ctx, session.Events, session.Commands)
	}()

	program := tea.NewProgram(tui.New(session.Intents), tea.WithAltScreen(), tea.WithContext(ctx))

	// Forward session state and errors into the UI.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-session.Updates:
				program.Send(tui.SnapshotMsg(snap))
			case cerr := <-session.Errors:
				program.Send(tui.NoticeMsg{Err: cerr})
			}
		}
	}()

	uiErr := make(chan error, 1)
	go func() {
		_, err := program.Run()
		uiErr <- err
	}()

	select {
	case err := <-bridgeErr:
		a.log.Info().Err(err).Msg("connection closed, shutting down ui")
		program.Quit()
		<-uiErr
		if err != nil {
			return fmt.Errorf("connection lost: %w", err)
		}
		return nil
	case err := <-uiErr:
		cancel()
		<-bridgeErr
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("ui: %w", err)
		}
		return nil
	}
}
