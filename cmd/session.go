package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/pdfkit/prefs"
	"github.com/lepinkainen/pdfkit/transport"
	"github.com/lepinkainen/pdfkit/types"
	"github.com/lepinkainen/pdfkit/ui"
	"github.com/lepinkainen/pdfkit/utils"
)

// connect builds the HTTP client and push client for the configured server
func connect(appCtx *types.AppContext) (*transport.Client, *transport.PushClient, error) {
	client, err := transport.NewClient(appCtx.Server, appCtx.Timeout, appCtx.Log())
	if err != nil {
		return nil, nil, err
	}
	wsURL, err := utils.PushURL(appCtx.Server)
	if err != nil {
		return nil, nil, err
	}
	if !utils.IsLocalServer(appCtx.Server) && strings.HasPrefix(appCtx.Server, "http://") {
		appCtx.Log().Warnw("Uploading to a remote server over plain HTTP", "server", appCtx.Server)
	}
	return client, transport.NewPushClient(wsURL, appCtx.Log()), nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// tuiOptions selects what the interactive session shows
type tuiOptions struct {
	Tools   []string
	Pending *transport.Form
	Arrange *ui.Arrangement
	Follow  bool
	OutDir  string
}

// runTUI runs the bubbletea program next to the push channel reader and the
// preferences watcher. The program owns the session: when it exits the
// other goroutines are cancelled.
func runTUI(appCtx *types.AppContext, opts tuiOptions) error {
	logger := appCtx.Log()

	client, push, err := connect(appCtx)
	if err != nil {
		return err
	}

	parent, stop := signalContext()
	defer stop()
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	var player ui.Player = &ui.BellPlayer{Muted: true}
	if bell, tty, err := ui.NewTTYBellPlayer(); err != nil {
		logger.Infow("Terminal bell unavailable", "error", err)
	} else {
		defer tty.Close()
		player = bell
	}
	ctrl := ui.NewController(ui.NewBoard(opts.Tools...), client,
		ui.WithPlayer(player),
		ui.WithLogger(logger),
		ui.WithContext(gctx),
		ui.WithTimelinePolicy(ui.ParseTimelinePolicy(appCtx.Timeline)),
	)

	copyFn := utils.CopyToClipboard
	if err := utils.ValidateClipboard(); err != nil {
		logger.Infow("Clipboard unavailable, link copying disabled", "error", err)
		copyFn = nil
	}

	model := ui.NewModel(ctrl, ui.ModelConfig{
		Version:    appCtx.VersionOrDefault(),
		Prefs:      appCtx.Prefs,
		Pending:    opts.Pending,
		Arrange:    opts.Arrange,
		Follow:     opts.Follow,
		Downloader: client,
		OutDir:     opts.OutDir,
		Copy:       copyFn,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
	send := func(msg any) { program.Send(msg) }

	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && gctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		// Drops are shown in the UI and redialled
		if err := push.RunReconnecting(gctx, send); err != nil {
			logger.Warnw("Push channel closed", "error", err)
		}
		return nil
	})

	if appCtx.Prefs != nil {
		g.Go(func() error {
			err := appCtx.Prefs.Watch(gctx, func(p prefs.Preferences) {
				send(ui.PrefsChangedMsg{Prefs: p})
			})
			if err != nil && gctx.Err() == nil {
				logger.Warnw("Preference watcher stopped", "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("ui session failed: %w", err)
	}
	return nil
}
