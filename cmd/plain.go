package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/lepinkainen/pdfkit/transport"
	"github.com/lepinkainen/pdfkit/ui"
)

// ErrDisconnected is returned when the push channel drops before a job finishes
var ErrDisconnected = errors.New("disconnected from server")

// eventStream runs the push client in the background and buffers its events
// for commands that render without the TUI
type eventStream struct {
	events chan any
	done   chan error
}

func startEventStream(ctx context.Context, push *transport.PushClient) *eventStream {
	s := &eventStream{
		events: make(chan any, 64),
		done:   make(chan error, 1),
	}
	go func() {
		s.done <- push.Run(ctx, func(v any) {
			select {
			case s.events <- v:
			case <-ctx.Done():
			}
		})
		close(s.events)
	}()
	return s
}

// waitConnected blocks until the push channel reports Connected
func (s *eventStream) waitConnected(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-s.events:
			if !ok {
				return ErrDisconnected
			}
			if ev, isConn := v.(transport.ConnectionEvent); isConn {
				if ev.State == transport.Connected {
					return nil
				}
				if ev.Err != nil {
					return fmt.Errorf("%w: %w", ErrDisconnected, ev.Err)
				}
				return ErrDisconnected
			}
		}
	}
}

// plainRenderer prints one tool's status events with a progressbar/v3 bar
type plainRenderer struct {
	tool   string
	out    io.Writer
	bar    *progressbar.ProgressBar
	seen   ui.Session
	logger *zap.SugaredLogger
}

func newPlainRenderer(tool string, out io.Writer, logger *zap.SugaredLogger) *plainRenderer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(tool),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	return &plainRenderer{tool: tool, out: out, bar: bar, seen: ui.Session{Tool: tool}, logger: logger}
}

// handle applies one event and reports whether the job reached a terminal status
func (r *plainRenderer) handle(ev transport.StatusEvent) (done bool, err error) {
	if ev.Tool != r.tool {
		return false, nil
	}

	if ev.Progress != nil {
		p := int(*ev.Progress)
		p = max(0, min(p, 100))
		_ = r.bar.Set(p)
	}
	if ev.Message != "" {
		r.bar.Describe(fmt.Sprintf("%s: %s", r.tool, ev.Message))
	}

	if ev.LogEntry != "" {
		entry := ui.LogEntry{Heading: ui.CardHeading(ev.LogEntry, ev.Status), Text: ev.LogEntry, Kind: ev.Status}
		if r.seen.Append(entry) {
			r.println(fmt.Sprintf("%s: %s", entry.Heading, entry.Text))
		}
	}

	switch ev.Status {
	case transport.StatusWarning:
		r.println(ui.WarningStyle.Render("⚠️  " + ev.Message))
	case transport.StatusError:
		r.logger.Warnw("Job failed", "tool", r.tool, "message", ev.Message)
		_ = r.bar.Exit()
		fmt.Fprintln(r.out)
		return true, errors.New(ev.Message)
	case transport.StatusSuccess:
		r.logger.Infow("Job finished", "tool", r.tool, "downloads", len(ev.Downloads))
		_ = r.bar.Finish()
		fmt.Fprintln(r.out, ui.SuccessStyle.Render("✅ "+ev.Message))
		r.summary(ev)
		return true, nil
	}
	return false, nil
}

func (r *plainRenderer) println(line string) {
	_ = r.bar.Clear()
	fmt.Fprintln(r.out, line)
	_ = r.bar.RenderBlank()
}

func (r *plainRenderer) summary(ev transport.StatusEvent) {
	if ev.HasSizes() {
		fmt.Fprintf(r.out, "Original: %s   Compressed: %s   Reduction: %s\n",
			ev.OriginalSize, ev.CompressedSize, ev.ReductionPercent)
	}
	if ev.PreviewText != "" {
		fmt.Fprintln(r.out, ui.InfoStyle.Render("Preview:"))
		fmt.Fprintln(r.out, strings.TrimSpace(ev.PreviewText))
	}
	for _, d := range ev.Downloads {
		fmt.Fprintf(r.out, "⬇ %s: %s\n", d.DisplayLabel(), d.URL)
	}
}

// runPlain submits form and follows its progress on stdout
func runPlain(ctx context.Context, client *transport.Client, push *transport.PushClient, form transport.Form, outDir string, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := startEventStream(ctx, push)
	if err := stream.waitConnected(ctx); err != nil {
		return err
	}

	resp, err := client.Submit(ctx, form)
	if err != nil {
		return fmt.Errorf("error submitting form: %w", err)
	}
	if resp.Status == transport.StatusError {
		return errors.New(resp.Message)
	}
	logger.Infow("Submission accepted", "tool", form.Tool, "status", resp.Status)

	r := newPlainRenderer(form.Tool, os.Stdout, logger)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-stream.events:
			if !ok {
				return ErrDisconnected
			}
			switch ev := v.(type) {
			case transport.ConnectionEvent:
				if ev.State == transport.Disconnected {
					return ErrDisconnected
				}
			case transport.StatusEvent:
				done, err := r.handle(ev)
				if !done {
					continue
				}
				if err != nil {
					return err
				}
				if outDir == "" {
					return nil
				}
				return downloadAll(ctx, client, ev.Downloads, outDir)
			}
		}
	}
}

// downloadAll fetches every result file into dir with a byte progress bar
func downloadAll(ctx context.Context, client *transport.Client, downloads []transport.Download, dir string) error {
	for _, d := range downloads {
		name := d.Filename
		if name == "" {
			name = d.URL
		}
		var bar *progressbar.ProgressBar
		path, err := client.Download(ctx, d.URL, dir, func(size int64) io.Writer {
			bar = progressbar.DefaultBytes(size, "downloading "+name)
			return bar
		})
		if bar != nil {
			_ = bar.Finish()
		}
		if err != nil {
			return fmt.Errorf("failed to download %s: %w", d.URL, err)
		}
		fmt.Println(ui.SuccessStyle.Render("✅ Saved " + path))
	}
	return nil
}
