package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lepinkainen/pdfkit/transport"
)

// ProgressHideDelay is how long the progress region stays up after a terminal event
const ProgressHideDelay = 1000 * time.Millisecond

// Submitter is the request/response side of the transport
type Submitter interface {
	Submit(ctx context.Context, form transport.Form) (*transport.Response, error)
	SendEmail(ctx context.Context, job transport.EmailJob) (*transport.Response, error)
}

// Controller maps submissions and push events onto the board. All methods
// run on the program's event loop; anything slow or delayed is returned as
// a tea.Cmd whose message comes back through Update.
type Controller struct {
	board    *Board
	client   Submitter
	notifier *Notifier
	player   Player
	logger   *zap.SugaredLogger
	ctx      context.Context
	now      func() time.Time
	policy   TimelinePolicy

	sessions map[string]*Session
	modal    *EmailModal
	modalSeq uint64
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithPlayer sets the audio player
func WithPlayer(p Player) ControllerOption {
	return func(c *Controller) { c.player = p }
}

// WithLogger sets the logger
func WithLogger(l *zap.SugaredLogger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// WithTimelinePolicy selects how timeline markers react to lower progress
func WithTimelinePolicy(p TimelinePolicy) ControllerOption {
	return func(c *Controller) { c.policy = p }
}

// WithContext sets the context used for outgoing requests
func WithContext(ctx context.Context) ControllerOption {
	return func(c *Controller) { c.ctx = ctx }
}

// NewController wires a controller to its regions and transport
func NewController(board *Board, client Submitter, opts ...ControllerOption) *Controller {
	c := &Controller{
		board:    board,
		client:   client,
		player:   silentPlayer{},
		logger:   zap.NewNop().Sugar(),
		ctx:      context.Background(),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.notifier = NewNotifier(c.player, c.logger)
	return c
}

// Board returns the regions the controller renders into
func (c *Controller) Board() *Board { return c.board }

// Player returns the audio player
func (c *Controller) Player() Player { return c.player }

// Logger returns the controller's logger
func (c *Controller) Logger() *zap.SugaredLogger { return c.logger }

// Context returns the context used for outgoing requests
func (c *Controller) Context() context.Context { return c.ctx }

// Notifier returns the notification slot
func (c *Controller) Notifier() *Notifier { return c.notifier }

// Session returns the session for tool, creating it on first use
func (c *Controller) Session(tool string) *Session {
	s, ok := c.sessions[tool]
	if !ok {
		s = newSession(tool)
		c.sessions[tool] = s
	}
	return s
}

// Notify shows a notification
func (c *Controller) Notify(message string, kind transport.Status) tea.Cmd {
	return c.notifier.Show(message, kind)
}

// OnSubmit resets the tool's regions and dispatches the form. The returned
// command resolves to a SubmitResultMsg carrying only the admission outcome.
func (c *Controller) OnSubmit(form transport.Form) tea.Cmd {
	s := c.Session(form.Tool)
	s.Reset(c.now())
	c.board.Size.Visible = false

	if v := c.board.View(form.Tool); v != nil {
		v.ProgressVisible = true
		v.ProgressWidth = 0
		v.Status = "Processing..."
		v.LogVisible = true
		v.TimelineWidth = 0
		v.Stages = s.Stages
		v.Timer = "00:00"
		v.PreviewVisible = false
		v.Results = ResultPanel{}
	}

	c.logger.Infow("Submitting", "tool", form.Tool, "generation", s.Generation)

	client, ctx, gen := c.client, c.ctx, s.Generation
	return func() tea.Msg {
		resp, err := client.Submit(ctx, form)
		return SubmitResultMsg{Tool: form.Tool, Generation: gen, Response: resp, Err: err}
	}
}

// OnSubmitResult surfaces immediate admission failures. Successful admission
// changes nothing: progress arrives on the push channel.
func (c *Controller) OnSubmitResult(msg SubmitResultMsg) tea.Cmd {
	s := c.Session(msg.Tool)
	if msg.Generation != s.Generation {
		c.logger.Debugw("Ignoring stale submission result", "tool", msg.Tool, "generation", msg.Generation)
		return nil
	}

	var status string
	switch {
	case msg.Err != nil:
		c.logger.Errorw("Submission failed", "tool", msg.Tool, "error", msg.Err)
		status = "Error submitting form: " + msg.Err.Error()
	case msg.Response != nil && msg.Response.Status == transport.StatusError:
		status = msg.Response.Message
	default:
		return nil
	}

	s.Phase = PhaseError
	if v := c.board.View(msg.Tool); v != nil {
		if msg.Err != nil {
			v.Status = "Error: " + msg.Err.Error()
		} else {
			v.Status = status
		}
		v.ProgressVisible = false
	}
	return c.notifier.Show(status, transport.StatusError)
}

// OnStatusEvent applies one status_update to the tool's session and regions
func (c *Controller) OnStatusEvent(ev transport.StatusEvent) tea.Cmd {
	s := c.Session(ev.Tool)
	v := c.board.View(ev.Tool)
	now := c.now()
	var cmds []tea.Cmd

	// A job started elsewhere after the last one finished
	if ev.Status == transport.StatusProcessing && (s.Phase == PhaseSuccess || s.Phase == PhaseError) {
		s.Begin()
		c.logger.Debugw("New job on finished session", "tool", ev.Tool, "generation", s.Generation)
		if v != nil {
			v.Timer = "00:00"
			v.PreviewVisible = false
			v.Results = ResultPanel{}
		}
	}

	switch ev.Status {
	case transport.StatusSuccess:
		play(c.player, CueSuccess, c.logger)
	case transport.StatusError:
		play(c.player, CueError, c.logger)
	}

	if ev.Progress != nil {
		s.Progress = *ev.Progress
		if v != nil {
			v.ProgressWidth = *ev.Progress
			v.TimelineWidth = *ev.Progress
		}
	}

	switch ev.Status {
	case transport.StatusProcessing:
		s.Phase = PhaseProcessing
		if v != nil {
			v.ProgressVisible = true
		}
		cmds = append(cmds, c.startTimer(s, now))
	case transport.StatusSuccess:
		s.Phase = PhaseSuccess
	case transport.StatusError:
		s.Phase = PhaseError
	}

	if v != nil {
		v.Status = ev.Message
		if ev.Status.Terminal() {
			tool, gen := ev.Tool, s.Generation
			cmds = append(cmds, tea.Tick(ProgressHideDelay, func(time.Time) tea.Msg {
				return hideProgressMsg{Tool: tool, Generation: gen}
			}))
			if !s.Started.IsZero() {
				v.Timer = s.Elapsed(now)
			}
		}
	}

	switch ev.Status {
	case transport.StatusSuccess, transport.StatusError, transport.StatusWarning:
		cmds = append(cmds, c.notifier.Show(ev.Message, ev.Status))
	}

	s.Stages = c.policy.Apply(s.Stages, ActiveStages(s.Progress, ev.Status))
	if ev.LogEntry != "" {
		s.Append(LogEntry{
			Heading: CardHeading(ev.LogEntry, ev.Status),
			Text:    ev.LogEntry,
			Kind:    ev.Status,
			At:      now,
		})
	}
	if v != nil {
		v.Stages = s.Stages
		v.LogVisible = true
	}

	if ev.HasSizes() {
		c.board.Size = SizePanel{
			Visible:    true,
			Owner:      ev.Tool,
			Original:   string(ev.OriginalSize),
			Compressed: string(ev.CompressedSize),
			Reduction:  string(ev.ReductionPercent),
		}
	}

	if ev.PreviewText != "" && v != nil {
		v.Preview = ev.PreviewText
		v.PreviewVisible = true
	}

	if ev.Downloads != nil && ev.Status == transport.StatusSuccess && v != nil {
		v.Results = buildResults(ev.Tool, ev.Downloads)
	}

	return tea.Batch(cmds...)
}

// OnConnectionChange reflects a push channel transition; it never retries
func (c *Controller) OnConnectionChange(ev transport.ConnectionEvent) tea.Cmd {
	c.board.Connection = ev.State
	if ev.State == transport.Connected {
		c.logger.Info("Connected to server")
		return c.notifier.Show("Connected to server", transport.StatusInfo)
	}
	c.logger.Warnw("Disconnected from server", "error", ev.Err)
	return c.notifier.Show("Disconnected from server", transport.StatusError)
}

// startTimer begins the elapsed ticker unless it is already running for the session
func (c *Controller) startTimer(s *Session, now time.Time) tea.Cmd {
	if !s.Started.IsZero() {
		return nil
	}
	s.Started = now
	return timerTick(s.Tool, s.Generation)
}

func timerTick(tool string, gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{Tool: tool, Generation: gen}
	})
}

func (c *Controller) onTimerTick(msg timerTickMsg) tea.Cmd {
	s := c.Session(msg.Tool)
	if msg.Generation != s.Generation || s.Started.IsZero() || s.Phase != PhaseProcessing {
		return nil
	}
	if v := c.board.View(msg.Tool); v != nil {
		v.Timer = s.Elapsed(c.now())
	}
	return timerTick(msg.Tool, msg.Generation)
}

func (c *Controller) onHideProgress(msg hideProgressMsg) {
	if msg.Generation != c.Session(msg.Tool).Generation {
		return
	}
	if v := c.board.View(msg.Tool); v != nil {
		v.ProgressVisible = false
	}
}

// Update routes a message to the matching handler. It returns handled=false
// for messages the controller does not own.
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case transport.StatusEvent:
		return c.OnStatusEvent(msg), true
	case transport.ConnectionEvent:
		return c.OnConnectionChange(msg), true
	case transport.EmailStatus:
		return c.OnEmailStatus(msg), true
	case SubmitResultMsg:
		return c.OnSubmitResult(msg), true
	case EmailResultMsg:
		return c.OnEmailResult(msg), true
	case hideProgressMsg:
		c.onHideProgress(msg)
		return nil, true
	case timerTickMsg:
		return c.onTimerTick(msg), true
	case closeModalMsg:
		if c.modal != nil && c.modal.token == msg.Token {
			c.modal = nil
		}
		return nil, true
	case notificationFadeMsg, notificationRemoveMsg:
		return c.notifier.Update(msg), true
	}
	return nil, false
}
