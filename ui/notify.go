package ui

import (
	"hash/fnv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lepinkainen/pdfkit/transport"
)

const (
	NotificationVisible = 4000 * time.Millisecond
	NotificationFade    = 400 * time.Millisecond
)

// Notification is the toast currently on screen
type Notification struct {
	ID      string
	Message string
	Kind    transport.Status
	Flavor  string
	Fading  bool
}

var flavorLines = map[transport.Status][]string{
	transport.StatusProcessing: {
		"Tom & Jerry are working on it! 🐱🐭",
		"Our cartoon friends are processing your PDFs! 📄",
		"The PDF battle is underway! 💪",
		"Cartoon magic happening! ✨",
	},
	transport.StatusSuccess: {
		"Victory! Your PDF is ready! 🏆",
		"Tom & Jerry finished the job! 🐱🐭",
		"Mission accomplished! 🎉",
		"PDF magic complete! ✨",
	},
	transport.StatusError: {
		"Oops! Even Tom & Jerry make mistakes! 🐱🐭",
		"Our cartoon friends need another try! 🔄",
		"PDF battle lost this time! 😅",
		"Time for cartoon plan B! 🚨",
	},
}

// Notifier owns the single notification slot. Showing a notification
// replaces the current one; expiry timers of replaced notifications are
// ignored because they carry a stale ID.
type Notifier struct {
	current *Notification
	player  Player
	logger  *zap.SugaredLogger
}

// NewNotifier creates a notifier that plays cues through player
func NewNotifier(player Player, logger *zap.SugaredLogger) *Notifier {
	if player == nil {
		player = silentPlayer{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Notifier{player: player, logger: logger}
}

// Current returns the visible notification, or nil
func (n *Notifier) Current() *Notification {
	return n.current
}

// Show replaces the visible notification and schedules its expiry
func (n *Notifier) Show(message string, kind transport.Status) tea.Cmd {
	if cue, ok := notificationCue(kind); ok {
		play(n.player, cue, n.logger)
	}

	note := &Notification{
		ID:      uuid.NewString(),
		Message: message,
		Kind:    kind,
		Flavor:  pick(flavorLines[kind], message),
	}
	n.current = note

	id := note.ID
	return tea.Tick(NotificationVisible, func(time.Time) tea.Msg {
		return notificationFadeMsg{ID: id}
	})
}

// Update handles the notifier's own timer messages
func (n *Notifier) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case notificationFadeMsg:
		if n.current == nil || n.current.ID != msg.ID {
			return nil
		}
		n.current.Fading = true
		return tea.Tick(NotificationFade, func(time.Time) tea.Msg {
			return notificationRemoveMsg(msg)
		})

	case notificationRemoveMsg:
		if n.current != nil && n.current.ID == msg.ID {
			n.current = nil
		}
	}
	return nil
}

func notificationCue(kind transport.Status) (Cue, bool) {
	switch kind {
	case transport.StatusSuccess:
		return CueSuccess, true
	case transport.StatusError:
		return CueError, true
	case transport.StatusInfo:
		return CueNotification, true
	}
	return "", false
}

func play(p Player, cue Cue, logger *zap.SugaredLogger) {
	if err := p.Play(cue); err != nil {
		logger.Warnw("Error playing notification sound", "cue", cue, "error", err)
	}
}

// pick chooses an option deterministically from seed so replays render the same
func pick(options []string, seed string) string {
	if len(options) == 0 {
		return ""
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return options[int(h.Sum32()%uint32(len(options)))]
}
