package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/lepinkainen/pdfkit/transport"
)

// Phase is the lifecycle position of a tool session
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseProcessing Phase = "processing"
	PhaseSuccess    Phase = "success"
	PhaseError      Phase = "error"
)

// LogEntry is one status card in a tool's log
type LogEntry struct {
	Heading string
	Text    string
	Kind    transport.Status
	At      time.Time
}

func (e LogEntry) FilterValue() string { return e.Text }
func (e LogEntry) Title() string       { return fmt.Sprintf("%s %s", kindIcon(e.Kind), e.Heading) }
func (e LogEntry) Description() string {
	return fmt.Sprintf("%s  %s", e.At.Format("15:04:05"), e.Text)
}

func (e LogEntry) same(o LogEntry) bool {
	return e.Heading == o.Heading && e.Text == o.Text && e.Kind == o.Kind
}

// cardHeadings maps log text fragments to card headings, first match wins
var cardHeadings = []struct {
	fragment string
	heading  string
}{
	{"Initializing", "Process Started"},
	{"Starting", "Process Started"},
	{"Processing file", "Processing File"},
	{"Processing page", "Processing Page"},
	{"Added page", "Page Added"},
	{"Writing", "Writing Output"},
	{"Created", "File Created"},
	{"PDF has", "File Analysis"},
	{"Reordering", "Reordering Files"},
	{"Extracting", "Extracting Pages"},
	{"compression", "Setting Compression"},
	{"Original file size", "File Size Analysis"},
	{"Compressed file size", "Compression Results"},
}

// CardHeading derives a log card heading from the entry text and event status
func CardHeading(text string, status transport.Status) string {
	switch status {
	case transport.StatusSuccess:
		return "Success"
	case transport.StatusError:
		return "Error"
	case transport.StatusWarning:
		return "Warning"
	}
	for _, h := range cardHeadings {
		if strings.Contains(text, h.fragment) {
			return h.heading
		}
	}
	return "Processing"
}

// Session is the client-side state of one tool invocation
type Session struct {
	Tool     string
	Progress float64
	Phase    Phase
	Started  time.Time // zero until the first processing event
	Stages   StageSet
	Log      []LogEntry

	// Generation increments on every submission; delayed work captures it
	// and is discarded when it no longer matches.
	Generation uint64
}

func newSession(tool string) *Session {
	return &Session{Tool: tool, Phase: PhaseIdle, Stages: NewStageSet(StageStart)}
}

// Begin starts a new session with an empty log. Delayed work from the
// previous session is invalidated.
func (s *Session) Begin() {
	s.Generation++
	s.Progress = 0
	s.Phase = PhaseProcessing
	s.Started = time.Time{}
	s.Stages = NewStageSet(StageStart)
	s.Log = nil
}

// Reset starts a new session for a fresh submission
func (s *Session) Reset(now time.Time) {
	s.Begin()
	s.Log = []LogEntry{{
		Heading: "Process Started",
		Text:    fmt.Sprintf("Starting %s process...", s.Tool),
		Kind:    transport.StatusInfo,
		At:      now,
	}}
}

// Append adds a log card unless it repeats the previous one
func (s *Session) Append(entry LogEntry) bool {
	if n := len(s.Log); n > 0 && s.Log[n-1].same(entry) {
		return false
	}
	s.Log = append(s.Log, entry)
	return true
}

// Elapsed renders the time since the session started as MM:SS
func (s *Session) Elapsed(now time.Time) string {
	if s.Started.IsZero() {
		return "00:00"
	}
	return FormatElapsed(now.Sub(s.Started))
}

// FormatElapsed renders d as MM:SS, minutes wrapping at the hour
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", (total/60)%60, total%60)
}
