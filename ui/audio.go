package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Cue identifies a notification sound
type Cue string

const (
	CueSuccess      Cue = "success"
	CueError        Cue = "error"
	CueNotification Cue = "notification"
)

// ErrMusicUnavailable is returned by players that cannot play background music
var ErrMusicUnavailable = errors.New("background music is unavailable in this terminal")

// Player plays notification cues and background music.
// Failures are reported to the caller, which logs and otherwise ignores them.
type Player interface {
	Play(cue Cue) error
	StartMusic() error
	StopMusic()
}

// ttyPath is the controlling terminal, written to directly so bells never
// share a writer with the program's renderer
const ttyPath = "/dev/tty"

// BellPlayer rings the terminal bell for error and success cues
type BellPlayer struct {
	Out   io.Writer
	Muted bool

	mu sync.Mutex
}

// NewTTYBellPlayer opens the controlling terminal for bells. Close the
// returned file when the program exits.
func NewTTYBellPlayer() (*BellPlayer, io.Closer, error) {
	return newBellPlayerAt(ttyPath)
}

func newBellPlayerAt(path string) (*BellPlayer, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &BellPlayer{Out: f}, f, nil
}

func (p *BellPlayer) Play(cue Cue) error {
	if p.Muted || p.Out == nil {
		return nil
	}
	switch cue {
	case CueSuccess, CueError:
		p.mu.Lock()
		defer p.mu.Unlock()
		_, err := io.WriteString(p.Out, "\a")
		return err
	}
	return nil
}

func (p *BellPlayer) StartMusic() error { return ErrMusicUnavailable }

func (p *BellPlayer) StopMusic() {}

// silentPlayer is used when no player is configured
type silentPlayer struct{}

func (silentPlayer) Play(Cue) error    { return nil }
func (silentPlayer) StartMusic() error { return ErrMusicUnavailable }
func (silentPlayer) StopMusic()        {}
