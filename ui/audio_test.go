package ui

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestBellPlayerWritesToOwnTerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tty")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	player, tty, err := newBellPlayerAt(path)
	if err != nil {
		t.Fatalf("newBellPlayerAt() error = %v", err)
	}

	var wg sync.WaitGroup
	for _, cue := range []Cue{CueSuccess, CueNotification, CueError} {
		wg.Add(1)
		go func(c Cue) {
			defer wg.Done()
			if err := player.Play(c); err != nil {
				t.Errorf("Play(%s) error = %v", c, err)
			}
		}(cue)
	}
	wg.Wait()
	if err := tty.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "\a\a" {
		t.Errorf("Expected two bells, got %q", data)
	}
}

func TestBellPlayerMissingTerminal(t *testing.T) {
	if _, _, err := newBellPlayerAt(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for a missing terminal device")
	}
}

func TestBellPlayerMutedAndMusic(t *testing.T) {
	player := &BellPlayer{Muted: true}
	if err := player.Play(CueError); err != nil {
		t.Errorf("Expected muted player to ignore cues, got %v", err)
	}
	if err := player.StartMusic(); !errors.Is(err, ErrMusicUnavailable) {
		t.Errorf("Expected ErrMusicUnavailable, got %v", err)
	}
}
