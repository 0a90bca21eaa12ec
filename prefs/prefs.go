package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Theme is the color scheme of the interface
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Preferences are the two durable client settings
type Preferences struct {
	Theme        Theme `json:"theme"`
	MusicEnabled bool  `json:"musicEnabled"`
}

// Defaults returns the settings used before anything is saved
func Defaults() Preferences {
	return Preferences{Theme: ThemeDark}
}

// DefaultPath returns prefs.json under the user config directory
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "pdfkit", "prefs.json"), nil
}

// Store persists preferences as a JSON file
type Store struct {
	path  string
	mu    sync.Mutex
	prefs Preferences
}

// Open loads the store at path; a missing file yields defaults
func Open(path string) (*Store, error) {
	s := &Store{path: path, prefs: Defaults()}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file
func (s *Store) Path() string { return s.path }

// Get returns the current preferences
func (s *Store) Get() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// SetTheme stores the theme; anything but light is treated as dark
func (s *Store) SetTheme(theme Theme) error {
	if theme != ThemeLight {
		theme = ThemeDark
	}
	return s.update(func(p *Preferences) { p.Theme = theme })
}

// ToggleTheme flips between dark and light and returns the new theme
func (s *Store) ToggleTheme() (Theme, error) {
	var next Theme
	err := s.update(func(p *Preferences) {
		if p.Theme == ThemeDark {
			p.Theme = ThemeLight
		} else {
			p.Theme = ThemeDark
		}
		next = p.Theme
	})
	return next, err
}

// SetMusic stores whether background music is enabled
func (s *Store) SetMusic(enabled bool) error {
	return s.update(func(p *Preferences) { p.MusicEnabled = enabled })
}

// Watch calls onChange with fresh preferences whenever the file changes
// on disk, until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, onChange func(Preferences)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	// Watch the directory: saves replace the file by rename
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			before := s.Get()
			if err := s.reload(); err != nil {
				continue
			}
			if after := s.Get(); after != before {
				onChange(after)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch failed: %w", err)
		}
	}
}

func (s *Store) reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read preferences: %w", err)
	}

	p := Defaults()
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse preferences %s: %w", s.path, err)
	}
	if p.Theme != ThemeLight {
		p.Theme = ThemeDark
	}

	s.mu.Lock()
	s.prefs = p
	s.mu.Unlock()
	return nil
}

func (s *Store) update(fn func(*Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs
	fn(&next)
	if err := s.save(next); err != nil {
		return err
	}
	s.prefs = next
	return nil
}

// save writes via a temp file and rename so watchers never see a partial file
func (s *Store) save(p Preferences) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
