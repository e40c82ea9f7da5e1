// Package prefs persists per-user UI choices (theme and language) in
// ~/.config/hunter/prefs.toml. The TUI rewrites the file whenever either
// changes.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/memoryhunter/hunter/internal/config"
)

// Prefs holds user preferences for hunter.
type Prefs struct {
	Theme string `toml:"theme"`
	// Lang is "zh" or "en". Empty means the locale decides.
	Lang string `toml:"lang,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/hunter/prefs.toml"
	defaultTheme     = "Dracula"
)

// updateMu serialises read-modify-write cycles within the process.
var updateMu sync.Mutex

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults is what a fresh install starts with.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads the preferences at path (empty means DefaultPath). A missing file
// yields Defaults and no error. An unreadable or corrupt file also yields
// Defaults, together with the error so the caller can log it.
func Load(path string) (Prefs, error) {
	resolved, err := resolve(path)
	if err != nil {
		return Defaults(), err
	}

	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Defaults(), nil
	case err != nil:
		return Defaults(), fmt.Errorf("read prefs: %w", err)
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults(), fmt.Errorf("parse prefs %s: %w", resolved, err)
	}
	return p.normalized(), nil
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.Lang = strings.ToLower(strings.TrimSpace(p.Lang))
	return p
}

// Save replaces the file at path with p. The new content is written to a
// temporary file in the same directory and renamed into place.
func Save(path string, p Prefs) error {
	resolved, err := resolve(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// Update applies fn to the stored preferences and saves them. A corrupt file
// is replaced, starting from Defaults.
func Update(path string, fn func(*Prefs)) error {
	updateMu.Lock()
	defer updateMu.Unlock()

	p, _ := Load(path)
	fn(&p)
	return Save(path, p)
}

func resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve prefs path: %w", err)
	}
	return resolved, nil
}
