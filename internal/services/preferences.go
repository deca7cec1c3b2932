package services

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"marketing-dashboard/internal/models"
)

const (
	prefsVersion = "v1"
	cacheDir     = ".cache"
)

// PreferenceStore persists the user's theme between runs.
type PreferenceStore interface {
	LoadTheme() (models.Theme, error)
	SaveTheme(models.Theme) error
}

type preferences struct {
	Theme     models.Theme
	UpdatedAt time.Time
}

// FilePreferences keeps preferences in a gob file.
type FilePreferences struct {
	mu   sync.Mutex
	path string
}

// NewFilePreferences uses path, or .cache/preferences_v1.gob when path is empty.
func NewFilePreferences(path string) *FilePreferences {
	if path == "" {
		path = filepath.Join(cacheDir, fmt.Sprintf("preferences_%s.gob", prefsVersion))
	}
	return &FilePreferences{path: path}
}

func (p *FilePreferences) Path() string { return p.path }

// LoadTheme returns an error wrapping fs.ErrNotExist when nothing was saved yet.
func (p *FilePreferences) LoadTheme() (models.Theme, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	file, err := os.Open(p.path)
	if err != nil {
		return "", fmt.Errorf("open preferences: %w", err)
	}
	defer file.Close()

	var prefs preferences
	if err := gob.NewDecoder(file).Decode(&prefs); err != nil {
		return "", fmt.Errorf("decode preferences: %w", err)
	}
	if !prefs.Theme.Valid() {
		return "", fmt.Errorf("stored theme %q: %w", prefs.Theme, ErrInvalidTheme)
	}
	return prefs.Theme, nil
}

func (p *FilePreferences) SaveTheme(theme models.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("theme %q: %w", theme, ErrInvalidTheme)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	tmp := p.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create preferences: %w", err)
	}
	if err := gob.NewEncoder(file).Encode(preferences{Theme: theme, UpdatedAt: time.Now().UTC()}); err != nil {
		file.Close()
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close preferences: %w", err)
	}
	return os.Rename(tmp, p.path)
}
