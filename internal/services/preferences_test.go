package services

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketing-dashboard/internal/models"
)

func TestFilePreferences_RoundTrip(t *testing.T) {
	p := NewFilePreferences(filepath.Join(t.TempDir(), "nested", "prefs.gob"))

	require.NoError(t, p.SaveTheme(models.ThemeDark))
	theme, err := p.LoadTheme()
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, theme)

	_, err = os.Stat(p.Path() + ".tmp")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFilePreferences_MissingFile(t *testing.T) {
	p := NewFilePreferences(filepath.Join(t.TempDir(), "none.gob"))

	_, err := p.LoadTheme()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFilePreferences_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.gob")
	require.NoError(t, os.WriteFile(path, []byte("not gob"), 0o644))

	_, err := NewFilePreferences(path).LoadTheme()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}

func TestFilePreferences_RejectsInvalidTheme(t *testing.T) {
	p := NewFilePreferences(filepath.Join(t.TempDir(), "prefs.gob"))
	assert.ErrorIs(t, p.SaveTheme("sepia"), ErrInvalidTheme)
}

func TestFilePreferences_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".cache", "preferences_v1.gob"), NewFilePreferences("").Path())
}
