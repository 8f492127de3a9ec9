package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	path := filepath.Join(t.TempDir(), "duelsim.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[ocr]
language = "ko"
min_confidence = 55.5

[layout]
profile = "wide-label"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "ko", cfg.OCR.Language)
	assert.Equal(t, 55.5, cfg.OCR.MinConfidence)
	assert.Equal(t, "wide-label", cfg.Layout.Profile)
	assert.Equal(t, "data/replays.db", cfg.Storage.Path)
}

func TestLoadRejectsBadLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ocr]\nlanguage = \"fr\"\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "out.toml")
	cfg := DefaultConfig()
	cfg.Server.PublicURL = "https://duel.example.com"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
