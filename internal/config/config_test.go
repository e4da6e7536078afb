package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mk7214/ffconvertTui/internal/formats"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "mp4", cfg.DefaultFormat)
	assert.True(t, cfg.KeepAudio)
	assert.Empty(t, cfg.OutputDirectory)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
ffmpeg_path: /opt/ffmpeg/bin/ffmpeg
output_directory: /tmp/out
default_format: gif
keep_audio: false
log_file: /tmp/ffconvert.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "/tmp/out", cfg.OutputDirectory)
	assert.Equal(t, formats.AnimatedGIF, cfg.Format())
	assert.False(t, cfg.KeepAudio)
	assert.Equal(t, "/tmp/ffconvert.log", cfg.LogFile)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "default_format: webm\n"))
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.True(t, cfg.KeepAudio)
	assert.Equal(t, formats.VP9WebM, cfg.Format())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		errContains string
	}{
		{"bad yaml", "default_format: [", "failed to parse config file"},
		{"unknown format", "default_format: avi\n", "invalid default_format"},
		{"empty ffmpeg path", "ffmpeg_path: \"\"\n", "ffmpeg_path must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := &Config{
		FFmpegPath:      "ffmpeg",
		OutputDirectory: "/videos/out",
		DefaultFormat:   "mov",
		KeepAudio:       false,
	}

	require.NoError(t, Save(want, path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
