package convert

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mk7214/ffconvertTui/internal/formats"
)

func TestRequest_Args(t *testing.T) {
	req := NewRequest("/in/clip.mov", "/out/clip.webm", formats.Build(formats.VP9WebM, false))

	assert.Equal(t, "/in/clip.mov", req.Input())
	assert.Equal(t, "/out/clip.webm", req.Output())
	assert.Equal(t, []string{
		"-i", "/in/clip.mov",
		"-c:v", "libvpx-vp9", "-crf", "31", "-b:v", "0",
		"-an",
		"/out/clip.webm",
	}, req.Args())
}

func TestRequest_IsImmutable(t *testing.T) {
	s := formats.Build(formats.H264MP4, true)
	req := NewRequest("a.mov", "a.mp4", s)

	s.VideoArgs[0] = "changed"
	req.VideoArgs()[1] = "changed"
	req.AudioArgs()[0] = "changed"

	assert.Equal(t, []string{"-c:v", "libx264", "-crf", "22", "-preset", "medium"}, req.VideoArgs())
	assert.Equal(t, []string{"-c:a", "copy"}, req.AudioArgs())
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mov")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0o644))

	tests := []struct {
		name    string
		input   string
		outName string
		wantErr error
	}{
		{"valid", input, "clip", nil},
		{"no input", "", "clip", ErrNoInput},
		{"missing input", filepath.Join(dir, "gone.mov"), "clip", ErrNoInput},
		{"directory input", dir, "clip", ErrInputNotRegular},
		{"blank name", input, "   ", ErrNoName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input, tt.outName)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLookupTool_Missing(t *testing.T) {
	_, err := LookupTool(filepath.Join(t.TempDir(), "no-such-ffmpeg"))
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestResolveOutputPath(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 9, 14, 5, 7, 0, time.Local)

	path, renamed := ResolveOutputPath(dir, "clip", "mp4", now)
	assert.False(t, renamed)
	assert.Equal(t, filepath.Join(dir, "clip.mp4"), path)

	require.NoError(t, os.WriteFile(path, nil, 0o644))

	path, renamed = ResolveOutputPath(dir, "clip", "mp4", now)
	assert.True(t, renamed)
	assert.Equal(t, filepath.Join(dir, "clip_20250309-140507.mp4"), path)
	assert.NoFileExists(t, path)
}

func TestResolveOutputPath_ChecksOnlyOnce(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 9, 14, 5, 7, 0, time.Local)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.gif"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip_20250309-140507.gif"), nil, 0o644))

	path, renamed := ResolveOutputPath(dir, "clip", "gif", now)
	assert.True(t, renamed)
	assert.Equal(t, filepath.Join(dir, "clip_20250309-140507.gif"), path)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "holiday.trip", DefaultName("/videos/holiday.trip.mkv"))
	assert.Equal(t, "clip", DefaultName("clip"))
	assert.Equal(t, "/videos", DefaultDir("", "/videos/holiday.mkv"))
	assert.Equal(t, "/exports", DefaultDir("/exports", "/videos/holiday.mkv"))
}
