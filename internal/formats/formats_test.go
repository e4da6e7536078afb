package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		format    Format
		keepAudio bool
		wantExt   string
		wantVideo []string
		wantAudio []string
	}{
		{
			name:      "mp4 keep audio",
			format:    H264MP4,
			keepAudio: true,
			wantExt:   "mp4",
			wantVideo: []string{"-c:v", "libx264", "-crf", "22", "-preset", "medium"},
			wantAudio: []string{"-c:a", "copy"},
		},
		{
			name:      "mp4 remove audio",
			format:    H264MP4,
			wantExt:   "mp4",
			wantVideo: []string{"-c:v", "libx264", "-crf", "22", "-preset", "medium"},
			wantAudio: []string{"-an"},
		},
		{
			name:      "prores keep audio",
			format:    ProResMOV,
			keepAudio: true,
			wantExt:   "mov",
			wantVideo: []string{"-c:v", "prores_ks", "-profile:v", "3"},
			wantAudio: []string{"-c:a", "copy"},
		},
		{
			name:      "vp9 remove audio",
			format:    VP9WebM,
			wantExt:   "webm",
			wantVideo: []string{"-c:v", "libvpx-vp9", "-crf", "31", "-b:v", "0"},
			wantAudio: []string{"-an"},
		},
		{
			name:      "gif is always silent",
			format:    AnimatedGIF,
			keepAudio: true,
			wantExt:   "gif",
			wantVideo: []string{"-vf", "fps=15,scale=640:-1", "-loop", "0", "-gifflags", "+transdiff"},
			wantAudio: []string{"-an"},
		},
		{
			name:      "mp3 ignores remove audio",
			format:    MP3Audio,
			keepAudio: false,
			wantExt:   "mp3",
			wantVideo: []string{"-vn"},
			wantAudio: []string{"-c:a", "libmp3lame", "-b:a", "192k"},
		},
		{
			name:      "unknown index falls back to mp4",
			format:    Format(42),
			keepAudio: true,
			wantExt:   "mp4",
			wantVideo: []string{"-c:v", "libx264", "-crf", "22", "-preset", "medium"},
			wantAudio: []string{"-c:a", "copy"},
		},
		{
			name:      "negative index falls back to mp4",
			format:    Format(-1),
			wantExt:   "mp4",
			wantVideo: []string{"-c:v", "libx264", "-crf", "22", "-preset", "medium"},
			wantAudio: []string{"-an"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.format, tt.keepAudio)
			assert.Equal(t, tt.wantExt, got.Ext)
			assert.Equal(t, tt.wantVideo, got.VideoArgs)
			assert.Equal(t, tt.wantAudio, got.AudioArgs)
		})
	}
}

func TestBuild_ForcedAudioIgnoresFlag(t *testing.T) {
	for _, f := range []Format{AnimatedGIF, MP3Audio} {
		assert.True(t, ForcesAudio(f), f.String())
		assert.Equal(t, Build(f, true).AudioArgs, Build(f, false).AudioArgs, f.String())
	}
	for _, f := range []Format{H264MP4, ProResMOV, VP9WebM} {
		assert.False(t, ForcesAudio(f), f.String())
		assert.NotEqual(t, Build(f, true).AudioArgs, Build(f, false).AudioArgs, f.String())
	}
}

func TestBuild_ReturnsIndependentSlices(t *testing.T) {
	first := Build(H264MP4, true)
	first.VideoArgs[0] = "mutated"
	first.AudioArgs[0] = "mutated"

	second := Build(H264MP4, true)
	assert.Equal(t, "-c:v", second.VideoArgs[0])
	assert.Equal(t, "-c:a", second.AudioArgs[0])
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"mp4", H264MP4, false},
		{"MOV", ProResMOV, false},
		{" webm ", VP9WebM, false},
		{"gif", AnimatedGIF, false},
		{"mp3", MP3Audio, false},
		{"avi", Default, true},
		{"", Default, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAll_OrderMatchesIndices(t *testing.T) {
	all := All()
	require.Len(t, all, 5)
	for i, p := range all {
		assert.Equal(t, Format(i), p.Format)
	}
	assert.Equal(t, []string{"mp4", "mov", "webm", "gif", "mp3"}, Names())
	assert.Equal(t, "GIF (Animated) - 15fps, 640px width", all[AnimatedGIF].Label())
}
