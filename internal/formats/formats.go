// Package formats holds the fixed table of output formats and turns a
// selection into the ffmpeg arguments that produce it.
package formats

import (
	"fmt"
	"strings"
)

// Format identifies one entry of the output format table. The numeric
// values match the order the formats are offered in.
type Format int

const (
	H264MP4 Format = iota
	ProResMOV
	VP9WebM
	AnimatedGIF
	MP3Audio
)

// Default is used whenever a selection does not match a known format.
const Default = H264MP4

// Preset describes one output format.
type Preset struct {
	Format      Format
	Name        string // short name used on the command line and in config
	Title       string
	Description string
	Ext         string
	VideoArgs   []string
}

var presets = []Preset{
	{
		Format:      H264MP4,
		Name:        "mp4",
		Title:       "MP4 (H.264)",
		Description: "Universal compatibility",
		Ext:         "mp4",
		VideoArgs:   []string{"-c:v", "libx264", "-crf", "22", "-preset", "medium"},
	},
	{
		Format:      ProResMOV,
		Name:        "mov",
		Title:       "MOV (ProRes 422)",
		Description: "High quality intermediate",
		Ext:         "mov",
		VideoArgs:   []string{"-c:v", "prores_ks", "-profile:v", "3"},
	},
	{
		Format:      VP9WebM,
		Name:        "webm",
		Title:       "WebM (VP9)",
		Description: "Web optimized",
		Ext:         "webm",
		VideoArgs:   []string{"-c:v", "libvpx-vp9", "-crf", "31", "-b:v", "0"},
	},
	{
		Format:      AnimatedGIF,
		Name:        "gif",
		Title:       "GIF (Animated)",
		Description: "15fps, 640px width",
		Ext:         "gif",
		VideoArgs:   []string{"-vf", "fps=15,scale=640:-1", "-loop", "0", "-gifflags", "+transdiff"},
	},
	{
		Format:      MP3Audio,
		Name:        "mp3",
		Title:       "MP3 (Audio only)",
		Description: "192kbps",
		Ext:         "mp3",
		VideoArgs:   []string{"-vn"},
	},
}

var (
	copyAudio = []string{"-c:a", "copy"}
	dropAudio = []string{"-an"}
	mp3Audio  = []string{"-c:a", "libmp3lame", "-b:a", "192k"}
)

// Settings is everything the runner needs to know about the chosen format.
type Settings struct {
	Ext       string
	VideoArgs []string
	AudioArgs []string
}

// All returns the format table in display order.
func All() []Preset {
	out := make([]Preset, len(presets))
	for i, p := range presets {
		p.VideoArgs = clone(p.VideoArgs)
		out[i] = p
	}
	return out
}

// Lookup returns the preset for f, falling back to the default entry.
func Lookup(f Format) Preset {
	if f < 0 || int(f) >= len(presets) {
		f = Default
	}
	p := presets[f]
	p.VideoArgs = clone(p.VideoArgs)
	return p
}

// Parse maps a short name such as "webm" to its format.
func Parse(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == n {
			return p.Format, nil
		}
	}
	return Default, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Names(), ", "))
}

// Names lists the short names in display order.
func Names() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}

// ForcesAudio reports whether f ignores the keep-audio choice.
func ForcesAudio(f Format) bool {
	f = Lookup(f).Format
	return f == AnimatedGIF || f == MP3Audio
}

// Build returns the extension and argument lists for f. GIF output is
// always silent and MP3 output always re-encodes audio; the other formats
// either copy the source audio track or drop it.
func Build(f Format, keepAudio bool) Settings {
	p := Lookup(f)

	var audio []string
	switch p.Format {
	case AnimatedGIF:
		audio = dropAudio
	case MP3Audio:
		audio = mp3Audio
	default:
		if keepAudio {
			audio = copyAudio
		} else {
			audio = dropAudio
		}
	}

	return Settings{
		Ext:       p.Ext,
		VideoArgs: p.VideoArgs,
		AudioArgs: clone(audio),
	}
}

// Label is the one-line text shown for a format in pickers and listings.
func (p Preset) Label() string {
	return p.Title + " - " + p.Description
}

func (f Format) String() string {
	return Lookup(f).Name
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
