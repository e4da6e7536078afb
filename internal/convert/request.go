// Package convert runs a single ffmpeg conversion in the background and
// streams its diagnostic output to the caller.
package convert

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Mk7214/ffconvertTui/internal/formats"
)

// Sentinel errors reported before a conversion is started.
var (
	ErrNoInput         = errors.New("please select an input file")
	ErrInputNotRegular = errors.New("input is not a regular file")
	ErrNoName          = errors.New("please enter an output filename")
	ErrToolNotFound    = errors.New("ffmpeg not found in path")
)

// Request describes one conversion. Build it with NewRequest; it is not
// modified after that.
type Request struct {
	input  string
	output string
	video  []string
	audio  []string
}

// NewRequest builds a Request from the chosen format settings.
func NewRequest(input, output string, s formats.Settings) Request {
	return Request{
		input:  input,
		output: output,
		video:  append([]string(nil), s.VideoArgs...),
		audio:  append([]string(nil), s.AudioArgs...),
	}
}

func (r Request) Input() string  { return r.input }
func (r Request) Output() string { return r.output }

// VideoArgs returns a copy of the video arguments.
func (r Request) VideoArgs() []string { return append([]string(nil), r.video...) }

// AudioArgs returns a copy of the audio arguments.
func (r Request) AudioArgs() []string { return append([]string(nil), r.audio...) }

// Args is the full argument list passed to the tool:
// -i <input> <video args...> <audio args...> <output>.
func (r Request) Args() []string {
	args := make([]string, 0, len(r.video)+len(r.audio)+3)
	args = append(args, "-i", r.input)
	args = append(args, r.video...)
	args = append(args, r.audio...)
	return append(args, r.output)
}

// Validate checks the user's input file and output name.
func Validate(input, name string) error {
	if input == "" {
		return ErrNoInput
	}
	fi, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoInput, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrInputNotRegular, input)
	}
	if strings.TrimSpace(name) == "" {
		return ErrNoName
	}
	return nil
}

// LookupTool resolves the transcoding executable, either a bare name
// searched on PATH or an explicit path.
func LookupTool(name string) (string, error) {
	if name == "" {
		name = "ffmpeg"
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrToolNotFound, err)
	}
	return path, nil
}
