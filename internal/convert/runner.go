package convert

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/Mk7214/ffconvertTui/internal/logging"
)

// Result is the terminal outcome of a conversion.
type Result struct {
	OK         bool
	OutputPath string // set only on success
	Message    string
	Err        error // nil on success
}

// Event is one item on a conversion's event stream: either a diagnostic
// line or, last of all, the Result.
type Event struct {
	Line   string
	Result *Result
}

// Done reports whether e carries the terminal result.
func (e Event) Done() bool { return e.Result != nil }

// Runner launches the transcoding tool.
type Runner struct {
	tool string
	log  *logging.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTool sets the executable to run (default "ffmpeg").
func WithTool(path string) Option {
	return func(r *Runner) {
		r.tool = path
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		tool: "ffmpeg",
		log:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CommandLine is the command as it is announced on the event stream.
func (r *Runner) CommandLine(req Request) string {
	return r.tool + " " + strings.Join(req.Args(), " ")
}

// Start runs req in a new goroutine and returns immediately. The returned
// channel yields a "Running: ..." line, then every line the tool writes to
// stderr in order, then exactly one Event carrying the Result, and is
// closed after that.
//
// Cancelling ctx kills the process. Once ctx is done, events that nobody
// is left to receive are dropped instead of blocking.
func (r *Runner) Start(ctx context.Context, req Request) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		res := r.run(ctx, req, func(line string) {
			select {
			case events <- Event{Line: line}:
			case <-ctx.Done():
			}
		})
		select {
		case events <- Event{Result: &res}:
		case <-ctx.Done():
			// The receiver may still be draining; don't lose the result if so.
			select {
			case events <- Event{Result: &res}:
			default:
			}
		}
	}()
	return events
}

// Run is the blocking form of Start: onLine sees every line and the
// Result is returned.
func (r *Runner) Run(ctx context.Context, req Request, onLine func(string)) Result {
	for ev := range r.Start(ctx, req) {
		if ev.Done() {
			return *ev.Result
		}
		if onLine != nil {
			onLine(ev.Line)
		}
	}
	// Only reachable when ctx was cancelled and the result was dropped.
	return failure(fmt.Errorf("conversion aborted: %w", ctx.Err()))
}

func (r *Runner) run(ctx context.Context, req Request, emit func(string)) Result {
	emit("Running: " + r.CommandLine(req))
	r.log.Info("converting %s -> %s", req.Input(), req.Output())

	cmd := exec.CommandContext(ctx, r.tool, req.Args()...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return r.spawnFailed(err)
	}
	if err := cmd.Start(); err != nil {
		return r.spawnFailed(err)
	}

	sc := bufio.NewScanner(stderr)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(scanLines)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			emit(line)
		}
	}
	if err := sc.Err(); err != nil {
		r.log.Warn("reading ffmpeg output: %v", err)
		// keep draining so the process is not blocked on a full pipe
		_, _ = io.Copy(io.Discard, stderr)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.log.Error("ffmpeg exited with status %d", exitErr.ExitCode())
			return Result{Message: "✗ Conversion failed", Err: err}
		}
		r.log.Error("ffmpeg: %v", err)
		return failure(err)
	}

	r.log.Success("conversion complete: %s", req.Output())
	return Result{
		OK:         true,
		OutputPath: req.Output(),
		Message:    "✓ Conversion complete: " + req.Output(),
	}
}

func (r *Runner) spawnFailed(err error) Result {
	r.log.Error("could not start %s: %v", r.tool, err)
	return failure(err)
}

func failure(err error) Result {
	return Result{Message: "✗ Error: " + err.Error(), Err: err}
}

// scanLines splits on '\n' or '\r'. ffmpeg redraws its status line with
// bare carriage returns, so each redraw becomes its own line.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
