//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/Mk7214/ffconvertTui/cmd"
	"github.com/Mk7214/ffconvertTui/internal/convert"
	"github.com/Mk7214/ffconvertTui/internal/formats"
	"github.com/Mk7214/ffconvertTui/internal/logging"
)

// mockRunner records requests and replays a canned result
type mockRunner struct {
	requests   []convert.Request
	shouldFail bool
}

func (m *mockRunner) Start(_ context.Context, req convert.Request) <-chan convert.Event {
	m.requests = append(m.requests, req)
	ch := make(chan convert.Event, 2)
	ch <- convert.Event{Line: "Running: ffmpeg " + strings.Join(req.Args(), " ")}
	if m.shouldFail {
		ch <- convert.Event{Result: &convert.Result{Message: "✗ Conversion failed"}}
	} else {
		ch <- convert.Event{Result: &convert.Result{
			OK:         true,
			OutputPath: req.Output(),
			Message:    "✓ Conversion complete: " + req.Output(),
		}}
	}
	close(ch)
	return ch
}

// convertContext holds test state for conversion scenarios
type convertContext struct {
	dir       string
	input     string
	keepAudio bool
	now       time.Time
	runner    *mockRunner
	output    *bytes.Buffer
	err       error
}

// SharedConvertContext is reset before each scenario via Before hook
var SharedConvertContext *convertContext

func InitializeConvertScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "ffconvert-features-")
		if err != nil {
			return c, err
		}
		SharedConvertContext = &convertContext{
			dir:       dir,
			keepAudio: true,
			now:       time.Now(),
			runner:    &mockRunner{},
			output:    &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConvertContext != nil {
			os.RemoveAll(SharedConvertContext.dir)
		}
		SharedConvertContext = nil
		return c, nil
	})

	ctx.Step(`^an input video "([^"]*)"$`, anInputVideo)
	ctx.Step(`^audio is (kept|removed)$`, audioIs)
	ctx.Step(`^a file "([^"]*)" already exists in the output directory$`, aFileAlreadyExists)
	ctx.Step(`^the time is "([^"]*)"$`, theTimeIs)
	ctx.Step(`^ffmpeg will exit with an error$`, ffmpegWillExitWithAnError)
	ctx.Step(`^the input video has been deleted$`, theInputVideoHasBeenDeleted)
	ctx.Step(`^I convert it to "([^"]*)"$`, iConvertItTo)
	ctx.Step(`^the conversion succeeds$`, theConversionSucceeds)
	ctx.Step(`^the conversion fails$`, theConversionFails)
	ctx.Step(`^the output file is named "([^"]*)"$`, theOutputFileIsNamed)
	ctx.Step(`^the video arguments are "([^"]*)"$`, theVideoArgumentsAre)
	ctx.Step(`^the audio arguments are "([^"]*)"$`, theAudioArgumentsAre)
	ctx.Step(`^the log ends with "([^"]*)"$`, theLogEndsWith)
	ctx.Step(`^the conversion is rejected with "([^"]*)"$`, theConversionIsRejectedWith)
	ctx.Step(`^ffmpeg was not started$`, ffmpegWasNotStarted)
}

func anInputVideo(name string) error {
	c := SharedConvertContext
	c.input = filepath.Join(c.dir, name)
	return os.WriteFile(c.input, []byte("media"), 0o644)
}

func audioIs(choice string) error {
	SharedConvertContext.keepAudio = choice == "kept"
	return nil
}

func aFileAlreadyExists(name string) error {
	return os.WriteFile(filepath.Join(SharedConvertContext.dir, name), nil, 0o644)
}

func theTimeIs(value string) error {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local)
	if err != nil {
		return err
	}
	SharedConvertContext.now = t
	return nil
}

func ffmpegWillExitWithAnError() error {
	SharedConvertContext.runner.shouldFail = true
	return nil
}

func theInputVideoHasBeenDeleted() error {
	return os.Remove(SharedConvertContext.input)
}

func iConvertItTo(name string) error {
	c := SharedConvertContext
	f, err := formats.Parse(name)
	if err != nil {
		return err
	}
	c.err = cmd.RunConvertWithDependencies(context.Background(), c.runner, logging.Discard(), cmd.ConvertParams{
		Input:     c.input,
		Format:    f,
		KeepAudio: c.keepAudio,
		Now:       c.now,
	}, c.output)
	return nil
}

func lastRequest() (convert.Request, error) {
	reqs := SharedConvertContext.runner.requests
	if len(reqs) == 0 {
		return convert.Request{}, fmt.Errorf("ffmpeg was never started")
	}
	return reqs[len(reqs)-1], nil
}

func theConversionSucceeds() error {
	if SharedConvertContext.err != nil {
		return fmt.Errorf("expected success, got %v", SharedConvertContext.err)
	}
	return nil
}

func theConversionFails() error {
	if SharedConvertContext.err == nil {
		return fmt.Errorf("expected the conversion to fail")
	}
	return nil
}

func theOutputFileIsNamed(name string) error {
	req, err := lastRequest()
	if err != nil {
		return err
	}
	want := filepath.Join(SharedConvertContext.dir, name)
	if req.Output() != want {
		return fmt.Errorf("output = %q, want %q", req.Output(), want)
	}
	return nil
}

func theVideoArgumentsAre(args string) error {
	req, err := lastRequest()
	if err != nil {
		return err
	}
	return compareArgs("video", req.VideoArgs(), args)
}

func theAudioArgumentsAre(args string) error {
	req, err := lastRequest()
	if err != nil {
		return err
	}
	return compareArgs("audio", req.AudioArgs(), args)
}

func compareArgs(kind string, got []string, want string) error {
	if strings.Join(got, " ") != strings.Join(strings.Fields(want), " ") {
		return fmt.Errorf("%s args = %q, want %q", kind, strings.Join(got, " "), want)
	}
	return nil
}

func theLogEndsWith(msg string) error {
	out := strings.TrimRight(SharedConvertContext.output.String(), "\n")
	if !strings.HasSuffix(out, msg) {
		return fmt.Errorf("log %q does not end with %q", out, msg)
	}
	if n := strings.Count(out, "✗") + strings.Count(out, "✓"); n != 1 {
		return fmt.Errorf("expected exactly one result line, found %d", n)
	}
	return nil
}

func theConversionIsRejectedWith(msg string) error {
	err := SharedConvertContext.err
	if err == nil || !strings.Contains(err.Error(), msg) {
		return fmt.Errorf("error = %v, want it to contain %q", err, msg)
	}
	return nil
}

func ffmpegWasNotStarted() error {
	if n := len(SharedConvertContext.runner.requests); n != 0 {
		return fmt.Errorf("ffmpeg was started %d times", n)
	}
	return nil
}
