// Package logging provides a small leveled logger with colored console
// output and an optional plain-text file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Options controls where log lines go. A nil Console disables console
// output, which is what the interactive UI wants while it owns the screen.
type Options struct {
	Console io.Writer
	File    string
	Verbose bool
}

// Logger writes leveled lines to the console and/or a log file.
type Logger struct {
	mu      sync.Mutex
	console io.Writer
	file    *os.File
	verbose bool
	styles  map[string]lipgloss.Style
}

// New builds a Logger. Call Close when done if opts.File was set.
func New(opts Options) (*Logger, error) {
	l := &Logger{
		console: opts.Console,
		verbose: opts.Verbose,
	}

	if opts.Console != nil {
		r := lipgloss.NewRenderer(opts.Console)
		l.styles = map[string]lipgloss.Style{
			"INFO":    r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
			"SUCCESS": r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
			"WARN":    r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
			"ERROR":   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
			"DEBUG":   r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		}
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
	}
	return l, nil
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.console != nil {
		_, _ = io.WriteString(l.console, ts+" "+l.styles[level].Render("["+level+"]")+" "+text+"\n")
	}
	if l.file != nil {
		_, _ = io.WriteString(l.file, ts+" ["+level+"] "+text+"\n")
	}
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level.
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", fmt.Sprintf(format, args...))
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", fmt.Sprintf(format, args...))
}

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level; no-op unless the logger is verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.line("DEBUG", fmt.Sprintf(format, args...))
}
