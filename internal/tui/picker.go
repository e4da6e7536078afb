// Package tui is the interactive front-end: pick a file, pick a format,
// decide about audio, name the output and watch ffmpeg run.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mk7214/ffconvertTui/internal/convert"
	"github.com/Mk7214/ffconvertTui/internal/formats"
	"github.com/Mk7214/ffconvertTui/internal/logging"
)

type screen int

const (
	screenPicker screen = iota
	screenFormat
	screenAudio
	screenName
	screenConfirm
	screenRunning
	screenDone
	screenError
)

const (
	padding     = 2
	minWidth    = 20
	maxWidth    = 100
	logHeight   = 12
	maxLogLines = 2000
)

// VideoTypes are the extensions the file picker offers.
var VideoTypes = []string{".mp4", ".mkv", ".mov", ".avi", ".webm", ".flv", ".m4v", ".mpeg", ".mpg"}

// Starter launches a conversion; *convert.Runner implements it.
type Starter interface {
	Start(ctx context.Context, req convert.Request) <-chan convert.Event
}

// Options configures the UI.
type Options struct {
	Runner    Starter
	Logger    *logging.Logger
	StartDir  string // where the file picker opens
	OutputDir string // empty means next to the input file
	Format    formats.Format
	KeepAudio bool
	Now       func() time.Time
}

type formatItem struct {
	preset formats.Preset
}

func (f formatItem) Title() string       { return f.preset.Title }
func (f formatItem) Description() string { return f.preset.Description }
func (f formatItem) FilterValue() string { return f.preset.Title }

type model struct {
	screen screen
	width  int

	filepicker filepicker.Model
	formatList list.Model
	nameInput  textinput.Model
	dirInput   textinput.Model
	logView    viewport.Model
	spinner    spinner.Model

	// selection
	input     string
	format    formats.Format
	keepAudio bool
	outputDir string

	output string
	logs   []string
	result *convert.Result
	err    error
	events <-chan convert.Event

	runner Starter
	log    *logging.Logger
	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc

	canceled bool
}

type (
	logLineMsg        string
	conversionDoneMsg convert.Result
)

type startedMsg struct {
	events <-chan convert.Event
}

type clearErrorMsg struct{}

func clearErrorAfter(t time.Duration) tea.Cmd {
	return tea.Tick(t, func(_ time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

func startConversionCmd(ctx context.Context, r Starter, req convert.Request) tea.Cmd {
	return func() tea.Msg {
		return startedMsg{events: r.Start(ctx, req)}
	}
}

// listen turns the next event on ch into a message. It is re-armed after
// every line so the UI reads the stream one event at a time.
func listen(ch <-chan convert.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		if ev.Done() {
			return conversionDoneMsg(*ev.Result)
		}
		return logLineMsg(ev.Line)
	}
}

func initialModel(opts Options) model {
	fp := filepicker.New()
	fp.AllowedTypes = VideoTypes
	fp.CurrentDirectory = opts.StartDir
	if fp.CurrentDirectory == "" {
		if hd, err := os.UserHomeDir(); err == nil {
			fp.CurrentDirectory = hd
		} else {
			fp.CurrentDirectory = "."
		}
	}
	fp.ShowHidden = false
	fp.AutoHeight = true

	presets := formats.All()
	items := make([]list.Item, len(presets))
	for i, p := range presets {
		items[i] = formatItem{preset: p}
	}
	ls := list.New(items, list.NewDefaultDelegate(), 60, 16)
	ls.Title = "Target format (↑/↓ then Enter)"
	ls.SetFilteringEnabled(false)
	ls.Select(int(formats.Lookup(opts.Format).Format))

	name := textinput.New()
	name.Prompt = "Filename: "
	name.Placeholder = "output filename (without extension)"
	name.CharLimit = 255

	dir := textinput.New()
	dir.Prompt = "Save to:  "
	dir.Placeholder = "output directory"

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return model{
		screen:     screenPicker,
		width:      maxWidth,
		filepicker: fp,
		formatList: ls,
		nameInput:  name,
		dirInput:   dir,
		logView:    viewport.New(maxWidth-4, logHeight),
		spinner:    sp,
		format:     formats.Lookup(opts.Format).Format,
		keepAudio:  opts.KeepAudio,
		outputDir:  opts.OutputDir,
		runner:     opts.Runner,
		log:        log,
		now:        now,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (m model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m *model) appendLog(lines ...string) {
	m.logs = append(m.logs, lines...)
	if over := len(m.logs) - maxLogLines; over > 0 {
		m.logs = m.logs[over:]
	}
	m.logView.SetContent(strings.Join(m.logs, "\n"))
	m.logView.GotoBottom()
}

// selectFile records the picked input and fills in the default output name
// and directory from it.
func (m *model) selectFile(path string) {
	m.input = path
	if m.nameInput.Value() == "" {
		m.nameInput.SetValue(convert.DefaultName(path))
	}
	dir := convert.DefaultDir(m.outputDir, path)
	m.dirInput.SetValue(dir)
	m.appendLog("✓ Selected: "+path, "✓ Output directory: "+dir)
	m.log.Info("selected %s", path)
	m.screen = screenFormat
}

func (m model) settings() formats.Settings {
	return formats.Build(m.format, m.keepAudio)
}

func (m model) candidateOutput() string {
	return filepath.Join(strings.TrimSpace(m.dirInput.Value()), strings.TrimSpace(m.nameInput.Value())+"."+m.settings().Ext)
}

// startConversion validates the selection, resolves the output path and
// hands the request to the runner.
func (m model) startConversion() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.nameInput.Value())
	if err := convert.Validate(m.input, name); err != nil {
		m.err = err
		m.log.Warn("not starting: %v", err)
		m.screen = screenError
		return m, nil
	}

	s := m.settings()
	output, renamed := convert.ResolveOutputPath(strings.TrimSpace(m.dirInput.Value()), name, s.Ext, m.now())
	if renamed {
		m.appendLog("⚠ Output exists, using: " + output)
		m.log.Warn("output exists, using %s", output)
	}
	m.output = output
	m.result = nil
	m.screen = screenRunning
	m.appendLog(fmt.Sprintf("Starting conversion to %s...", strings.ToUpper(s.Ext)))

	req := convert.NewRequest(m.input, output, s)
	return m, tea.Batch(startConversionCmd(m.ctx, m.runner, req), m.spinner.Tick)
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.canceled = true
	// kills ffmpeg if a conversion is still running
	m.cancel()
	return m, tea.Quit
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = min(max(msg.Width-padding*2, minWidth), maxWidth)
		m.logView.Width = max(m.width-4, 1)
		m.formatList.SetWidth(m.width)
		m.nameInput.Width = max(m.width-len(m.nameInput.Prompt)-1, 1)
		m.dirInput.Width = max(m.width-len(m.dirInput.Prompt)-1, 1)
	}

	switch m.screen {
	case screenPicker:
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "ctrl+c", "q":
				return m.quit()
			}
		case clearErrorMsg:
			m.err = nil
		}

		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.err = nil
			m.selectFile(path)
		}
		if didSelect, path := m.filepicker.DidSelectDisabledFile(msg); didSelect {
			m.err = errors.New(path + " is not a supported video file.")
			return m, tea.Batch(cmd, clearErrorAfter(2*time.Second))
		}
		return m, cmd

	case screenFormat:
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.Type {
			case tea.KeyEnter:
				m.format = formats.Lookup(formats.Format(m.formatList.Index())).Format
				if formats.ForcesAudio(m.format) {
					m.screen = screenName
					return m, m.nameInput.Focus()
				}
				m.screen = screenAudio
				return m, nil
			case tea.KeyEsc:
				m.screen = screenPicker
				return m, nil
			case tea.KeyCtrlC:
				return m.quit()
			}
		}
		var cmd tea.Cmd
		m.formatList, cmd = m.formatList.Update(msg)
		return m, cmd

	case screenAudio:
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "up", "down", "left", "right", "k", "j", "h", "l", "tab", " ":
				m.keepAudio = !m.keepAudio
			case "enter":
				m.screen = screenName
				return m, m.nameInput.Focus()
			case "esc":
				m.screen = screenFormat
			case "ctrl+c":
				return m.quit()
			}
		}
		return m, nil

	case screenName:
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.Type {
			case tea.KeyEnter:
				m.nameInput.Blur()
				m.dirInput.Blur()
				m.screen = screenConfirm
				return m, nil
			case tea.KeyTab, tea.KeyShiftTab:
				if m.nameInput.Focused() {
					m.nameInput.Blur()
					return m, m.dirInput.Focus()
				}
				m.dirInput.Blur()
				return m, m.nameInput.Focus()
			case tea.KeyEsc:
				m.nameInput.Blur()
				m.dirInput.Blur()
				if formats.ForcesAudio(m.format) {
					m.screen = screenFormat
				} else {
					m.screen = screenAudio
				}
				return m, nil
			case tea.KeyCtrlC:
				return m.quit()
			}
		}
		var nameCmd, dirCmd tea.Cmd
		m.nameInput, nameCmd = m.nameInput.Update(msg)
		m.dirInput, dirCmd = m.dirInput.Update(msg)
		return m, tea.Batch(nameCmd, dirCmd)

	case screenConfirm:
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.Type {
			case tea.KeyEnter:
				return m.startConversion()
			case tea.KeyEsc:
				m.screen = screenName
				return m, m.nameInput.Focus()
			case tea.KeyCtrlC:
				return m.quit()
			}
		}
		return m, nil

	case screenRunning:
		switch msg := msg.(type) {
		case startedMsg:
			m.events = msg.events
			return m, listen(m.events)

		case logLineMsg:
			m.appendLog(string(msg))
			m.log.Debug("ffmpeg: %s", string(msg))
			return m, listen(m.events)

		case conversionDoneMsg:
			res := convert.Result(msg)
			m.result = &res
			m.events = nil
			m.appendLog("", res.Message)
			m.screen = screenDone
			return m, nil

		case spinner.TickMsg:
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd

		case tea.KeyMsg:
			// there is no cancel, only quitting the whole program
			if msg.String() == "ctrl+c" {
				return m.quit()
			}
		}
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd

	case screenError:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.err = nil
			m.screen = screenName
			return m, m.nameInput.Focus()
		}
		return m, nil

	case screenDone:
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "enter":
				m.screen = screenFormat
				return m, nil
			case "n":
				m.input = ""
				m.nameInput.SetValue("")
				m.screen = screenPicker
				return m, m.filepicker.Init()
			case "q", "esc", "ctrl+c":
				return m.quit()
			}
		}
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Universal FFmpeg Converter") + "\n\n")

	switch m.screen {
	case screenPicker:
		if m.canceled {
			return ""
		}
		if m.err != nil {
			s.WriteString(errorStyle.Render(m.err.Error()))
		} else if m.input == "" {
			s.WriteString("Pick a video file:")
		} else {
			s.WriteString("Selected file: " + m.filepicker.Styles.Selected.Render(m.input))
		}
		s.WriteString("\n\n" + m.filepicker.View() + "\n")
		s.WriteString(helpStyle.Render("q: quit"))

	case screenFormat:
		s.WriteString(field("Input", m.input) + "\n\n")
		s.WriteString(m.formatList.View() + "\n\n")
		s.WriteString(helpStyle.Render("enter: choose • esc: back"))

	case screenAudio:
		s.WriteString(field("Format", formats.Lookup(m.format).Label()) + "\n\n")
		s.WriteString(labelStyle.Render("Audio options") + "\n\n")
		s.WriteString("  " + radio(m.keepAudio) + " Keep audio    " + radio(!m.keepAudio) + " Remove audio\n\n")
		s.WriteString(helpStyle.Render("←/→: toggle • enter: next • esc: back"))

	case screenName:
		s.WriteString(labelStyle.Render("Output settings") + "\n\n")
		s.WriteString(m.nameInput.View() + "\n")
		s.WriteString(m.dirInput.View() + "\n\n")
		s.WriteString(helpStyle.Render("tab: switch field • enter: next • esc: back"))

	case screenConfirm:
		s.WriteString("Ready to convert:\n\n")
		s.WriteString(field("  input ", m.input) + "\n")
		s.WriteString(field("  format", formats.Lookup(m.format).Label()) + "\n")
		s.WriteString(field("  audio ", audioLabel(m.format, m.keepAudio)) + "\n")
		s.WriteString(field("  output", m.candidateOutput()) + "\n\n")
		s.WriteString(helpStyle.Render("enter: convert • esc: back • ctrl+c: quit"))

	case screenRunning:
		s.WriteString(m.spinner.View() + " Converting to " + m.output + "\n\n")
		s.WriteString(logBoxStyle.Render(m.logView.View()) + "\n")
		s.WriteString(helpStyle.Render("ctrl+c: quit (stops ffmpeg)"))

	case screenDone:
		if m.result != nil && m.result.OK {
			s.WriteString(successStyle.Render(m.result.Message))
		} else if m.result != nil {
			s.WriteString(errorStyle.Render(m.result.Message))
		}
		s.WriteString("\n\n" + logBoxStyle.Render(m.logView.View()) + "\n")
		s.WriteString(helpStyle.Render("enter: convert again • n: new file • q: quit"))

	case screenError:
		s.WriteString(errorStyle.Render("Error: "+errString(m.err)) + "\n\n")
		s.WriteString(helpStyle.Render("(press any key to go back)"))

	default:
		return "unknown state"
	}

	return s.String() + "\n"
}

func field(label, value string) string {
	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func radio(on bool) string {
	if on {
		return "(•)"
	}
	return "( )"
}

func audioLabel(f formats.Format, keep bool) string {
	switch {
	case formats.Lookup(f).Format == formats.AnimatedGIF:
		return "none (GIF is silent)"
	case formats.Lookup(f).Format == formats.MP3Audio:
		return "MP3 192kbps"
	case keep:
		return "keep"
	default:
		return warnStyle.Render("remove")
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Run starts the interactive program and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(initialModel(opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok {
		fm.cancel()
		return nil
	}
	return fmt.Errorf("unexpected final model type")
}
