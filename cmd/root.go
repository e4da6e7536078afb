package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mk7214/ffconvertTui/internal/config"
	"github.com/Mk7214/ffconvertTui/internal/convert"
	"github.com/Mk7214/ffconvertTui/internal/formats"
	"github.com/Mk7214/ffconvertTui/internal/logging"
	"github.com/Mk7214/ffconvertTui/internal/tui"
)

var (
	cfgFile    string
	inputPath  string
	formatName string
	noAudio    bool
	outName    string
	outDir     string
	logFile    string
	ffmpegPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "ffconvert",
	Short: "Convert media files with ffmpeg",
	Long: `ffconvert picks a media file, a target format and audio handling, and runs
ffmpeg to convert it while streaming ffmpeg's log.

Without --input an interactive picker starts. With --input the conversion
runs straight away and ffmpeg's output is written to stderr.

Formats: mp4 (H.264), mov (ProRes 422), webm (VP9), gif (15fps, 640px), mp3 (192kbps).

Example:
  ffconvert
  ffconvert --input holiday.mkv --format webm --no-audio
  ffconvert --input holiday.mkv --format gif --name preview --out-dir ~/Desktop`,
	SilenceUsage: true,
	RunE:         runRoot,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultPath()+")")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "input media file (starts the picker when empty)")
	rootCmd.Flags().StringVarP(&formatName, "format", "f", "", "output format: "+strings.Join(formats.Names(), "|"))
	rootCmd.Flags().BoolVar(&noAudio, "no-audio", false, "drop the audio track (ignored for gif and mp3)")
	rootCmd.Flags().StringVarP(&outName, "name", "n", "", "output filename without extension (default: input name)")
	rootCmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "output directory (default: next to the input)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "append log entries to this file")
	rootCmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "ffmpeg executable (default from config or PATH)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every ffmpeg line at debug level")
}

// loadConfig reads --config when given, otherwise the default location,
// where a missing file just means defaults.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadOrDefault(config.DefaultPath())
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("ffmpeg") {
		cfg.FFmpegPath = ffmpegPath
	}
	if flags.Changed("out-dir") {
		cfg.OutputDirectory = outDir
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("no-audio") {
		cfg.KeepAudio = !noAudio
	}
	format := cfg.Format()
	if flags.Changed("format") {
		if format, err = formats.Parse(formatName); err != nil {
			return err
		}
	}

	tool, err := convert.LookupTool(cfg.FFmpegPath)
	if err != nil {
		return fmt.Errorf("%w, install it and try again", err)
	}

	interactive := inputPath == ""
	logOpts := logging.Options{File: cfg.LogFile, Verbose: verbose}
	if !interactive {
		logOpts.Console = cmd.ErrOrStderr()
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	defer log.Close()
	log.Debug("using %s", tool)

	runner := convert.NewRunner(convert.WithTool(tool), convert.WithLogger(log))

	if interactive {
		return tui.Run(tui.Options{
			Runner:    runner,
			Logger:    log,
			OutputDir: cfg.OutputDirectory,
			Format:    format,
			KeepAudio: cfg.KeepAudio,
		})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return RunConvertWithDependencies(ctx, runner, log, ConvertParams{
		Input:     inputPath,
		Name:      outName,
		OutputDir: cfg.OutputDirectory,
		Format:    format,
		KeepAudio: cfg.KeepAudio,
		Now:       time.Now(),
	}, cmd.ErrOrStderr())
}

// ConvertParams is one headless conversion.
type ConvertParams struct {
	Input     string
	Name      string // empty means the input's name
	OutputDir string // empty means the input's directory
	Format    formats.Format
	KeepAudio bool
	Now       time.Time
}

// Starter launches a conversion; *convert.Runner implements it.
type Starter interface {
	Start(ctx context.Context, req convert.Request) <-chan convert.Event
}

// RunConvertWithDependencies runs a conversion with injected dependencies (for testing).
// ffmpeg's lines are written to output as they arrive.
func RunConvertWithDependencies(
	ctx context.Context,
	runner Starter,
	log *logging.Logger,
	p ConvertParams,
	output io.Writer,
) error {
	name := p.Name
	if name == "" && p.Input != "" {
		name = convert.DefaultName(p.Input)
	}
	if err := convert.Validate(p.Input, name); err != nil {
		return err
	}

	s := formats.Build(p.Format, p.KeepAudio)
	dir := convert.DefaultDir(p.OutputDir, p.Input)
	out, renamed := convert.ResolveOutputPath(dir, name, s.Ext, p.Now)
	if renamed {
		log.Warn("output exists, using %s", out)
	}
	log.Info("starting conversion to %s", strings.ToUpper(s.Ext))

	for ev := range runner.Start(ctx, convert.NewRequest(p.Input, out, s)) {
		if !ev.Done() {
			fmt.Fprintln(output, ev.Line)
			continue
		}
		fmt.Fprintln(output, ev.Result.Message)
		if !ev.Result.OK {
			if ev.Result.Err != nil {
				return fmt.Errorf("conversion failed: %w", ev.Result.Err)
			}
			return fmt.Errorf("conversion failed")
		}
		return nil
	}
	return fmt.Errorf("conversion aborted: %w", ctx.Err())
}
