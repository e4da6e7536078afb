package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/Mk7214/ffconvertTui/internal/config"
	"github.com/Mk7214/ffconvertTui/internal/formats"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupPath string

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and writes config.yaml.

Values already present in the file are offered as defaults.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := setupPath
		if path == "" {
			path = cfgFile
		}
		if path == "" {
			path = config.DefaultPath()
		}
		return RunSetupWithPrompter(DefaultPrompter, path, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().StringVar(&setupPath, "path", "", "where to write the config file")
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing).
// Status messages go to output.
func RunSetupWithPrompter(prompter Prompter, configPath string, output io.Writer) error {
	current := config.Default()
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(configPath+" already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
		if existing, err := config.Load(configPath); err == nil {
			current = existing
		}
	}

	cfg := &config.Config{}
	var err error

	if cfg.FFmpegPath, err = prompter.Input("ffmpeg executable:", current.FFmpegPath); err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if cfg.OutputDirectory, err = prompter.Input("Output directory (empty = next to the input file):", current.OutputDirectory); err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if cfg.DefaultFormat, err = prompter.Select("Default format:", formats.Names(), current.Format().String()); err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if cfg.KeepAudio, err = prompter.Confirm("Keep audio by default?", current.KeepAudio); err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if cfg.LogFile, err = prompter.Input("Log file (empty = no log file):", current.LogFile); err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Fprintf(output, "Configuration saved to %s\n", configPath)
	return nil
}
