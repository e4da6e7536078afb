package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Mk7214/ffconvertTui/internal/formats"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the available output formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return PrintFormats(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

// PrintFormats writes the format table with the ffmpeg arguments each
// entry uses when audio is kept.
func PrintFormats(w io.Writer) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "NAME", "FORMAT", "VIDEO ARGS", "AUDIO ARGS")
	for i, p := range formats.All() {
		s := formats.Build(p.Format, true)
		t.Row(strconv.Itoa(i), p.Name, p.Label(),
			strings.Join(s.VideoArgs, " "), strings.Join(s.AudioArgs, " "))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
