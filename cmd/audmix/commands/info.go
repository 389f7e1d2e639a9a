// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ik5/audmix/formats"
)

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the format and channel peaks of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runInfo,
	}
}

func (a *app) runInfo(cmd *cobra.Command, args []string) error {
	src, err := formats.Open(formats.Decoders, args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	channels := src.Channels()
	peaks := make([]float64, channels)
	buf := make([]float32, a.cfg.Block*channels)

	frames := 0
	for {
		n, err := src.ReadFrames(buf)
		for i, v := range buf[:n*channels] {
			peaks[i%channels] = max(peaks[i%channels], math.Abs(float64(v)))
		}
		frames += n

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
	}

	levels := make([]string, channels)
	for i, p := range peaks {
		levels[i] = fmt.Sprintf("%.3f", p)
	}

	duration := time.Duration(float64(frames) / float64(src.SampleRate()) * float64(time.Second))

	w := cmd.OutOrStdout()
	label := labelStyle(w)
	fmt.Fprintln(w, label.Render("file:")+args[0])
	fmt.Fprintln(w, label.Render("rate:")+fmt.Sprintf("%d Hz", src.SampleRate()))
	fmt.Fprintln(w, label.Render("channels:")+fmt.Sprint(channels))
	fmt.Fprintln(w, label.Render("frames:")+fmt.Sprint(frames))
	fmt.Fprintln(w, label.Render("duration:")+duration.Round(time.Millisecond).String())
	fmt.Fprintln(w, label.Render("peaks:")+strings.Join(levels, " "))

	return nil
}

// labelStyle highlights field names when w is a color terminal and leaves
// only the padding otherwise.
func labelStyle(w io.Writer) lipgloss.Style {
	return lipgloss.NewRenderer(w).NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ff9f")).
		Width(11)
}

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the file extensions audmix can read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, ext := range formats.Decoders.Formats() {
				fmt.Fprintln(cmd.OutOrStdout(), ext)
			}
			return nil
		},
	}
}
