package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mgpai22/cuesheet/internal/cue"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [media_file]",
		Short: "List the cues of a media file",
		Long: `List the cues stored in the sidecar of a media file.

A table is drawn on a terminal; piped output is tab-separated with one cue
per line (number, start, end, text).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			writeCues(out, s.Cues(), isTerminal(out))
			return nil
		},
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func writeCues(w io.Writer, cues []cue.Cue, pretty bool) {
	if !pretty {
		for i, c := range cues {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				i+1,
				formatTime(c.Start),
				formatTime(c.End),
				strings.ReplaceAll(c.Text, "\t", " "),
			)
		}
		return
	}
	if len(cues) == 0 {
		fmt.Fprintln(w, "No cues")
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Start", "End", "Text"})
	for i, c := range cues {
		tw.AppendRow(table.Row{strconv.Itoa(i + 1), formatTime(c.Start), formatTime(c.End), c.Text})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, WidthMax: 60},
	})
	fmt.Fprintln(w, tw.Render())
}

func newAtCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "at [media_file] [position]",
		Short: "Show the cue active at a playback position",
		Long: `Show the cue whose span contains the position. Positions are milliseconds
or HH:MM:SS.mmm.

Examples:
  cuesheet at movie.mp4 83500
  cuesheet at movie.mp4 00:01:23.500`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parseTime(args[1])
			if err != nil {
				return err
			}
			s, err := ctx.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			i, c, ok := s.ActiveAt(pos)
			if !ok {
				fmt.Fprintf(out, "No cue at %s\n", formatTime(pos))
				return nil
			}
			fmt.Fprintln(out, describeCue(i, c))
			return nil
		},
	}
}
