package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuesheet/internal/editor"
	"github.com/mgpai22/cuesheet/internal/timecode"
	"github.com/mgpai22/cuesheet/internal/timeline"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		start   string
		end     string
		autoEnd bool
	)

	cmd := &cobra.Command{
		Use:   "add [media_file] [text...]",
		Short: "Add a cue",
		Long: `Add a cue to the timeline of a media file.

Without --end the cue lasts the configured default length, or one second per
word with --auto-end. A cue that overlaps its neighbour is shortened to end
before the next cue starts.

Examples:
  cuesheet add movie.mp4 --start 00:00:01.000 --end 00:00:03.500 Hello there
  cuesheet add movie.mp4 --start 61000 --auto-end "General Kenobi"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			startMs, err := parseTime(start)
			if err != nil {
				return err
			}
			var endMs *timecode.Millis
			if cmd.Flags().Changed("end") {
				v, err := parseTime(end)
				if err != nil {
					return err
				}
				endMs = &v
			}

			s, err := ctx.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			i, err := s.Add(startMs, endMs, strings.Join(args[1:], " "), autoEnd)
			if err != nil {
				return err
			}

			c := s.Cues()[i]
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", describeCue(i, c))
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "Start time (milliseconds or HH:MM:SS.mmm)")
	cmd.Flags().StringVarP(&end, "end", "e", "", "End time (milliseconds or HH:MM:SS.mmm)")
	cmd.Flags().BoolVar(&autoEnd, "auto-end", false, "Derive the end time from the word count")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var (
		start string
		end   string
		text  string
	)

	cmd := &cobra.Command{
		Use:   "edit [media_file] [cue_number]",
		Short: "Change the times or text of a cue",
		Long: `Change one or more fields of a cue. Fields without a flag keep their value.
Cue numbers start at 1, as in "cuesheet show".

Examples:
  cuesheet edit movie.mp4 3 --text "Corrected line"
  cuesheet edit movie.mp4 3 --start 00:00:04.200 --end 00:00:06.000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var values editor.EditValues
			if cmd.Flags().Changed("start") {
				v, err := parseTime(start)
				if err != nil {
					return err
				}
				values.Start = &v
			}
			if cmd.Flags().Changed("end") {
				v, err := parseTime(end)
				if err != nil {
					return err
				}
				values.End = &v
			}
			if cmd.Flags().Changed("text") {
				values.Text = &text
			}
			if values == (editor.EditValues{}) {
				return fmt.Errorf("nothing to change: pass --start, --end or --text")
			}

			s, err := ctx.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			i, err := parseIndex(args[1], s.Len())
			if err != nil {
				return err
			}
			i, err = s.Edit(i, values)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", describeCue(i, s.Cues()[i]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "New start time")
	cmd.Flags().StringVarP(&end, "end", "e", "", "New end time")
	cmd.Flags().StringVarP(&text, "text", "t", "", "New text")

	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [media_file] [cue_number]",
		Aliases: []string{"rm"},
		Short:   "Delete a cue",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			i, err := parseIndex(args[1], s.Len())
			if err != nil {
				return err
			}
			removed := s.Cues()[i]
			if err := s.Delete(i); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", describeCue(i, removed))
			return nil
		},
	}
}

func newNudgeCommand(ctx *commandContext) *cobra.Command {
	var (
		edge string
		by   string
	)

	cmd := &cobra.Command{
		Use:   "nudge [media_file] [cue_number]",
		Short: "Move the start or end of a cue",
		Long: `Move one edge of a cue by a signed offset, clamped to the media length.
Without --by the configured nudge step is used.

Examples:
  cuesheet nudge movie.mp4 2 --edge start --by -250
  cuesheet nudge movie.mp4 2 --edge end --by=+00:00:01.000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := timeline.ParseEdge(edge)
			if err != nil {
				return err
			}
			delta := timecode.Millis(ctx.config.Editor.NudgeStepMs)
			if cmd.Flags().Changed("by") {
				if delta, err = parseDelta(by); err != nil {
					return err
				}
			}

			s, err := ctx.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			i, err := parseIndex(args[1], s.Len())
			if err != nil {
				return err
			}
			c, err := s.Nudge(i, e, delta)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Nudged %s\n", describeCue(i, c))
			return nil
		},
	}

	cmd.Flags().StringVar(&edge, "edge", "start", "Edge to move (start or end)")
	cmd.Flags().StringVar(&by, "by", "", "Signed offset (milliseconds or HH:MM:SS.mmm)")

	return cmd
}

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [media_file]",
		Short: "Sort the cues and remove overlaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := s.Normalize(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Normalized %d cues: %s\n", s.Len(), s.SidecarPath())
			return nil
		},
	}
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import [media_file] [subtitle_file]",
		Short: "Replace the cues of a media file with a subtitle file",
		Long: `Replace every cue of a media file with the cues of a subtitle file. The
format is picked from the extension (srt, vtt, ass, ssa, sbv, lrc, stl, json).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			n, err := s.Import(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cues from %s\n", n, args[1])
			return nil
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export [media_file] [subtitle_file]",
		Short: "Write the cues of a media file as a subtitle file",
		Long: `Write the cues of a media file in the format picked from the output
extension (srt, vtt, ass, ssa, sbv, lrc, stl, json).

Examples:
  cuesheet export movie.mp4 movie.srt
  cuesheet export movie.mp4 movie.ass`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := s.Export(args[1]); err != nil {
				return err
			}
			absOutput, _ := filepath.Abs(args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cues: %s\n", s.Len(), absOutput)
			return nil
		},
	}
}
