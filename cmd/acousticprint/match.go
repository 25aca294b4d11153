package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/himanishpuri/acousticprint/pkg/acousticprint/fingerprint"
	"github.com/himanishpuri/acousticprint/pkg/models"
	"github.com/himanishpuri/acousticprint/pkg/utils"
)

func newMatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "match <fingerprint1> <fingerprint2>",
		Short: "Find matching segments between two fingerprints",
		Long:  "Compare two raw or base64 fingerprints.\n" + inputHelp,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" && args[1] == "-" {
				return fmt.Errorf("%w: stdin can supply only one of the two fingerprints", fingerprint.ErrInvalidInput)
			}
			a, err := utils.ReadInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			b, err := utils.ReadInput(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			report, err := c.svc.MatchEncoded(a, b)
			if err != nil {
				return err
			}
			return c.printReport(cmd.OutOrStdout(), report)
		},
	}
}

func newCompareCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <audio1> <audio2>",
		Short: "Fingerprint two audio files with fpcalc and match them",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.svc.CompareFiles(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return c.printReport(cmd.OutOrStdout(), report)
		},
	}
}

func (c *cli) printReport(w io.Writer, report *models.MatchReport) error {
	if c.jsonOut {
		return writeJSON(w, report)
	}
	if !report.Matched() {
		fmt.Fprintf(w, "No matching segments (%s x %s frames)\n",
			humanize.Comma(int64(report.Length1)), humanize.Comma(int64(report.Length2)))
		return nil
	}

	fmt.Fprintf(w, "Found %d matching segment(s) (%s x %s frames, %s)\n",
		len(report.Segments),
		humanize.Comma(int64(report.Length1)),
		humanize.Comma(int64(report.Length2)),
		report.Algorithm)
	for i, s := range report.Segments {
		fmt.Fprintf(w, "%2d. %s -> %s  length %s  offset %s  confidence %d%%\n",
			i+1,
			formatMs(s.Pos1Ms),
			formatMs(s.Pos2Ms),
			formatMs(s.DurationMs),
			formatOffset(s.OffsetMs),
			s.Confidence)
	}
	return nil
}

// formatMs renders milliseconds as m:ss.mmm.
func formatMs(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	m := int64(d / time.Minute)
	sec := int64((d % time.Minute) / time.Second)
	return fmt.Sprintf("%d:%02d.%03d", m, sec, ms%1000)
}

func formatOffset(ms int64) string {
	if ms < 0 {
		return "-" + formatMs(-ms)
	}
	return "+" + formatMs(ms)
}
