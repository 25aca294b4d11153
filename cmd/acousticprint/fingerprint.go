package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/himanishpuri/acousticprint/pkg/logger"
	"github.com/himanishpuri/acousticprint/pkg/utils"
)

func newFingerprintCmd(c *cli) *cobra.Command {
	var (
		raw    bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "fingerprint <audio>",
		Short: "Fingerprint an audio file with fpcalc",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := c.svc.FingerprintFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			info, err := c.svc.Describe(fp, args[0])
			if err != nil {
				return err
			}

			text := info.Encoded
			if raw {
				text = utils.FormatSubfingerprints(fp.Subfingerprints)
			}
			if output != "" {
				if err := utils.WriteFileAtomic(output, []byte(text+"\n")); err != nil {
					return err
				}
				logger.Infof("Wrote %s fingerprint to %s", humanize.Bytes(uint64(len(text)+1)), output)
			}

			out := cmd.OutOrStdout()
			switch {
			case c.jsonOut:
				if !raw {
					info.Raw = nil
				}
				return writeJSON(out, info)
			case output == "":
				fmt.Fprintln(out, text)
			default:
				fmt.Fprintf(out, "%s: %s frames, %.1fs, %s compressed\n",
					args[0],
					humanize.Comma(int64(info.Length)),
					float64(info.DurationMs)/1000,
					humanize.Bytes(uint64(info.SizeBytes)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print raw subfingerprints instead of base64")
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the fingerprint to this file")
	return cmd
}
