package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/himanishpuri/acousticprint/pkg/acousticprint/fingerprint"
	"github.com/himanishpuri/acousticprint/pkg/models"
	"github.com/himanishpuri/acousticprint/pkg/logger"
	"github.com/himanishpuri/acousticprint/pkg/utils"
)

const inputHelp = `Arguments may be given literally, as "-" to read stdin, or as "@path"
to read a file.`

func newEncodeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <raw-subfingerprints>",
		Short: "Compress a raw subfingerprint list to base64",
		Long:  "Compress a comma or whitespace separated list of subfingerprints.\n" + inputHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := utils.ReadInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			fps, err := utils.ParseSubfingerprints(text)
			if err != nil {
				return fmt.Errorf("%w: %v", fingerprint.ErrInvalidInput, err)
			}
			fp := fingerprint.Fingerprint{Algorithm: c.cfg.Algorithm, Subfingerprints: fps}
			info, err := c.svc.Describe(fp, args[0])
			if err != nil {
				return err
			}
			if c.jsonOut {
				info.Raw = nil
				return writeJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.Encoded)
			logger.Infof("Encoded %s subfingerprints into %s", humanize.Comma(int64(info.Length)), humanize.Bytes(uint64(info.SizeBytes)))
			return nil
		},
	}
}

func newDecodeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <base64-fingerprint>",
		Short: "Decompress a base64 fingerprint to raw subfingerprints",
		Long:  "Decompress a fingerprint in AcoustID base64 form.\n" + inputHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := utils.ReadInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			fp, err := c.svc.Decode(text)
			if err != nil {
				return err
			}
			if c.jsonOut {
				info, err := c.svc.Describe(fp, args[0])
				if err != nil {
					return err
				}
				info.Encoded = ""
				return writeJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), utils.FormatSubfingerprints(fp.Subfingerprints))
			return nil
		},
	}
}

func newHashCmd(c *cli) *cobra.Command {
	var binary bool
	cmd := &cobra.Command{
		Use:   "hash <fingerprint>",
		Short: "Compute the 32-bit similarity hash of a fingerprint",
		Long:  "Compute the SimHash of a raw or base64 fingerprint.\n" + inputHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := utils.ReadInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			fp, err := c.svc.ParseFingerprint(text)
			if err != nil {
				return err
			}
			h := c.svc.Hash(fp.Subfingerprints)
			out := cmd.OutOrStdout()
			switch {
			case c.jsonOut:
				return writeJSON(out, models.FingerprintInfo{
					Source:    args[0],
					Algorithm: fp.Algorithm.String(),
					Length:    fp.Len(),
					SimHash:   h,
				})
			case binary:
				fmt.Fprintf(out, "%032b\n", h)
			default:
				fmt.Fprintln(out, h)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&binary, "binary", false, "print the hash as 32 binary digits")
	return cmd
}
