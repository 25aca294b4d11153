package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/himanishpuri/acousticprint/internal/config"
	"github.com/himanishpuri/acousticprint/pkg/acousticprint"
	"github.com/himanishpuri/acousticprint/pkg/acousticprint/extract"
	"github.com/himanishpuri/acousticprint/pkg/acousticprint/fingerprint"
	"github.com/himanishpuri/acousticprint/pkg/logger"
)

// cli carries state shared by all subcommands. Flag values override the
// environment configuration only when set explicitly.
type cli struct {
	cfg *config.Config
	log *logger.Logger
	svc acousticprint.Service

	envFile    string
	jsonOut    bool
	algorithm  string
	fpcalcPath string
	length     int
	timeout    time.Duration
	threshold  float64
	maxGap     int
	logLevel   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "acousticprint",
		Short: "Compress, hash and compare chromaprint audio fingerprints",
		Long: `acousticprint works with chromaprint subfingerprint sequences:
it converts them to and from the compact base64 form used by AcoustID,
computes similarity hashes, and locates matching segments between two
recordings. Audio files are fingerprinted with the fpcalc tool.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.envFile, "env", ".env", "dotenv file to load before reading the environment")
	flags.BoolVar(&c.jsonOut, "json", false, "print machine-readable JSON")
	flags.StringVarP(&c.algorithm, "algorithm", "a", "", "algorithm for raw input: 1-5 or test1-test5 (env ACOUSTIC_ALGORITHM)")
	flags.StringVar(&c.fpcalcPath, "fpcalc", "", "path to the fpcalc binary (env ACOUSTIC_FPCALC_PATH)")
	flags.IntVar(&c.length, "length", 0, "seconds of audio to fingerprint, 0 for the whole file (env ACOUSTIC_FPCALC_LENGTH)")
	flags.DurationVar(&c.timeout, "timeout", 0, "per-file extraction timeout (env ACOUSTIC_FPCALC_TIMEOUT)")
	flags.Float64Var(&c.threshold, "threshold", 0, "max mean differing bits per frame inside a match (env ACOUSTIC_MATCH_THRESHOLD)")
	flags.IntVar(&c.maxGap, "max-gap", 0, "frames of mismatch bridged inside one segment (env ACOUSTIC_MATCH_MAX_GAP)")
	flags.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level, overriding --log-level")

	rootCmd.AddCommand(
		newEncodeCmd(c),
		newDecodeCmd(c),
		newHashCmd(c),
		newMatchCmd(c),
		newFingerprintCmd(c),
		newCompareCmd(c),
		newVersionCmd(),
	)
	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("algorithm") {
		alg, err := fingerprint.ParseAlgorithm(c.algorithm)
		if err != nil {
			return err
		}
		cfg.Algorithm = alg
	}
	if flags.Changed("fpcalc") {
		cfg.FpcalcPath = c.fpcalcPath
	}
	if flags.Changed("length") {
		cfg.FpcalcLength = c.length
	}
	if flags.Changed("timeout") {
		cfg.FpcalcTimeout = c.timeout
	}
	if flags.Changed("threshold") {
		cfg.MatchThreshold = c.threshold
	}
	if flags.Changed("max-gap") {
		cfg.MatchMaxGap = c.maxGap
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	c.cfg = cfg

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.LogLevel)
	logCfg.JSON = strings.EqualFold(cfg.LogFormat, "json")
	logCfg.FilePath = cfg.LogFile
	logCfg.Output = cmd.ErrOrStderr()
	c.log = logger.Init(logCfg)
	if c.verbose {
		logger.SetLevel(logger.DEBUG)
	}
	logger.Debugf("Executing command: %s", cmd.Name())

	c.svc, err = acousticprint.NewService(
		acousticprint.WithAlgorithm(cfg.Algorithm),
		acousticprint.WithLogger(c.log),
		acousticprint.WithExtractor(extract.NewFpcalc(extract.FpcalcConfig{
			Path:      cfg.FpcalcPath,
			Algorithm: cfg.Algorithm,
			Length:    cfg.FpcalcLength,
			Timeout:   cfg.FpcalcTimeout,
		})),
		acousticprint.WithMatcherOptions(
			fingerprint.WithMatchThreshold(cfg.MatchThreshold),
			fingerprint.WithMaxGap(cfg.MatchMaxGap),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// skip config and logger setup
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "acousticprint %s\n", acousticprint.Version)
		},
	}
}
