// Package extract obtains subfingerprints for audio files from the external
// chromaprint `fpcalc` tool.
package extract

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/himanishpuri/acousticprint/pkg/acousticprint/fingerprint"
	"github.com/himanishpuri/acousticprint/pkg/utils"
)

// ErrNotInstalled is returned when the fpcalc binary cannot be found.
var ErrNotInstalled = errors.New("fpcalc not found in PATH")

const defaultTimeout = 30 * time.Second

// Result is one extracted fingerprint plus the duration fpcalc reported.
type Result struct {
	Path        string
	Duration    time.Duration
	Fingerprint fingerprint.Fingerprint
}

type FpcalcConfig struct {
	Path      string                // binary, "fpcalc" when empty
	Algorithm fingerprint.Algorithm // passed as -algorithm (1-based)
	Length    int                   // seconds to analyse, 0 = whole file
	Timeout   time.Duration         // applied when ctx has no deadline
}

// Fpcalc runs the fpcalc binary. It is safe for concurrent use.
type Fpcalc struct {
	cfg FpcalcConfig
}

func NewFpcalc(cfg FpcalcConfig) *Fpcalc {
	if cfg.Path == "" {
		cfg.Path = "fpcalc"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if !cfg.Algorithm.Valid() {
		cfg.Algorithm = fingerprint.AlgorithmDefault
	}
	return &Fpcalc{cfg: cfg}
}

// Available reports whether the configured binary can be resolved.
func (f *Fpcalc) Available() bool {
	_, err := exec.LookPath(f.cfg.Path)
	return err == nil
}

func (f *Fpcalc) args(audioPath string) []string {
	args := []string{
		"-raw",
		"-algorithm", strconv.Itoa(int(f.cfg.Algorithm) + 1),
	}
	if f.cfg.Length > 0 {
		args = append(args, "-length", strconv.Itoa(f.cfg.Length))
	}
	return append(args, audioPath)
}

// Extract fingerprints audioPath.
func (f *Fpcalc) Extract(ctx context.Context, audioPath string) (*Result, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	if _, err := exec.LookPath(f.cfg.Path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, f.cfg.Path)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.cfg.Path, f.args(audioPath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("fpcalc failed on %s: %v (%s)", audioPath, err, strings.TrimSpace(stderr.String()))
	}

	res, err := ParseOutput(stdout.Bytes(), f.cfg.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fpcalc output for %s: %w", audioPath, err)
	}
	res.Path = audioPath
	return res, nil
}

// ParseOutput parses fpcalc's KEY=VALUE text output. FINGERPRINT may be a raw
// (signed or unsigned) list, in which case alg labels it, or a compressed
// base64 string whose header carries its own algorithm.
func ParseOutput(out []byte, alg fingerprint.Algorithm) (*Result, error) {
	var (
		res     Result
		haveFP  bool
		scanner = bufio.NewScanner(bytes.NewReader(out))
	)
	// raw fingerprints of long files exceed the default 64 KiB line limit
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "DURATION":
			secs, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid DURATION %q: %w", value, err)
			}
			res.Duration = time.Duration(math.Round(secs * float64(time.Second)))
		case "FINGERPRINT":
			fp, err := parseFingerprintValue(value, alg)
			if err != nil {
				return nil, err
			}
			res.Fingerprint = fp
			haveFP = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !haveFP {
		return nil, fmt.Errorf("no FINGERPRINT line in output")
	}
	return &res, nil
}

func parseFingerprintValue(value string, alg fingerprint.Algorithm) (fingerprint.Fingerprint, error) {
	value = strings.TrimSpace(value)
	if value == "" || utils.LooksRaw(value) {
		fps, err := utils.ParseSubfingerprints(value)
		if err != nil {
			return fingerprint.Fingerprint{}, fmt.Errorf("invalid raw FINGERPRINT: %w", err)
		}
		return fingerprint.Fingerprint{Algorithm: alg, Subfingerprints: fps}, nil
	}
	return fingerprint.DecodeString(value)
}
