package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/himanishpuri/acousticprint/pkg/acousticprint"
	"github.com/himanishpuri/acousticprint/pkg/acousticprint/fingerprint"
	"github.com/himanishpuri/acousticprint/pkg/models"
	"github.com/himanishpuri/acousticprint/pkg/utils"
)

// runCLI executes the command tree with a clean environment and returns
// stdout and the error.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{
		"ACOUSTIC_ALGORITHM", "ACOUSTIC_FPCALC_PATH", "ACOUSTIC_FPCALC_LENGTH",
		"ACOUSTIC_FPCALC_TIMEOUT", "ACOUSTIC_MATCH_THRESHOLD", "ACOUSTIC_MATCH_MAX_GAP",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		t.Setenv(k, "")
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "none.env")}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	if err != nil {
		t.Logf("stderr: %s", stderr.String())
	}
	return stdout.String(), err
}

func randomList(seed int64, n int) []uint32 {
	rng := rand.New(rand.NewSource(seed))
	fps := make([]uint32, n)
	for i := range fps {
		fps[i] = rng.Uint32()
	}
	return fps
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, acousticprint.Version) {
		t.Errorf("Expected version %s in %q", acousticprint.Version, out)
	}
}

func TestEncodeDecode(t *testing.T) {
	out, err := runCLI(t, "", "encode", "1")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if strings.TrimSpace(out) != "AQAAAQE" {
		t.Errorf("Expected AQAAAQE, got %q", out)
	}

	out, err = runCLI(t, "", "decode", "AQAAAQE")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if strings.TrimSpace(out) != "1" {
		t.Errorf("Expected 1, got %q", out)
	}
}

func TestEncodeFromStdinWithAlgorithm(t *testing.T) {
	out, err := runCLI(t, "0\n", "--algorithm", "5", "encode", "-")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	// header 04 00 00 01, one terminator byte
	if strings.TrimSpace(out) != "BAAAAQA" {
		t.Errorf("Expected BAAAAQA, got %q", out)
	}
}

func TestEncodeJSON(t *testing.T) {
	out, err := runCLI(t, "", "--json", "encode", "1,2,3")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	var info models.FingerprintInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("Invalid JSON %q: %v", out, err)
	}
	if info.Length != 3 || info.Algorithm != "test2" || info.Encoded == "" {
		t.Errorf("Unexpected info %+v", info)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := runCLI(t, "", "decode", "AQ"); err == nil {
		t.Error("Expected error for truncated fingerprint")
	}
	if _, err := runCLI(t, "", "decode", "BgAAAQE"); err == nil {
		t.Error("Expected error for unknown algorithm id")
	}
	if _, err := runCLI(t, "", "--algorithm", "9", "encode", "1"); err == nil {
		t.Error("Expected error for invalid --algorithm")
	}
}

func TestHash(t *testing.T) {
	out, err := runCLI(t, "", "hash", "--binary", "5,4,6")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	want := strings.Repeat("0", 29) + "100"
	if strings.TrimSpace(out) != want {
		t.Errorf("Expected %s, got %q", want, out)
	}
}

func TestMatchFiles(t *testing.T) {
	dir := t.TempDir()
	song := randomList(1, 300)
	clip := song[120:200]

	songPath := filepath.Join(dir, "song.txt")
	clipPath := filepath.Join(dir, "clip.txt")
	if err := os.WriteFile(songPath, []byte(utils.FormatSubfingerprints(song)), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(clipPath, []byte(utils.FormatSubfingerprints(clip)), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", "match", "@"+clipPath, "@"+songPath)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if !strings.Contains(out, "Found 1 matching segment") || !strings.Contains(out, "confidence 100%") {
		t.Errorf("Unexpected output %q", out)
	}

	out, err = runCLI(t, "", "--json", "match", "@"+clipPath, "@"+songPath)
	if err != nil {
		t.Fatalf("match --json failed: %v", err)
	}
	var report models.MatchReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Invalid JSON %q: %v", out, err)
	}
	if len(report.Segments) != 1 || report.Segments[0].Pos2 != 120 || report.Segments[0].Duration != 80 {
		t.Errorf("Unexpected report %+v", report)
	}
}

func TestMatchNothing(t *testing.T) {
	a := utils.FormatSubfingerprints(randomList(2, 50))
	b := utils.FormatSubfingerprints(randomList(3, 50))
	out, err := runCLI(t, "", "match", a, b)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if !strings.HasPrefix(out, "No matching segments") {
		t.Errorf("Expected no matches, got %q", out)
	}
}

func TestFormatMs(t *testing.T) {
	tests := map[int64]string{
		0:      "0:00.000",
		12381:  "0:12.381",
		61005:  "1:01.005",
		600000: "10:00.000",
	}
	for in, want := range tests {
		if got := formatMs(in); got != want {
			t.Errorf("formatMs(%d) = %q, want %q", in, got, want)
		}
	}
	if got := formatOffset(-1500); got != "-0:01.500" {
		t.Errorf("Expected -0:01.500, got %q", got)
	}
}

func writeFakeFpcalc(t *testing.T, fps []uint32) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake fpcalc needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fpcalc")
	script := "#!/bin/sh\necho DURATION=10\necho FINGERPRINT=" + utils.FormatSubfingerprints(fps) + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFingerprintAndCompare(t *testing.T) {
	fps := randomList(4, 120)
	bin := writeFakeFpcalc(t, fps)

	out, err := runCLI(t, "", "--fpcalc", bin, "fingerprint", "--raw", "any.mp3")
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}
	if strings.TrimSpace(out) != utils.FormatSubfingerprints(fps) {
		t.Errorf("Expected raw subfingerprints, got %q", out)
	}

	target := filepath.Join(t.TempDir(), "out", "any.fp")
	if _, err := runCLI(t, "", "--fpcalc", bin, "fingerprint", "-o", target, "any.mp3"); err != nil {
		t.Fatalf("fingerprint -o failed: %v", err)
	}
	saved, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	decoded, err := runCLI(t, "", "decode", "@"+target)
	if err != nil {
		t.Fatalf("decode of saved fingerprint failed: %v (%q)", err, saved)
	}
	if strings.TrimSpace(decoded) != utils.FormatSubfingerprints(fps) {
		t.Errorf("Saved fingerprint does not decode to the original")
	}

	out, err = runCLI(t, "", "--fpcalc", bin, "--json", "compare", "a.mp3", "b.mp3")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	var report models.MatchReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Invalid JSON %q: %v", out, err)
	}
	if len(report.Segments) != 1 || report.Segments[0].Duration != 120 || report.Segments[0].Confidence != 100 {
		t.Errorf("Unexpected report %+v", report)
	}
}

func TestCompareMissingFpcalc(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-fpcalc")
	if _, err := runCLI(t, "", "--fpcalc", missing, "compare", "a.mp3", "b.mp3"); err == nil {
		t.Error("Expected error when fpcalc is missing")
	}
}

func TestExitCodeFollowsErrorKind(t *testing.T) {
	_, truncated := runCLI(t, "", "decode", "AQ")
	_, badAlgorithm := runCLI(t, "", "decode", "BgAAAQE")
	_, badInput := runCLI(t, "", "encode", "1,x")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"truncated", truncated, exitTruncatedInput},
		{"unknown algorithm", badAlgorithm, exitInvalidAlgorithm},
		{"invalid input", badInput, exitInvalidInput},
		{"malformed", fmt.Errorf("decode: %w", fingerprint.ErrMalformedException), exitMalformedException},
		{"other", errors.New("fpcalc failed"), exitFailure},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("%s: expected exit code %d, got %d (%v)", tt.name, tt.want, got, tt.err)
		}
	}
}

func TestMatchRejectsStdinTwice(t *testing.T) {
	_, err := runCLI(t, "1,2,3\n", "match", "-", "-")
	if err == nil {
		t.Fatal("Expected error when both fingerprints come from stdin")
	}
	if !strings.Contains(err.Error(), "stdin") {
		t.Errorf("Expected the error to mention stdin, got %v", err)
	}
	if exitCode(err) != exitInvalidInput {
		t.Errorf("Expected exit code %d, got %d", exitInvalidInput, exitCode(err))
	}

	// one side from stdin is fine
	out, err := runCLI(t, "1,2,3\n", "match", "-", "1,2,3")
	if err != nil {
		t.Fatalf("match with one stdin argument failed: %v", err)
	}
	if !strings.Contains(out, "Found 1 matching segment") {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestVerboseLogsCommand(t *testing.T) {
	for _, k := range []string{"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE"} {
		t.Setenv(k, "")
	}
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--env", filepath.Join(t.TempDir(), "none.env"), "-v", "encode", "1"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !strings.Contains(stderr.String(), "Executing command: encode") {
		t.Errorf("Expected debug log on stderr, got %q", stderr.String())
	}
}
