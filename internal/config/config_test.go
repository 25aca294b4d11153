package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/himanishpuri/acousticprint/pkg/acousticprint/fingerprint"
)

var configKeys = []string{
	"ACOUSTIC_ALGORITHM",
	"ACOUSTIC_FPCALC_PATH",
	"ACOUSTIC_FPCALC_LENGTH",
	"ACOUSTIC_FPCALC_TIMEOUT",
	"ACOUSTIC_MATCH_THRESHOLD",
	"ACOUSTIC_MATCH_MAX_GAP",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"LOG_FILE",
}

// clearEnv blanks every key for the duration of the test. Empty values are
// treated as unset by Load, and godotenv does not override them either.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Default()
	if *cfg != *want {
		t.Errorf("Expected defaults %+v, got %+v", want, cfg)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACOUSTIC_ALGORITHM", "test5")
	t.Setenv("ACOUSTIC_FPCALC_PATH", "/opt/bin/fpcalc")
	t.Setenv("ACOUSTIC_FPCALC_LENGTH", "0")
	t.Setenv("ACOUSTIC_FPCALC_TIMEOUT", "45")
	t.Setenv("ACOUSTIC_MATCH_THRESHOLD", "8.5")
	t.Setenv("ACOUSTIC_MATCH_MAX_GAP", "12")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Algorithm != fingerprint.AlgorithmTest5 {
		t.Errorf("Expected algorithm test5, got %s", cfg.Algorithm)
	}
	if cfg.FpcalcPath != "/opt/bin/fpcalc" {
		t.Errorf("Expected fpcalc path override, got %q", cfg.FpcalcPath)
	}
	if cfg.FpcalcLength != 0 {
		t.Errorf("Expected length 0, got %d", cfg.FpcalcLength)
	}
	if cfg.FpcalcTimeout != 45*time.Second {
		t.Errorf("Expected 45s timeout, got %v", cfg.FpcalcTimeout)
	}
	if cfg.MatchThreshold != 8.5 {
		t.Errorf("Expected threshold 8.5, got %v", cfg.MatchThreshold)
	}
	if cfg.MatchMaxGap != 12 {
		t.Errorf("Expected max gap 12, got %d", cfg.MatchMaxGap)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %q", cfg.LogLevel)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv only fills variables that are absent, so unset the ones the
	// file provides. t.Setenv above restores them afterwards.
	os.Unsetenv("ACOUSTIC_FPCALC_TIMEOUT")
	os.Unsetenv("LOG_FORMAT")

	path := filepath.Join(t.TempDir(), "acousticprint.env")
	content := "ACOUSTIC_FPCALC_TIMEOUT=2m\nLOG_FORMAT=json\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("ACOUSTIC_FPCALC_TIMEOUT")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FpcalcTimeout != 2*time.Minute {
		t.Errorf("Expected 2m timeout from .env, got %v", cfg.FpcalcTimeout)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("Expected json log format from .env, got %q", cfg.LogFormat)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"ACOUSTIC_ALGORITHM", "chroma"},
		{"ACOUSTIC_FPCALC_LENGTH", "ten"},
		{"ACOUSTIC_FPCALC_LENGTH", "-1"},
		{"ACOUSTIC_FPCALC_TIMEOUT", "soon"},
		{"ACOUSTIC_MATCH_THRESHOLD", "high"},
		{"ACOUSTIC_MATCH_MAX_GAP", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
