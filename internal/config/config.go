package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/himanishpuri/acousticprint/pkg/acousticprint/fingerprint"
)

// Config holds process-level settings for the CLI.
// Command-line flags take precedence over these values.
type Config struct {
	Algorithm fingerprint.Algorithm

	FpcalcPath    string
	FpcalcLength  int           // seconds of audio to fingerprint, 0 = whole file
	FpcalcTimeout time.Duration // per-file extraction deadline

	MatchThreshold float64 // mean differing bits per frame
	MatchMaxGap    int     // frames

	LogLevel  string
	LogFormat string // "console" or "json"
	LogFile   string // empty disables the rotating file sink
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// getEnvDuration accepts Go duration syntax ("90s", "2m") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Algorithm:      fingerprint.AlgorithmDefault,
		FpcalcPath:     "fpcalc",
		FpcalcLength:   120,
		FpcalcTimeout:  30 * time.Second,
		MatchThreshold: fingerprint.DefaultMatchThreshold,
		MatchMaxGap:    fingerprint.DefaultMaxGap,
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

// Load reads the given .env files (".env" when none are named) and then the
// environment. Variables already present in the environment win over .env
// entries. A missing .env file is not an error; a malformed value is.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	def := Default()
	cfg := &Config{
		FpcalcPath: getEnv("ACOUSTIC_FPCALC_PATH", def.FpcalcPath),
		LogLevel:   getEnv("LOG_LEVEL", def.LogLevel),
		LogFormat:  getEnv("LOG_FORMAT", def.LogFormat),
		LogFile:    getEnv("LOG_FILE", def.LogFile),
	}

	alg, err := fingerprint.ParseAlgorithm(getEnv("ACOUSTIC_ALGORITHM", "default"))
	if err != nil {
		return nil, fmt.Errorf("ACOUSTIC_ALGORITHM: %w", err)
	}
	cfg.Algorithm = alg

	if cfg.FpcalcLength, err = getEnvInt("ACOUSTIC_FPCALC_LENGTH", def.FpcalcLength); err != nil {
		return nil, err
	}
	if cfg.FpcalcLength < 0 {
		return nil, fmt.Errorf("ACOUSTIC_FPCALC_LENGTH: must not be negative, got %d", cfg.FpcalcLength)
	}
	if cfg.FpcalcTimeout, err = getEnvDuration("ACOUSTIC_FPCALC_TIMEOUT", def.FpcalcTimeout); err != nil {
		return nil, err
	}
	if cfg.MatchThreshold, err = getEnvFloat("ACOUSTIC_MATCH_THRESHOLD", def.MatchThreshold); err != nil {
		return nil, err
	}
	if cfg.MatchMaxGap, err = getEnvInt("ACOUSTIC_MATCH_MAX_GAP", def.MatchMaxGap); err != nil {
		return nil, err
	}

	return cfg, nil
}
