package acousticprint

import (
	"github.com/himanishpuri/acousticprint/pkg/acousticprint/fingerprint"
)

type Config struct {
	Algorithm      fingerprint.Algorithm
	Logger         Logger
	Extractor      Extractor
	MatcherOptions []fingerprint.MatcherOption
}

type Option func(*Config)

// WithAlgorithm sets the algorithm used to label raw subfingerprints and to
// encode them. Decoded fingerprints always keep the id from their header.
func WithAlgorithm(alg fingerprint.Algorithm) Option {
	return func(c *Config) {
		c.Algorithm = alg
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithExtractor(ex Extractor) Option {
	return func(c *Config) {
		c.Extractor = ex
	}
}

func WithMatcherOptions(opts ...fingerprint.MatcherOption) Option {
	return func(c *Config) {
		c.MatcherOptions = append(c.MatcherOptions, opts...)
	}
}

func defaultConfig() *Config {
	return &Config{
		Algorithm: fingerprint.AlgorithmDefault,
		Logger:    nil,
		Extractor: nil,
	}
}
