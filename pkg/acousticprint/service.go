package acousticprint

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/himanishpuri/acousticprint/pkg/acousticprint/extract"
	"github.com/himanishpuri/acousticprint/pkg/acousticprint/fingerprint"
	"github.com/himanishpuri/acousticprint/pkg/logger"
	"github.com/himanishpuri/acousticprint/pkg/models"
	"github.com/himanishpuri/acousticprint/pkg/utils"
)

// acousticService is the default implementation of the Service interface.
// It holds no mutable state and is safe for concurrent use.
type acousticService struct {
	matcher   *fingerprint.Matcher
	extractor Extractor
	log       Logger
	config    *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.Algorithm.Valid() {
		return nil, fmt.Errorf("%w: id %d", fingerprint.ErrInvalidAlgorithm, uint8(cfg.Algorithm))
	}

	// Set default logger if none provided
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	if cfg.Extractor == nil {
		cfg.Extractor = extract.NewFpcalc(extract.FpcalcConfig{Algorithm: cfg.Algorithm})
	}

	return &acousticService{
		matcher:   fingerprint.NewMatcher(cfg.MatcherOptions...),
		extractor: cfg.Extractor,
		log:       cfg.Logger,
		config:    cfg,
	}, nil
}

// Encode compresses raw subfingerprints with the configured algorithm and
// returns the base64 text form.
func (s *acousticService) Encode(subfingerprints []uint32) (string, error) {
	encoded, err := fingerprint.EncodeToString(fingerprint.Fingerprint{
		Algorithm:       s.config.Algorithm,
		Subfingerprints: subfingerprints,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode fingerprint: %w", err)
	}
	s.log.Debugf("Encoded %d subfingerprints into %d characters", len(subfingerprints), len(encoded))
	return encoded, nil
}

func (s *acousticService) Decode(encoded string) (fingerprint.Fingerprint, error) {
	fp, err := fingerprint.DecodeString(encoded)
	if err != nil {
		return fingerprint.Fingerprint{}, fmt.Errorf("failed to decode fingerprint: %w", err)
	}
	s.log.Debugf("Decoded %d subfingerprints (%s)", fp.Len(), fp.Algorithm)
	return fp, nil
}

func (s *acousticService) Hash(subfingerprints []uint32) uint32 {
	return fingerprint.SimHash(subfingerprints)
}

// ParseFingerprint accepts either a raw subfingerprint list, labelled with
// the configured algorithm, or a base64 compressed fingerprint.
func (s *acousticService) ParseFingerprint(text string) (fingerprint.Fingerprint, error) {
	if text == "" {
		return fingerprint.Fingerprint{}, fmt.Errorf("%w: empty fingerprint text", fingerprint.ErrInvalidInput)
	}
	if utils.LooksRaw(text) {
		fps, err := utils.ParseSubfingerprints(text)
		if err != nil {
			return fingerprint.Fingerprint{}, fmt.Errorf("%w: %v", fingerprint.ErrInvalidInput, err)
		}
		return fingerprint.Fingerprint{Algorithm: s.config.Algorithm, Subfingerprints: fps}, nil
	}
	return s.Decode(text)
}

// Describe summarises a fingerprint, including its compressed form.
func (s *acousticService) Describe(fp fingerprint.Fingerprint, source string) (*models.FingerprintInfo, error) {
	compressed, err := fingerprint.Compress(fp.Subfingerprints, fp.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to compress fingerprint: %w", err)
	}
	encoded, err := fingerprint.EncodeToString(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fingerprint: %w", err)
	}
	return &models.FingerprintInfo{
		Source:     source,
		Algorithm:  fp.Algorithm.String(),
		Length:     fp.Len(),
		DurationMs: int64(math.Round(fp.Duration() * 1000)),
		SimHash:    fingerprint.SimHash(fp.Subfingerprints),
		Encoded:    encoded,
		Raw:        fp.Subfingerprints,
		SizeBytes:  len(compressed),
	}, nil
}

// Match aligns two fingerprints and reports the matching segments with
// millisecond positions.
func (s *acousticService) Match(a, b fingerprint.Fingerprint) (*models.MatchReport, error) {
	segments, err := s.matcher.MatchFingerprints(a, b)
	if err != nil {
		return nil, fmt.Errorf("match failed: %w", err)
	}
	// MatchFingerprints has already validated the algorithm.
	cfg, _ := a.Configuration()

	report := &models.MatchReport{
		Algorithm: a.Algorithm.String(),
		Length1:   a.Len(),
		Length2:   b.Len(),
		Segments:  make([]models.SegmentReport, 0, len(segments)),
	}
	for _, seg := range segments {
		report.Segments = append(report.Segments, newSegmentReport(seg, cfg))
	}
	s.log.Infof("Matched %d x %d subfingerprints: %d segments", a.Len(), b.Len(), len(segments))
	return report, nil
}

func (s *acousticService) MatchEncoded(a, b string) (*models.MatchReport, error) {
	fp1, err := s.ParseFingerprint(a)
	if err != nil {
		return nil, fmt.Errorf("first fingerprint: %w", err)
	}
	fp2, err := s.ParseFingerprint(b)
	if err != nil {
		return nil, fmt.Errorf("second fingerprint: %w", err)
	}
	return s.Match(fp1, fp2)
}

// FingerprintFile extracts the fingerprint of an audio file.
func (s *acousticService) FingerprintFile(ctx context.Context, audioPath string) (fingerprint.Fingerprint, error) {
	s.log.Infof("Fingerprinting audio: %s", audioPath)

	res, err := s.extractor.Extract(ctx, audioPath)
	if err != nil {
		return fingerprint.Fingerprint{}, fmt.Errorf("extraction failed: %w", err)
	}
	if !res.Fingerprint.Algorithm.Valid() {
		return fingerprint.Fingerprint{}, fmt.Errorf("%w: extractor returned id %d",
			fingerprint.ErrInvalidAlgorithm, uint8(res.Fingerprint.Algorithm))
	}

	s.log.Infof("Extracted %d subfingerprints (%.1fs of audio)", res.Fingerprint.Len(), res.Duration.Seconds())
	return res.Fingerprint, nil
}

// CompareFiles fingerprints both files concurrently and matches them.
func (s *acousticService) CompareFiles(ctx context.Context, audioPath1, audioPath2 string) (*models.MatchReport, error) {
	var fp1, fp2 fingerprint.Fingerprint

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fp1, err = s.FingerprintFile(gctx, audioPath1)
		if err != nil {
			return fmt.Errorf("%s: %w", audioPath1, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		fp2, err = s.FingerprintFile(gctx, audioPath2)
		if err != nil {
			return fmt.Errorf("%s: %w", audioPath2, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Errorf("Comparison aborted: %v", err)
		return nil, err
	}

	return s.Match(fp1, fp2)
}
