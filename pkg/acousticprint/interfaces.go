package acousticprint

import (
	"context"

	"github.com/himanishpuri/acousticprint/pkg/acousticprint/extract"
	"github.com/himanishpuri/acousticprint/pkg/acousticprint/fingerprint"
	"github.com/himanishpuri/acousticprint/pkg/models"
)

type Service interface {
	Encode(subfingerprints []uint32) (string, error)
	Decode(encoded string) (fingerprint.Fingerprint, error)
	Hash(subfingerprints []uint32) uint32
	ParseFingerprint(text string) (fingerprint.Fingerprint, error)
	Describe(fp fingerprint.Fingerprint, source string) (*models.FingerprintInfo, error)
	Match(a, b fingerprint.Fingerprint) (*models.MatchReport, error)
	MatchEncoded(a, b string) (*models.MatchReport, error)
	FingerprintFile(ctx context.Context, audioPath string) (fingerprint.Fingerprint, error)
	CompareFiles(ctx context.Context, audioPath1, audioPath2 string) (*models.MatchReport, error)
}

// Extractor turns an audio file into subfingerprints.
type Extractor interface {
	Extract(ctx context.Context, audioPath string) (*extract.Result, error)
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
