// Package fingerprint implements the acoustic fingerprint core: the compact
// binary codec, the SimHash summary and the segment matcher.
//
// A fingerprint is an ordered sequence of 32-bit subfingerprints, one per
// audio frame, tagged with the Algorithm that produced it. Every function in
// this package is pure and safe for concurrent use; none of them modifies
// its input slices.
package fingerprint

// Fingerprint is a decoded fingerprint.
type Fingerprint struct {
	Algorithm       Algorithm
	Subfingerprints []uint32
}

// Len returns the number of subfingerprints.
func (f Fingerprint) Len() int {
	return len(f.Subfingerprints)
}

// Configuration returns the configuration of the fingerprint's algorithm.
func (f Fingerprint) Configuration() (Configuration, error) {
	return ConfigurationFor(f.Algorithm)
}

// Duration returns the length of the fingerprint in seconds, or 0 if the
// algorithm is not supported.
func (f Fingerprint) Duration() float64 {
	cfg, err := f.Configuration()
	if err != nil {
		return 0
	}
	return cfg.HashTime(f.Len())
}
