package models

// FingerprintInfo describes a decoded or extracted fingerprint.
type FingerprintInfo struct {
	Source     string   `json:"source,omitempty"`     // file path or "-" for stdin
	Algorithm  string   `json:"algorithm"`            // "test1".."test5"
	Length     int      `json:"length"`               // number of subfingerprints
	DurationMs int64    `json:"duration_ms"`          // covered audio time
	SimHash    uint32   `json:"simhash"`              // majority-vote hash
	Encoded    string   `json:"encoded,omitempty"`    // compressed base64 form
	Raw        []uint32 `json:"raw,omitempty"`        // raw subfingerprints
	SizeBytes  int      `json:"size_bytes,omitempty"` // compressed size
}

// SegmentReport is one matched region, in frames and milliseconds.
type SegmentReport struct {
	Pos1       int     `json:"pos1"`
	Pos2       int     `json:"pos2"`
	Duration   int     `json:"duration"`
	Pos1Ms     int64   `json:"pos1_ms"`
	Pos2Ms     int64   `json:"pos2_ms"`
	DurationMs int64   `json:"duration_ms"`
	OffsetMs   int64   `json:"offset_ms"`  // pos2_ms - pos1_ms
	Score      float64 `json:"score"`      // 0..1, higher is more similar
	Confidence int     `json:"confidence"` // public score 0..100
}

// MatchReport is the result of comparing two fingerprints.
type MatchReport struct {
	Algorithm string          `json:"algorithm"`
	Length1   int             `json:"length1"`
	Length2   int             `json:"length2"`
	Segments  []SegmentReport `json:"segments"`
}

// Matched reports whether any segment was found.
func (r *MatchReport) Matched() bool {
	return len(r.Segments) > 0
}

// Best returns the segment with the highest confidence, ties broken by
// longer duration, or nil when nothing matched.
func (r *MatchReport) Best() *SegmentReport {
	var best *SegmentReport
	for i := range r.Segments {
		s := &r.Segments[i]
		if best == nil || s.Confidence > best.Confidence ||
			(s.Confidence == best.Confidence && s.Duration > best.Duration) {
			best = s
		}
	}
	return best
}

// CoveredMs sums the durations of all segments.
func (r *MatchReport) CoveredMs() int64 {
	var total int64
	for _, s := range r.Segments {
		total += s.DurationMs
	}
	return total
}
