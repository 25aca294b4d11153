package fingerprint

import "math"

// Segment is a contiguous region where two fingerprints line up.
type Segment struct {
	// Pos1 and Pos2 are the first aligned frame in fingerprint 1 and 2.
	Pos1 int
	Pos2 int
	// Duration is the length of the region in frames, always > 0.
	Duration int
	// Score is the match quality in [0, 1], 1 meaning bit-identical.
	Score float64
}

// PublicScore rescales Score to an integer in [0, 100].
func (s Segment) PublicScore() int {
	v := int(math.Round(s.Score * 100))
	return max(0, min(100, v))
}

// Offset is the alignment of the segment, Pos2 - Pos1.
func (s Segment) Offset() int {
	return s.Pos2 - s.Pos1
}

// End1 is the first frame after the segment in fingerprint 1.
func (s Segment) End1() int {
	return s.Pos1 + s.Duration
}

// End2 is the first frame after the segment in fingerprint 2.
func (s Segment) End2() int {
	return s.Pos2 + s.Duration
}

func (s Segment) overlaps(o Segment) bool {
	return s.Pos1 < o.End1() && o.Pos1 < s.End1()
}
