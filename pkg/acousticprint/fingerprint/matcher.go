package fingerprint

import (
	"math/bits"
	"sort"
)

// Matcher tunables. See the With* options for their meaning.
const (
	DefaultMatchThreshold = 10.0
	DefaultSmoothWindow   = 9
	DefaultMaxGap         = 8
	DefaultMinDuration    = 1
	DefaultMinVotes       = 2
	DefaultMaxPositions   = 16
	DefaultMaxCandidates  = 8
	DefaultAlignBits      = 32

	// mean differing bits between two unrelated subfingerprints
	unrelatedBitErrors = 16.0
)

// Matcher aligns two fingerprints and reports the matching segments. A
// Matcher only holds its parameters, so one value can serve concurrent calls.
type Matcher struct {
	matchThreshold float64
	smoothWindow   int
	maxGap         int
	minDuration    int
	minVotes       int
	maxPositions   int
	maxCandidates  int
	alignBits      int
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithMatchThreshold sets the largest smoothed mean number of differing
// bits per frame that still counts as matching.
func WithMatchThreshold(bits float64) MatcherOption {
	return func(m *Matcher) {
		m.matchThreshold = bits
	}
}

// WithSmoothWindow sets the width, in frames, of the moving average applied
// to the per-frame bit errors.
func WithSmoothWindow(frames int) MatcherOption {
	return func(m *Matcher) {
		m.smoothWindow = max(1, frames)
	}
}

// WithMaxGap sets the longest non-matching run, in frames, that is bridged
// when two matching runs on the same alignment are merged.
func WithMaxGap(frames int) MatcherOption {
	return func(m *Matcher) {
		m.maxGap = max(0, frames)
	}
}

// WithMinDuration drops segments shorter than frames.
func WithMinDuration(frames int) MatcherOption {
	return func(m *Matcher) {
		m.minDuration = max(1, frames)
	}
}

// WithMinVotes sets how many equal subfingerprints an offset needs before it
// is examined.
func WithMinVotes(votes int) MatcherOption {
	return func(m *Matcher) {
		m.minVotes = max(1, votes)
	}
}

// WithMaxPositions caps how many occurrences of a single subfingerprint
// value take part in voting. Silence and loops repeat one value many times;
// without the cap voting is quadratic in their length.
func WithMaxPositions(n int) MatcherOption {
	return func(m *Matcher) {
		m.maxPositions = max(1, n)
	}
}

// WithMaxCandidates limits how many alignments are walked.
func WithMaxCandidates(n int) MatcherOption {
	return func(m *Matcher) {
		m.maxCandidates = max(1, n)
	}
}

// WithAlignBits keys the voting index on the top n bits of each
// subfingerprint instead of the full value. 32 means exact equality.
func WithAlignBits(n int) MatcherOption {
	return func(m *Matcher) {
		m.alignBits = max(1, min(32, n))
	}
}

// NewMatcher returns a Matcher with the default parameters overridden by opts.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		matchThreshold: DefaultMatchThreshold,
		smoothWindow:   DefaultSmoothWindow,
		maxGap:         DefaultMaxGap,
		minDuration:    DefaultMinDuration,
		minVotes:       DefaultMinVotes,
		maxPositions:   DefaultMaxPositions,
		maxCandidates:  DefaultMaxCandidates,
		alignBits:      DefaultAlignBits,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MatchFingerprints matches two decoded fingerprints. Both must carry the
// same supported algorithm.
func (m *Matcher) MatchFingerprints(a, b Fingerprint) ([]Segment, error) {
	if !a.Algorithm.Valid() || !b.Algorithm.Valid() {
		return nil, newErrorf(ErrInvalidAlgorithm, "cannot match %s against %s", a.Algorithm, b.Algorithm)
	}
	if a.Algorithm != b.Algorithm {
		return nil, newErrorf(ErrInvalidAlgorithm, "fingerprints use different algorithms (%s, %s)", a.Algorithm, b.Algorithm)
	}
	return m.Match(a.Subfingerprints, b.Subfingerprints), nil
}

// Match finds the regions where fp1 and fp2 line up. The result is ordered
// by Pos1 and its segments do not overlap in fingerprint 1. Unrelated or
// empty inputs produce an empty result.
func (m *Matcher) Match(fp1, fp2 []uint32) []Segment {
	if len(fp1) == 0 || len(fp2) == 0 {
		return nil
	}

	var found []Segment
	for _, offset := range m.candidateOffsets(fp1, fp2) {
		found = append(found, m.walkDiagonal(fp1, fp2, offset)...)
	}
	return dedupSegments(found)
}

func (m *Matcher) key(x uint32) uint32 {
	return x >> (32 - m.alignBits)
}

// candidateOffsets votes for alignments pos2-pos1 using an inverted index of
// fp1 and returns the strongest local peaks of the vote histogram.
func (m *Matcher) candidateOffsets(fp1, fp2 []uint32) []int {
	index := make(map[uint32][]int32, len(fp1))
	for i, x := range fp1 {
		k := m.key(x)
		if positions := index[k]; len(positions) < m.maxPositions {
			index[k] = append(positions, int32(i))
		}
	}

	// votes[pos2-pos1+len(fp1)-1]
	votes := make([]int32, len(fp1)+len(fp2)-1)
	base := len(fp1) - 1
	for j, x := range fp2 {
		for _, i := range index[m.key(x)] {
			votes[j-int(i)+base]++
		}
	}

	minVotes := int32(min(m.minVotes, len(fp1), len(fp2)))
	type peak struct {
		offset int
		votes  int32
	}
	var peaks []peak
	for i, v := range votes {
		if v < minVotes {
			continue
		}
		if i > 0 && votes[i-1] > v {
			continue
		}
		if i < len(votes)-1 && votes[i+1] > v {
			continue
		}
		peaks = append(peaks, peak{offset: i - base, votes: v})
	}

	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].votes != peaks[j].votes {
			return peaks[i].votes > peaks[j].votes
		}
		return peaks[i].offset < peaks[j].offset
	})
	if len(peaks) > m.maxCandidates {
		peaks = peaks[:m.maxCandidates]
	}

	offsets := make([]int, len(peaks))
	for i, p := range peaks {
		offsets[i] = p.offset
	}
	return offsets
}

// walkDiagonal compares the fingerprints along one alignment and cuts the
// smoothed bit-error signal into matching segments.
func (m *Matcher) walkDiagonal(fp1, fp2 []uint32, offset int) []Segment {
	start1, start2 := max(0, -offset), max(0, offset)
	n := min(len(fp1)-start1, len(fp2)-start2)
	if n <= 0 {
		return nil
	}

	// prefix sums of the per-frame bit errors
	sums := make([]int, n+1)
	for i := 0; i < n; i++ {
		sums[i+1] = sums[i] + bits.OnesCount32(fp1[start1+i]^fp2[start2+i])
	}

	type run struct{ begin, end int }
	var runs []run
	radius := m.smoothWindow / 2
	inRun := false
	for i := 0; i < n; i++ {
		lo, hi := max(0, i-radius), min(n, i+radius+1)
		smoothed := float64(sums[hi]-sums[lo]) / float64(hi-lo)
		matching := smoothed <= m.matchThreshold
		switch {
		case matching && !inRun:
			if k := len(runs) - 1; k >= 0 && i-runs[k].end <= m.maxGap {
				runs[k].end = i + 1
			} else {
				runs = append(runs, run{begin: i, end: i + 1})
			}
			inRun = true
		case matching:
			runs[len(runs)-1].end = i + 1
		default:
			inRun = false
		}
	}

	segments := make([]Segment, 0, len(runs))
	for _, r := range runs {
		duration := r.end - r.begin
		if duration < m.minDuration {
			continue
		}
		mean := float64(sums[r.end]-sums[r.begin]) / float64(duration)
		segments = append(segments, Segment{
			Pos1:     start1 + r.begin,
			Pos2:     start2 + r.begin,
			Duration: duration,
			Score:    max(0, min(1, 1-mean/unrelatedBitErrors)),
		})
	}
	return segments
}

// evidence weighs a segment's quality by its length, so a short exact run
// (silence repeats at every offset) cannot outrank a long aligned one.
func (s Segment) evidence() float64 {
	return s.Score * float64(s.Duration)
}

// dedupSegments keeps the segment with the most evidence wherever segments
// from different alignments overlap in fingerprint 1 and orders the rest by
// Pos1.
func dedupSegments(found []Segment) []Segment {
	if len(found) == 0 {
		return nil
	}
	sort.SliceStable(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if ea, eb := a.evidence(), b.evidence(); ea != eb {
			return ea > eb
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Duration != b.Duration {
			return a.Duration > b.Duration
		}
		return a.Pos1 < b.Pos1
	})

	kept := make([]Segment, 0, len(found))
	for _, s := range found {
		overlapping := false
		for _, k := range kept {
			if s.overlaps(k) {
				overlapping = true
				break
			}
		}
		if !overlapping {
			kept = append(kept, s)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].Pos1 < kept[j].Pos1
	})
	return kept
}
