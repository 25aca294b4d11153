package acousticprint

import (
	"github.com/himanishpuri/acousticprint/pkg/acousticprint/fingerprint"
	"github.com/himanishpuri/acousticprint/pkg/models"
)

// Version of the library and CLI.
const Version = "0.3.0"

// newSegmentReport converts frame positions to milliseconds using the
// algorithm's hop size.
func newSegmentReport(seg fingerprint.Segment, cfg fingerprint.Configuration) models.SegmentReport {
	pos1Ms := int64(cfg.HashTimeMs(seg.Pos1))
	pos2Ms := int64(cfg.HashTimeMs(seg.Pos2))
	return models.SegmentReport{
		Pos1:       seg.Pos1,
		Pos2:       seg.Pos2,
		Duration:   seg.Duration,
		Pos1Ms:     pos1Ms,
		Pos2Ms:     pos2Ms,
		DurationMs: int64(cfg.HashTimeMs(seg.Duration)),
		OffsetMs:   pos2Ms - pos1Ms,
		Score:      seg.Score,
		Confidence: seg.PublicScore(),
	}
}
