package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMatchReportBest(t *testing.T) {
	r := MatchReport{}
	if r.Matched() || r.Best() != nil {
		t.Fatal("Expected empty report to have no best segment")
	}

	r.Segments = []SegmentReport{
		{Pos1: 0, Duration: 10, DurationMs: 1238, Confidence: 80},
		{Pos1: 20, Duration: 40, DurationMs: 4952, Confidence: 95},
		{Pos1: 70, Duration: 50, DurationMs: 6190, Confidence: 95},
	}
	if !r.Matched() {
		t.Error("Expected Matched to be true")
	}
	best := r.Best()
	if best == nil || best.Pos1 != 70 {
		t.Errorf("Expected segment at pos1 70, got %+v", best)
	}
	if got := r.CoveredMs(); got != 1238+4952+6190 {
		t.Errorf("Expected covered ms %d, got %d", 1238+4952+6190, got)
	}
}

func TestMatchReportJSON(t *testing.T) {
	r := MatchReport{
		Algorithm: "test2",
		Length1:   3,
		Length2:   3,
		Segments:  []SegmentReport{{Duration: 3, DurationMs: 371, Score: 1, Confidence: 100}},
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, field := range []string{`"algorithm":"test2"`, `"duration_ms":371`, `"confidence":100`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("Expected %s in %s", field, data)
		}
	}
}
