package fingerprint

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Algorithm identifies the fingerprinter configuration that produced a
// fingerprint. It is stored in the first byte of every compressed fingerprint.
type Algorithm uint8

// Available algorithms. The numbering matches libchromaprint's
// CHROMAPRINT_ALGORITHM_TEST* constants.
const (
	AlgorithmTest1 Algorithm = iota
	AlgorithmTest2
	AlgorithmTest3
	AlgorithmTest4
	AlgorithmTest5

	AlgorithmDefault = AlgorithmTest2
)

const numAlgorithms = 5

// Valid reports whether a is a supported algorithm id.
func (a Algorithm) Valid() bool {
	return a < numAlgorithms
}

func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("algorithm(%d)", uint8(a))
	}
	return fmt.Sprintf("test%d", uint8(a)+1)
}

// ParseAlgorithm accepts the one-based numbering used by fpcalc ("1".."5"),
// the names "test1".."test5", or "default".
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "default" || s == "" {
		return AlgorithmDefault, nil
	}
	s = strings.TrimPrefix(s, "test")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > numAlgorithms {
		return 0, newErrorf(ErrInvalidAlgorithm, "cannot parse %q", s)
	}
	return Algorithm(n - 1), nil
}

const (
	defaultSampleRate       = 11025
	defaultFrameSize        = 4096
	defaultFrameOverlap     = defaultFrameSize - defaultFrameSize/3
	chromaFilterCoefficient = 5
	maxClassifierWidth      = 16
	defaultSilenceThreshold = 50
)

// Configuration describes the extraction parameters of one algorithm. The
// codec and the matcher never read it; it exists so callers can turn frame
// indices into wall-clock time.
type Configuration struct {
	Algorithm             Algorithm
	SampleRate            int
	FrameSize             int
	FrameOverlap          int
	NumFilterCoefficients int
	MaxFilterWidth        int
	Interpolate           bool
	RemoveSilence         bool
	SilenceThreshold      int
}

var configurations = [numAlgorithms]Configuration{
	AlgorithmTest1: baseConfiguration(AlgorithmTest1),
	AlgorithmTest2: baseConfiguration(AlgorithmTest2),
	AlgorithmTest3: func() Configuration {
		c := baseConfiguration(AlgorithmTest3)
		c.Interpolate = true
		return c
	}(),
	AlgorithmTest4: func() Configuration {
		c := baseConfiguration(AlgorithmTest4)
		c.RemoveSilence = true
		c.SilenceThreshold = defaultSilenceThreshold
		return c
	}(),
	AlgorithmTest5: func() Configuration {
		c := baseConfiguration(AlgorithmTest5)
		c.FrameSize = defaultFrameSize / 2
		c.FrameOverlap = defaultFrameSize/2 - defaultFrameSize/4
		return c
	}(),
}

func baseConfiguration(a Algorithm) Configuration {
	return Configuration{
		Algorithm:             a,
		SampleRate:            defaultSampleRate,
		FrameSize:             defaultFrameSize,
		FrameOverlap:          defaultFrameOverlap,
		NumFilterCoefficients: chromaFilterCoefficient,
		MaxFilterWidth:        maxClassifierWidth,
	}
}

// ConfigurationFor returns the immutable configuration of algorithm a.
func ConfigurationFor(a Algorithm) (Configuration, error) {
	if !a.Valid() {
		return Configuration{}, newErrorf(ErrInvalidAlgorithm, "unsupported id %d", uint8(a))
	}
	return configurations[a], nil
}

// ItemDuration is the number of samples covered by one subfingerprint step.
func (c Configuration) ItemDuration() int {
	return c.FrameSize - c.FrameOverlap
}

// ItemDurationSeconds is ItemDuration expressed in seconds.
func (c Configuration) ItemDurationSeconds() float64 {
	return float64(c.ItemDuration()) / float64(c.SampleRate)
}

// Delay is the number of samples between the start of the audio and the
// point the first subfingerprint describes.
func (c Configuration) Delay() int {
	return ((c.NumFilterCoefficients-1)+(c.MaxFilterWidth-1))*c.ItemDuration() + c.FrameOverlap
}

// DelaySeconds is Delay expressed in seconds.
func (c Configuration) DelaySeconds() float64 {
	return float64(c.Delay()) / float64(c.SampleRate)
}

// HashTime converts a frame index or frame count into seconds.
func (c Configuration) HashTime(frames int) float64 {
	return float64(frames) * c.ItemDurationSeconds()
}

// HashTimeMs converts a frame index or frame count into whole milliseconds.
func (c Configuration) HashTimeMs(frames int) int {
	return int(math.Round(1000 * c.HashTime(frames)))
}
