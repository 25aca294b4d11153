package fingerprint

import "math/bits"

// SimHash collapses a fingerprint into a single 32-bit value by majority vote:
// bit i of the result is set when more than half of the subfingerprints have
// bit i set. Ties resolve to 0 and the empty sequence hashes to 0.
//
// Perceptually similar recordings produce hashes with a small Hamming
// distance. The hash is lossy and must not be used as an identity check.
func SimHash(subfingerprints []uint32) uint32 {
	var counts [32]int
	for _, x := range subfingerprints {
		for x != 0 {
			i := bits.TrailingZeros32(x)
			counts[i]++
			x &= x - 1
		}
	}

	var hash uint32
	n := len(subfingerprints)
	for i, c := range counts {
		if 2*c > n {
			hash |= 1 << i
		}
	}
	return hash
}

// HammingDistance returns the number of differing bits between a and b.
func HammingDistance(a, b uint32) int {
	return bits.OnesCount32(a ^ b)
}
