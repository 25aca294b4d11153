package fingerprint

import (
	"github.com/himanishpuri/acousticprint/internal/bitio"
)

// Wire format constants.
const (
	headerSize = 4

	normalBits     = 3
	exceptionBits  = 5
	maxNormalValue = 1<<normalBits - 1
	maxBitIndex    = 32

	// MaxSubfingerprints is the largest count the 24-bit header can hold.
	MaxSubfingerprints = 1<<24 - 1
)

// Compress encodes subfingerprints into the compact binary format tagged
// with algorithm. The empty sequence encodes to a header-only buffer.
//
// Each subfingerprint is XORed with its predecessor and the positions of
// the set bits of that delta are written as gaps between consecutive set
// bits, three bits per gap, with a zero gap closing the item. Gaps that do
// not fit in three bits are written as the escape value 7 and their
// remainder goes to a trailing five-bit exception stream.
func Compress(subfingerprints []uint32, algorithm Algorithm) ([]byte, error) {
	if !algorithm.Valid() {
		return nil, newErrorf(ErrInvalidAlgorithm, "cannot compress with id %d", uint8(algorithm))
	}
	size := len(subfingerprints)
	if size > MaxSubfingerprints {
		return nil, newErrorf(ErrInvalidInput, "%d subfingerprints exceed the maximum of %d", size, MaxSubfingerprints)
	}

	normal := make([]uint8, 0, size*4)
	exceptions := make([]uint8, 0, size/10)

	var prev uint32
	for _, x := range subfingerprints {
		normal, exceptions = appendDelta(normal, exceptions, x^prev)
		prev = x
	}

	w := bitio.NewWriter(headerSize + (len(normal)*normalBits+7)/8 + (len(exceptions)*exceptionBits+7)/8)
	w.Write(uint32(algorithm), 8)
	w.Write(uint32(size>>16)&0xff, 8)
	w.Write(uint32(size>>8)&0xff, 8)
	w.Write(uint32(size)&0xff, 8)
	for _, v := range normal {
		w.Write(uint32(v), normalBits)
	}
	w.Flush()
	for _, v := range exceptions {
		w.Write(uint32(v), exceptionBits)
	}
	return w.Bytes(), nil
}

// appendDelta appends the gap codes of one XOR delta to the two streams.
func appendDelta(normal, exceptions []uint8, delta uint32) ([]uint8, []uint8) {
	bit, lastBit := 1, 0
	for delta != 0 {
		if delta&1 != 0 {
			gap := bit - lastBit
			if gap >= maxNormalValue {
				normal = append(normal, maxNormalValue)
				exceptions = append(exceptions, uint8(gap-maxNormalValue))
			} else {
				normal = append(normal, uint8(gap))
			}
			lastBit = bit
		}
		delta >>= 1
		bit++
	}
	return append(normal, 0), exceptions
}
