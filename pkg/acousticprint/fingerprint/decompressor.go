package fingerprint

import (
	"errors"

	"github.com/himanishpuri/acousticprint/internal/bitio"
)

// Decompress decodes a buffer produced by Compress. It never returns a
// partial fingerprint: on error the returned Fingerprint is the zero value.
//
// Bytes following the exception stream are ignored, so the buffer may carry
// trailing data.
func Decompress(data []byte) (Fingerprint, error) {
	if len(data) < headerSize {
		return Fingerprint{}, newErrorf(ErrTruncatedInput, "need %d header bytes, got %d", headerSize, len(data))
	}
	algorithm := Algorithm(data[0])
	if !algorithm.Valid() {
		return Fingerprint{}, newErrorf(ErrInvalidAlgorithm, "unsupported id %d in header", data[0])
	}
	count := int(data[1])<<16 | int(data[2])<<8 | int(data[3])

	r := bitio.NewReader(data[headerSize:])

	// every subfingerprint costs at least one code, so the input bounds the allocation
	codes := make([]uint8, 0, min(count*2, r.Remaining()/normalBits))
	found, escapes := 0, 0
	for found < count {
		v, err := r.Read(normalBits)
		if err != nil {
			return Fingerprint{}, readError(err, "normal stream ended after %d of %d subfingerprints", found, count)
		}
		switch v {
		case 0:
			found++
		case maxNormalValue:
			escapes++
		}
		codes = append(codes, uint8(v))
	}

	r.Align()
	exceptions := make([]uint8, escapes)
	for i := range exceptions {
		v, err := r.Read(exceptionBits)
		if err != nil {
			return Fingerprint{}, readError(err, "exception stream ended after %d of %d values", i, escapes)
		}
		exceptions[i] = uint8(v)
	}

	out := make([]uint32, count)
	i, e, lastBit := 0, 0, 0
	var value uint32
	for _, c := range codes {
		if c == 0 {
			if i > 0 {
				value ^= out[i-1]
			}
			out[i] = value
			value, lastBit = 0, 0
			i++
			continue
		}
		gap := int(c)
		if c == maxNormalValue {
			gap += int(exceptions[e])
			e++
		}
		lastBit += gap
		if lastBit > maxBitIndex {
			return Fingerprint{}, newErrorf(ErrMalformedException, "bit index %d out of range in subfingerprint %d", lastBit, i)
		}
		value |= 1 << (lastBit - 1)
	}

	return Fingerprint{Algorithm: algorithm, Subfingerprints: out}, nil
}

func readError(err error, format string, args ...any) error {
	if errors.Is(err, bitio.ErrShortBuffer) {
		return newErrorf(ErrTruncatedInput, format, args...)
	}
	return err
}
