// Package bitio packs and unpacks small unsigned integers into a dense,
// least-significant-bit-first byte stream.
package bitio

import (
	"github.com/mdobak/go-xerrors"
)

// ErrShortBuffer is returned by Reader.Read when fewer bits remain than requested.
var ErrShortBuffer = xerrors.Message("bitio: not enough bits left in buffer")

// Writer appends variable-width values to a byte buffer. Bits are laid out
// LSB-first: the first value written occupies the low bits of the first byte.
type Writer struct {
	buf   []byte
	acc   uint64
	nbits uint
}

// NewWriter returns a Writer with room for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Write appends the low nbits bits of value. nbits must be in [0, 32].
func (w *Writer) Write(value uint32, nbits uint) {
	if nbits == 0 {
		return
	}
	if nbits > 32 {
		panic("bitio: Write supports at most 32 bits")
	}
	w.acc |= uint64(value&uint32(1<<nbits-1)) << w.nbits
	w.nbits += nbits
	for w.nbits >= 8 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc >>= 8
		w.nbits -= 8
	}
}

// Flush pads the pending partial byte with zero bits and appends it.
func (w *Writer) Flush() {
	if w.nbits > 0 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc = 0
		w.nbits = 0
	}
}

// Bytes flushes and returns the packed buffer.
func (w *Writer) Bytes() []byte {
	w.Flush()
	return w.buf
}

// Len returns the number of whole bytes written so far, excluding pending bits.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Reader consumes variable-width values from a buffer produced by Writer.
type Reader struct {
	data  []byte
	pos   int
	acc   uint64
	nbits uint
}

// NewReader returns a Reader over data. The slice is not modified.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Read consumes exactly nbits bits (at most 32) and returns them as the low
// bits of the result. It fails with ErrShortBuffer, consuming nothing, if
// the buffer does not hold nbits more bits.
func (r *Reader) Read(nbits uint) (uint32, error) {
	if nbits > 32 {
		panic("bitio: Read supports at most 32 bits")
	}
	if r.Remaining() < int(nbits) {
		return 0, ErrShortBuffer
	}
	for r.nbits < nbits {
		r.acc |= uint64(r.data[r.pos]) << r.nbits
		r.pos++
		r.nbits += 8
	}
	v := uint32(r.acc & (1<<nbits - 1))
	r.acc >>= nbits
	r.nbits -= nbits
	return v, nil
}

// Align discards the bits left in the current partially consumed byte.
func (r *Reader) Align() {
	r.acc = 0
	r.nbits = 0
}

// Remaining reports how many unread bits are left.
func (r *Reader) Remaining() int {
	return (len(r.data)-r.pos)*8 + int(r.nbits)
}

// Offset returns the index of the first byte not yet touched by the reader.
func (r *Reader) Offset() int {
	return r.pos
}
