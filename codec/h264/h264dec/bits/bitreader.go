/*
DESCRIPTION
  bitreader.go provides a MSB-first bit reader over a fixed byte slice, with
  an explicit (byte offset, bit offset) cursor and Exp-Golomb decoding per
  ISO/IEC 14496-10 Section 9.1.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides a bit reader that walks a byte slice bit by bit,
// keeping an explicit cursor rather than consuming from an io.Reader.
package bits

import "errors"

// ErrTruncated is returned when a read runs past the end of the underlying
// data.
var ErrTruncated = errors.New("bits: truncated")

// TraceFunc is invoked after a primitive read completes, when tracing is
// enabled via SetTrace. It receives the cursor position immediately after
// the read, the label passed to the read call, and the value read. Tracing
// is a pure side effect and never changes what a read returns.
type TraceFunc func(byteOff, bitOff int, label string, value uint64)

// Reader reads bits MSB-first from a byte slice. The zero value is not
// usable; construct one with NewReader.
type Reader struct {
	data    []byte
	byteOff int
	bitOff  int
	trace   TraceFunc
}

// NewReader returns a Reader positioned at the first bit of data. The
// Reader never copies or mutates data, so records built from reads must
// not outlive the slice's backing memory unless the caller guarantees it.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// SetTrace installs fn as the trace sink, replacing any previously set
// function. Passing nil disables tracing.
func (r *Reader) SetTrace(fn TraceFunc) {
	r.trace = fn
}

// ByteOffset returns the byte offset of the read cursor.
func (r *Reader) ByteOffset() int { return r.byteOff }

// BitOffset returns the bit offset, 0 to 7, within the current byte.
func (r *Reader) BitOffset() int { return r.bitOff }

// ByteAligned reports whether the cursor sits on a byte boundary.
func (r *Reader) ByteAligned() bool { return r.bitOff == 0 }

// ReadBit reads a single bit. label is passed through to the trace sink; an
// empty label suppresses tracing for this call.
func (r *Reader) ReadBit(label string) (uint8, error) {
	v, err := r.readBits(1, label)
	return uint8(v), err
}

// ReadBits reads n bits, 0 <= n <= 32, and returns them right-justified in
// the result. label is passed through to the trace sink; an empty label
// suppresses tracing for this call.
func (r *Reader) ReadBits(n int, label string) (uint32, error) {
	return r.readBits(n, label)
}

func (r *Reader) readBits(n int, label string) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		if r.byteOff >= len(r.data) {
			return 0, ErrTruncated
		}
		bit := (r.data[r.byteOff] >> uint(7-r.bitOff)) & 1
		v = v<<1 | uint32(bit)
		r.bitOff++
		if r.bitOff == 8 {
			r.bitOff = 0
			r.byteOff++
		}
	}
	if label != "" && r.trace != nil {
		r.trace(r.byteOff, r.bitOff, label, uint64(v))
	}
	return v, nil
}

// ReadByte reads the next 8 bits as a byte. The cursor need not be
// byte-aligned.
func (r *Reader) ReadByte(label string) (byte, error) {
	v, err := r.readBits(8, label)
	return byte(v), err
}

// ReadU32BE reads the next 32 bits as a big-endian unsigned integer.
func (r *Reader) ReadU32BE(label string) (uint32, error) {
	return r.readBits(32, label)
}

// DecodeUE reads an unsigned Exp-Golomb coded syntax element, ue(v), per
// ISO/IEC 14496-10 Section 9.1.
func (r *Reader) DecodeUE(label string) (uint32, error) {
	leadingZeroBits := 0
	for {
		b, err := r.readBits(1, "")
		if err != nil {
			return 0, err
		}
		if b != 0 {
			break
		}
		leadingZeroBits++
	}
	var v uint32
	if leadingZeroBits > 0 {
		suffix, err := r.readBits(leadingZeroBits, "")
		if err != nil {
			return 0, err
		}
		v = (uint32(1)<<uint(leadingZeroBits) - 1) + suffix
	}
	if label != "" && r.trace != nil {
		r.trace(r.byteOff, r.bitOff, label, uint64(v))
	}
	return v, nil
}

// DecodeSE reads a signed Exp-Golomb coded syntax element, se(v), per
// ISO/IEC 14496-10 Section 9.1.1, by mapping the result of DecodeUE.
func (r *Reader) DecodeSE(label string) (int32, error) {
	ue, err := r.DecodeUE("")
	if err != nil {
		return 0, err
	}
	v := int32((ue + 1) / 2)
	if ue%2 == 0 {
		v = -v
	}
	if label != "" && r.trace != nil {
		r.trace(r.byteOff, r.bitOff, label, uint64(int64(v)))
	}
	return v, nil
}
