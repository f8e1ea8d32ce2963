/*
NAME
  parse.go

DESCRIPTION
  parse.go provides a sticky-error field reader used by the SPS, PPS and
  slice header parsers, built on top of the bits.Reader primitives.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
  mrmod <mcmoranbjr@gmail.com>
*/

package h264dec

import (
	stderrors "errors"

	"github.com/ausocean/mp4h264/codec/h264/h264dec/bits"
)

// fieldReader provides methods for reading fields from a bits.Reader with a
// sticky error that may be checked after a series of parsing read calls.
// Once an error occurs, all further reads on the fieldReader are no-ops.
type fieldReader struct {
	e  error
	br *bits.Reader
}

// newFieldReader returns a new fieldReader.
func newFieldReader(br *bits.Reader) fieldReader {
	return fieldReader{br: br}
}

// readBits returns n bits from br as a u(n) syntax element. The read does
// not happen if the fieldReader already has a non-nil error.
func (r *fieldReader) readBits(n int, label string) uint32 {
	if r.e != nil {
		return 0
	}
	var v uint32
	v, r.e = r.br.ReadBits(n, label)
	return v
}

// readFlag returns a single bit from br as a bool.
func (r *fieldReader) readFlag(label string) bool {
	return r.readBits(1, label) != 0
}

// readUe parses a syntax element of ue(v) descriptor, i.e. an unsigned
// integer Exp-Golomb-coded element, per section 9.1 of ITU-T H.264. The
// read does not happen if the fieldReader already has a non-nil error.
func (r *fieldReader) readUe(label string) uint32 {
	if r.e != nil {
		return 0
	}
	var v uint32
	v, r.e = r.br.DecodeUE(label)
	return v
}

// readSe parses a syntax element with descriptor se(v), i.e. a signed
// integer Exp-Golomb-coded element, per sections 9.1 and 9.1.1 of ITU-T
// H.264. The read does not happen if the fieldReader already has a non-nil
// error.
func (r *fieldReader) readSe(label string) int32 {
	if r.e != nil {
		return 0
	}
	var v int32
	v, r.e = r.br.DecodeSE(label)
	return v
}

// err returns the fieldReader's sticky error, mapping a bits.ErrTruncated
// from the underlying reader onto ErrTruncated so callers can match it with
// errors.Is regardless of which layer detected the truncation.
func (r *fieldReader) err() error {
	if stderrors.Is(r.e, bits.ErrTruncated) {
		return ErrTruncated
	}
	return r.e
}
