/*
NAME
  mp4.go - provides a data structure intended to encapsulate the properties
  of an ISO Base Media File Format box and a function to walk a sequence of
  them.

DESCRIPTION
  See Readme.md

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mp4 provides a sequential walker over ISO Base Media File Format
// (MP4) box headers, exposing the mdat payload region to the caller.
package mp4

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// headerSize is the size in bytes of a box's size+type header.
const headerSize = 8

// mdatTag is the four character code of a media data box.
const mdatTag = "mdat"

// ErrMalformedBox indicates a box header declares a size smaller than the
// 8-byte header itself, or a box header or box body runs past the end of
// the data.
var ErrMalformedBox = errors.New("mp4: malformed box")

// ErrUnsupportedBoxSize indicates a box header declares size 0 (extends to
// end of file) or size 1 (64-bit largesize follows); neither is implemented.
var ErrUnsupportedBoxSize = errors.New("mp4: unsupported box size")

// Box describes one ISO Base Media File Format box: its absolute file
// offset, its size including the 8-byte header, and its four character type
// tag.
type Box struct {
	Offset uint64
	Size   uint64
	Tag    string
}

// IsMdat reports whether b is a media data box.
func (b Box) IsMdat() bool { return b.Tag == mdatTag }

// PayloadStart returns the absolute offset of the first payload byte
// following the header.
func (b Box) PayloadStart() uint64 { return b.Offset + headerSize }

// PayloadEnd returns the absolute offset one past the last payload byte.
func (b Box) PayloadEnd() uint64 { return b.Offset + b.Size }

// Walk walks the sequence of boxes in data, calling visit for each one in
// file order. data is the full mapped region; base is the absolute file
// offset of data[0]. visit receives the box and, when the box is an mdat,
// the payload slice data[box.PayloadStart()-base : box.PayloadEnd()-base];
// for every other box the payload slice is nil. Walk stops and returns an
// error if visit returns one, or if a box header is malformed or of an
// unsupported size.
func Walk(data []byte, base uint64, visit func(b Box, payload []byte) error) error {
	offset := 0
	for offset < len(data) {
		if offset+headerSize > len(data) {
			return errors.Wrap(ErrMalformedBox, "mp4: box header runs past end of data")
		}

		size := uint64(binary.BigEndian.Uint32(data[offset : offset+4]))
		tag := string(data[offset+4 : offset+8])

		if size == 0 || size == 1 {
			return errors.Wrapf(ErrUnsupportedBoxSize, "mp4: box %q at offset %d has size %d", tag, base+uint64(offset), size)
		}
		if size < headerSize {
			return errors.Wrapf(ErrMalformedBox, "mp4: box %q at offset %d has size %d", tag, base+uint64(offset), size)
		}

		end := uint64(offset) + size
		if end > uint64(len(data)) {
			return errors.Wrapf(ErrMalformedBox, "mp4: box %q at offset %d runs past end of data", tag, base+uint64(offset))
		}

		b := Box{Offset: base + uint64(offset), Size: size, Tag: tag}

		var payload []byte
		if b.IsMdat() {
			payload = data[offset+headerSize : end]
		}
		if err := visit(b, payload); err != nil {
			return err
		}

		offset = int(end)
	}
	return nil
}
