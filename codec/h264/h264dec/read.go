/*
DESCRIPTION
  read.go walks a sequence of length-prefixed NAL units, as found in the AVC
  sample format used by MP4 mdat payloads, dispatching each unit to the
  relevant syntax parser and accumulating the results in a Context.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
  mrmod <mcmoranbjr@gmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import (
	"encoding/binary"
	"fmt"

	"github.com/ausocean/mp4h264/codec/h264/h264dec/bits"
	"github.com/pkg/errors"
)

// Context accumulates the results of walking a sequence of NAL units. SPS
// and PPS resolution for slice headers follows "last parsed wins": LastSPS
// and LastPPS always hold the most recently parsed parameter sets, which is
// what a slice NAL references regardless of its own pic_parameter_set_id.
type Context struct {
	LastSPS *SPS
	LastPPS *PPS

	NALUnits     []*NALUnit
	SPSs         []*SPS
	PPSs         []*PPS
	SliceHeaders []*SliceHeader

	Warnings []string
}

// NewContext returns an empty Context ready for use with WalkNALUnits.
func NewContext() *Context {
	return &Context{}
}

func (c *Context) warnf(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// WalkNALUnits walks the AVC length-prefixed NAL units in data, which is
// typically an mdat box payload, recording each unit's absolute offset as
// base+relative-offset-into-data. Each unit is dispatched by nal_unit_type:
// 1 and 5 parse a slice header, 7 a sequence parameter set, 8 a picture
// parameter set, and all other types are recorded without further parsing.
// The cursor always advances to the next unit's length prefix regardless of
// how much of the unit a sub-parser consumed.
func WalkNALUnits(data []byte, base uint64, ctx *Context) error {
	offset := 0
	for offset < len(data) {
		if offset+4 > len(data) {
			return errors.Wrap(ErrTruncated, "nal unit: reading length prefix")
		}
		length := binary.BigEndian.Uint32(data[offset : offset+4])
		headerStart := offset + 4
		if headerStart >= len(data) {
			return errors.Wrap(ErrTruncated, "nal unit: reading header byte")
		}
		unitEnd := offset + 4 + int(length)
		if unitEnd > len(data) || length == 0 {
			return errors.Wrap(ErrTruncated, "nal unit: length prefix runs past end of data")
		}

		header := data[headerStart]
		nal := &NALUnit{
			Offset:           base + uint64(offset),
			Size:             uint64(length) + 4,
			ForbiddenZeroBit: header >> 7,
			RefIdc:           (header >> 5) & 0x3,
			Type:             header & 0x1f,
		}
		if nal.ForbiddenZeroBit != 0 {
			ctx.warnf("nal unit at offset %d: forbidden_zero_bit set", nal.Offset)
			debug("forbidden_zero_bit set", "offset", nal.Offset)
		}

		rbsp := data[headerStart+1 : unitEnd]
		debug("nal unit", "offset", nal.Offset, "type", nal.Type, "size", nal.Size)
		if err := dispatchNALUnit(rbsp, nal, ctx); err != nil {
			return err
		}

		ctx.NALUnits = append(ctx.NALUnits, nal)
		offset = unitEnd
	}
	return nil
}

// dispatchNALUnit parses rbsp according to nal.Type and records the result
// on ctx.
func dispatchNALUnit(rbsp []byte, nal *NALUnit, ctx *Context) error {
	switch nal.Type {
	case naluTypeSPS:
		sps, err := NewSPS(rbsp)
		if err != nil {
			return errors.Wrapf(err, "nal unit at offset %d", nal.Offset)
		}
		ctx.SPSs = append(ctx.SPSs, sps)
		ctx.LastSPS = sps

	case naluTypePPS:
		pps, err := NewPPS(bits.NewReader(rbsp))
		if err != nil {
			return errors.Wrapf(err, "nal unit at offset %d", nal.Offset)
		}
		ctx.PPSs = append(ctx.PPSs, pps)
		ctx.LastPPS = pps

	case naluTypeNonIDR, naluTypeIDR:
		if ctx.LastSPS == nil || ctx.LastPPS == nil {
			return errors.Wrapf(ErrMissingContext, "nal unit at offset %d", nal.Offset)
		}
		sh, err := parseSliceHeader(bits.NewReader(rbsp), ctx.LastSPS, ctx.LastPPS, nal)
		if err != nil {
			return errors.Wrapf(err, "nal unit at offset %d", nal.Offset)
		}
		ctx.SliceHeaders = append(ctx.SliceHeaders, sh)
	}
	return nil
}
