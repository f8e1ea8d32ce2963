/*
DESCRIPTION
  driver.go orchestrates the MP4 box walker and the H.264 NAL unit walker
  into a single pass over a mapped file, producing the flat lists of parsed
  records plus a log of non-fatal anomalies.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mp4h264

import (
	"github.com/pkg/errors"

	"github.com/ausocean/mp4h264/codec/h264/h264dec"
	"github.com/ausocean/mp4h264/container/mp4"
	"github.com/ausocean/mp4h264/mmapfile"
)

// Warning describes a non-fatal anomaly encountered while parsing, such as
// a NAL unit with forbidden_zero_bit set.
type Warning string

// Result holds the flat, offset-ordered lists produced by parsing one
// file, along with any non-fatal warnings encountered along the way.
type Result struct {
	Boxes        []mp4.Box
	NALUnits     []*h264dec.NALUnit
	SPSs         []*h264dec.SPS
	PPSs         []*h264dec.PPS
	SliceHeaders []*h264dec.SliceHeader
	Warnings     []Warning
}

// Parse memory-maps the file at path read-only, parses it in a single pass,
// and returns the accumulated result. The mapping is released before Parse
// returns, so Result's records, which store only offsets, remain valid.
func Parse(path string) (*Result, error) {
	f, err := mmapfile.Open(path)
	if err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	defer f.Close()

	return ParseBytes(f.Data)
}

// ParseBytes parses data, which must be the entire contents of an MP4 file
// starting at offset 0, in a single sequential pass.
func ParseBytes(data []byte) (*Result, error) {
	res := &Result{}
	ctx := h264dec.NewContext()

	err := mp4.Walk(data, 0, func(b mp4.Box, payload []byte) error {
		res.Boxes = append(res.Boxes, b)
		if !b.IsMdat() {
			return nil
		}
		return h264dec.WalkNALUnits(payload, b.PayloadStart(), ctx)
	})
	if err != nil {
		return nil, err
	}

	res.NALUnits = ctx.NALUnits
	res.SPSs = ctx.SPSs
	res.PPSs = ctx.PPSs
	res.SliceHeaders = ctx.SliceHeaders
	for _, w := range ctx.Warnings {
		res.Warnings = append(res.Warnings, Warning(w))
	}
	return res, nil
}
