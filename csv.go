/*
DESCRIPTION
  csv.go writes the per-frame and ranges CSV byte-layout views described by
  the range emitter.

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
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ausocean/mp4h264/codec/h264/h264dec"
)

// WriteFrameCSV writes the per-frame CSV layout of res to w, rows in
// ascending file-offset order: one row per box header (type,num,size =
// H,0,size — an mdat box contributes only its 8-byte header here, since its
// payload is otherwise counted by the NAL rows that follow it), one row per
// non-slice NAL unit (H,0,size), and one row per slice NAL unit
// (slice_type,frame_num,nal_size), frame_num counting slices in encounter
// order starting from 1.
func WriteFrameCSV(w io.Writer, res *Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"type", "num", "size"}); err != nil {
		return err
	}

	frameNum := 0
	boxIdx, nalIdx := 0, 0
	for boxIdx < len(res.Boxes) || nalIdx < len(res.NALUnits) {
		if nalIdx >= len(res.NALUnits) || (boxIdx < len(res.Boxes) && res.Boxes[boxIdx].Offset < res.NALUnits[nalIdx].Offset) {
			b := res.Boxes[boxIdx]
			size := b.Size
			if b.IsMdat() {
				size = 8
			}
			if err := cw.Write([]string{"H", "0", fmt.Sprint(size)}); err != nil {
				return err
			}
			boxIdx++
			continue
		}

		n := res.NALUnits[nalIdx]
		if n.IsSlice() {
			frameNum++
			if err := cw.Write([]string{n.SliceTag, fmt.Sprint(frameNum), fmt.Sprint(n.Size)}); err != nil {
				return err
			}
		} else {
			if err := cw.Write([]string{"H", "0", fmt.Sprint(n.Size)}); err != nil {
				return err
			}
		}
		nalIdx++
	}

	cw.Flush()
	return cw.Error()
}

// WriteRangesCSV writes the ranges CSV layout of res to w: one row per
// box (mp4,<name>,start,end), one row per opaque NAL unit
// (h264,<short_tag>,start,end), and two rows per slice NAL unit splitting
// the header and content regions.
func WriteRangesCSV(w io.Writer, res *Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"category", "type", "start", "end"}); err != nil {
		return err
	}

	for _, b := range res.Boxes {
		row := []string{"mp4", b.Tag, fmt.Sprint(b.Offset), fmt.Sprint(b.Offset + b.Size - 1)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	for _, n := range res.NALUnits {
		if !n.IsSlice() {
			if partitionUnsupported(n) {
				warn("data partition nal unit recorded, not reassembled", "offset", n.Offset, "type", n.Type)
			}
			row := []string{"h264", ShortNALUnitTypeName(n.Type), fmt.Sprint(n.Offset), fmt.Sprint(n.Offset + n.Size - 1)}
			if err := cw.Write(row); err != nil {
				return err
			}
			continue
		}

		headerEnd := n.Offset + 4 + uint64(n.SliceHeaderSize)
		contentStart := headerEnd + 1
		contentEnd := n.Offset + n.Size - 1

		headerRow := []string{"h264", n.SliceTag + "_header", fmt.Sprint(n.Offset), fmt.Sprint(headerEnd)}
		if err := cw.Write(headerRow); err != nil {
			return err
		}
		contentRow := []string{"h264", n.SliceTag + "_content", fmt.Sprint(contentStart), fmt.Sprint(contentEnd)}
		if err := cw.Write(contentRow); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// partitionUnsupported reports whether n is a data partition NAL unit
// (types 2-4), which this package records but does not reassemble.
func partitionUnsupported(n *h264dec.NALUnit) bool {
	return n.Type >= 2 && n.Type <= 4
}
