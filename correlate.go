/*
DESCRIPTION
  correlate.go walks a parsed Result in lockstep with a DASH MPD's segment
  ranges, classifying frame data per SegmentURL and annotating the document
  with the aggregated results.

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
	"fmt"
	"strconv"
	"strings"

	stderrors "errors"

	"github.com/ausocean/mp4h264/mpd"
	"github.com/pkg/errors"
)

// Frame is a NAL unit classified into a segment's P or B frame list (a P or
// B slice, or a reappearing non-slice NAL unit prepended to the P list),
// retained so the frame ranker can later re-order a segment's frames by
// external weight.
type Frame struct {
	Offset   uint64
	Size     uint64
	FrameNum int
}

// SegmentFrames holds the P and B frames classified for one SegmentURL, in
// the order the correlator produced them (including the prepend quirk for
// reappearing non-slice NAL units).
type SegmentFrames struct {
	PFrames []Frame
	BFrames []Frame
}

// segmentCursor is the subset of *mpd.Cursor the correlator depends on,
// narrowed so it can be exercised by a fake in tests.
type segmentCursor interface {
	Range() (start, end uint64, err error)
	SetAttribute(name, value string)
	Next() bool
}

// Correlate walks res's boxes and NAL units in lockstep with doc's
// SegmentURL ranges for the BaseURL matching videoBasename's dash prefix,
// annotating each SegmentURL with iEnd, pSize, bSize, pFrames and bFrames
// attributes, then saves doc. It returns the classified frames per segment
// for optional use by the frame ranker.
func Correlate(res *Result, doc *mpd.Doc, videoBasename string) ([]SegmentFrames, error) {
	prefix, ok := mpd.DashPrefix(videoBasename)
	if !ok {
		return nil, errors.Wrapf(ErrMPDTargetNotFound, "mp4h264: no dash prefix in %q", videoBasename)
	}

	cur, err := doc.Locate(prefix)
	if err != nil {
		return nil, mapMPDError(err)
	}

	segs, err := correlateSegments(res, cur)
	if err != nil {
		return nil, err
	}

	if err := doc.Save(); err != nil {
		return nil, mapMPDError(err)
	}
	return segs, nil
}

func mapMPDError(err error) error {
	switch {
	case stderrors.Is(err, mpd.ErrTargetNotFound):
		return errors.Wrap(ErrMPDTargetNotFound, err.Error())
	case stderrors.Is(err, mpd.ErrMalformedMPD):
		return errors.Wrap(ErrMalformedMPD, err.Error())
	default:
		return err
	}
}

// correlateSegments implements the walk against an already-located cursor,
// independent of document loading so it can be tested directly.
func correlateSegments(res *Result, cur segmentCursor) ([]SegmentFrames, error) {
	firstStart, _, err := cur.Range()
	if err != nil {
		return nil, mapMPDError(err)
	}

	boxIdx := 0
	for boxIdx < len(res.Boxes) && res.Boxes[boxIdx].Offset < firstStart {
		boxIdx++
	}

	var segs []SegmentFrames
	nalIdx := 0
	frameNum := 0
	for {
		s, e, err := cur.Range()
		if err != nil {
			return nil, mapMPDError(err)
		}

		foundMdat := false
		for boxIdx < len(res.Boxes) && res.Boxes[boxIdx].Offset < e {
			if res.Boxes[boxIdx].IsMdat() {
				foundMdat = true
				boxIdx++
				break
			}
			boxIdx++
		}
		if !foundMdat {
			return nil, errors.Wrapf(ErrGapBeforeMdat, "mp4h264: segment [%d, %d)", s, e)
		}

		var (
			haveI    bool
			iEnd     uint64
			pSize    uint64
			bSize    uint64
			pRanges  []string
			bRanges  []string
			seg      SegmentFrames
		)

		for nalIdx < len(res.NALUnits) && res.NALUnits[nalIdx].Offset < e {
			n := res.NALUnits[nalIdx]
			frameNum++
			rng := fmt.Sprintf("%d-%d", n.Offset, n.Offset+n.Size-1)
			f := Frame{Offset: n.Offset, Size: n.Size, FrameNum: frameNum}

			switch {
			case n.IsSlice() && n.SliceTag == "I":
				haveI = true
				iEnd = n.Offset + n.Size - 1
			case n.IsSlice() && n.SliceTag == "P":
				pRanges = append(pRanges, rng)
				seg.PFrames = append(seg.PFrames, f)
				pSize += n.Size
			case n.IsSlice() && n.SliceTag == "B":
				bRanges = append(bRanges, rng)
				seg.BFrames = append(seg.BFrames, f)
				bSize += n.Size
			case n.IsSlice():
				// SP/SI slice: consumed as a slice boundary, not added to
				// either range list.
			default:
				warn("non-slice nal unit reappeared in segment, prepended to p-frames", "offset", n.Offset, "type", n.Type)
				pRanges = append([]string{rng}, pRanges...)
				seg.PFrames = append([]Frame{f}, seg.PFrames...)
				pSize += n.Size
			}
			nalIdx++
		}

		if haveI {
			cur.SetAttribute("iEnd", strconv.FormatUint(iEnd, 10))
		}
		cur.SetAttribute("pSize", strconv.FormatUint(pSize, 10))
		cur.SetAttribute("bSize", strconv.FormatUint(bSize, 10))
		cur.SetAttribute("pFrames", strings.Join(pRanges, ","))
		cur.SetAttribute("bFrames", strings.Join(bRanges, ","))
		segs = append(segs, seg)

		if !cur.Next() {
			break
		}
	}
	return segs, nil
}
