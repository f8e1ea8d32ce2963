/*
DESCRIPTION
  errors.go defines the sentinel error values returned by the parse driver,
  range emitter, and segment correlator.

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
	stderrors "errors"

	"github.com/ausocean/mp4h264/codec/h264/h264dec"
	"github.com/ausocean/mp4h264/container/mp4"
)

// ErrTruncated and ErrUnsupportedSyntax are the same sentinels the H.264
// syntax parser reports, re-exported here so callers need only import this
// package to match errors from the whole pipeline with errors.Is.
var (
	ErrTruncated         = h264dec.ErrTruncated
	ErrUnsupportedSyntax = h264dec.ErrUnsupportedSyntax
)

// ErrMalformedBox and ErrUnsupportedBoxSize are the MP4 box walker's
// sentinels, re-exported for the same reason.
var (
	ErrMalformedBox      = mp4.ErrMalformedBox
	ErrUnsupportedBoxSize = mp4.ErrUnsupportedBoxSize
)

var (
	// ErrMalformedMPD indicates the MPD document could not be parsed as
	// well-formed XML or is missing a structural element the correlator
	// requires (SegmentList, SegmentURL, mediaRange).
	ErrMalformedMPD = stderrors.New("mp4h264: malformed mpd")

	// ErrMPDTargetNotFound indicates no BaseURL in the MPD matched the
	// video's dash-truncated basename.
	ErrMPDTargetNotFound = stderrors.New("mp4h264: no matching base url in mpd")

	// ErrGapBeforeMdat indicates the correlator reached a SegmentURL's
	// range_end without first encountering an mdat box, which should not
	// happen for well-formed input.
	ErrGapBeforeMdat = stderrors.New("mp4h264: gap in bytestream before mdat")

	// ErrIO wraps failures opening, mapping, reading, or writing files.
	ErrIO = stderrors.New("mp4h264: io error")
)
