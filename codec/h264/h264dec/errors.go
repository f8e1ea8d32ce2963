/*
DESCRIPTION
  errors.go defines the sentinel error values returned by this package's
  parsers, intended to be matched with errors.Is against a wrapped error.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import "errors"

var (
	// ErrTruncated indicates a read ran past the end of the data available
	// to a parser.
	ErrTruncated = errors.New("h264dec: truncated")

	// ErrUnsupportedSyntax indicates a syntax element was encountered whose
	// value this package does not parse further, e.g. seq_scaling_matrix,
	// pic_order_cnt_type == 1, or an MVC/3D-AVC NAL unit type.
	ErrUnsupportedSyntax = errors.New("h264dec: unsupported syntax")

	// ErrMissingContext indicates a slice NAL unit was encountered before
	// the SPS and PPS it references had been parsed.
	ErrMissingContext = errors.New("h264dec: slice seen before its sps/pps")
)
