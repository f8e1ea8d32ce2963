/*
DESCRIPTION
  nalunit.go describes a single network abstraction layer unit as found in
  the AVC sample format: a 4-byte big-endian length prefix followed by a
  1-byte NAL header, as opposed to Annex B start-code delimiting. Multiview,
  3D-AVC and SVC extension headers are out of scope and not parsed.

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

// NAL unit types, as defined by table 7-1 of ISO/IEC 14496-10.
const (
	naluTypeUnspecified            = 0
	naluTypeNonIDR                 = 1
	naluTypeDataPartitionA         = 2
	naluTypeDataPartitionB         = 3
	naluTypeDataPartitionC         = 4
	naluTypeIDR                    = 5
	naluTypeSEI                    = 6
	naluTypeSPS                    = 7
	naluTypePPS                    = 8
	naluTypeAccessUnitDelimiter    = 9
	naluTypeEndOfSequence          = 10
	naluTypeEndOfStream            = 11
	naluTypeFillerData             = 12
	naluTypeSPSExtension           = 13
	naluTypePrefixNALU             = 14
	naluTypeSubsetSPS              = 15
	naluTypeDepthParameterSet      = 16
	naluTypeSliceLayerExtRBSP      = 20 // coded slice extension (Annex H, G)
	naluTypeSliceLayerExtRBSP2     = 21 // coded slice extension for depth view (Annex J)
)

// NALUnit describes a network abstraction layer unit record as laid out in
// the AVC sample format used by MP4 mdat payloads: Offset points at the
// 4-byte length prefix, and Size is the length prefix value plus 4. The
// header byte itself (forbidden_zero_bit, nal_ref_idc, nal_unit_type) is
// read separately from the length prefix.
type NALUnit struct {
	Offset uint64
	Size   uint64

	// forbidden_zero_bit, expected to always be 0. A non-zero value is
	// logged as a warning but does not stop parsing.
	ForbiddenZeroBit uint8

	// nal_ref_idc, non-zero when the NAL contains reference data (SPS, PPS,
	// or a slice of a reference picture).
	RefIdc uint8

	// nal_unit_type, as defined by table 7-1.
	Type uint8

	// SliceHeaderSize is the byte-rounded-up size of the slice header, set
	// only when Type is a slice NAL (1 or 5).
	SliceHeaderSize uint32

	// SliceTag is the short slice-type tag derived from slice_type mod 5
	// (I, P, B, SP, SI), set only when Type is a slice NAL (1 or 5).
	SliceTag string
}

// IsSlice reports whether the NAL unit carries a coded slice (type 1 or 5).
func (n *NALUnit) IsSlice() bool {
	return n.Type == naluTypeNonIDR || n.Type == naluTypeIDR
}
