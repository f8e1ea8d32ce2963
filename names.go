/*
DESCRIPTION
  names.go provides human-readable names for H.264 NAL unit types and slice
  types, for use by the range emitter and logging.

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

// nalUnitTypeNames maps nal_unit_type to its long-form name per ISO/IEC
// 14496-10 Table 7-1.
var nalUnitTypeNames = map[uint8]string{
	0: "Unspecified",
	1: "Coded slice of a non-IDR picture",
	2: "Coded slice data partition A",
	3: "Coded slice data partition B",
	4: "Coded slice data partition C",
	5: "Coded slice of an IDR picture",
	6: "Supplemental enhancement information",
	7: "Sequence parameter set",
	8: "Picture parameter set",
}

// shortNALUnitTypeNames maps nal_unit_type to the short tag used in ranges
// CSV rows.
var shortNALUnitTypeNames = map[uint8]string{
	0: "U",
	1: "nIDR",
	2: "pA",
	3: "pB",
	4: "pC",
	5: "IDR",
	6: "SEI",
	7: "SPS",
	8: "PPS",
}

// sliceTypeNames maps slice_type mod 5 to its single/double character tag
// per Table 7-6.
var sliceTypeNames = map[uint32]string{
	0: "P",
	1: "B",
	2: "I",
	3: "SP",
	4: "SI",
}

const unknownTypeName = "DUNNO"

// NALUnitTypeName returns the long-form name of a nal_unit_type value, or
// "DUNNO" for a value this package has no name for.
func NALUnitTypeName(t uint8) string {
	if name, ok := nalUnitTypeNames[t]; ok {
		return name
	}
	return unknownTypeName
}

// ShortNALUnitTypeName returns the short tag used in ranges CSV rows for a
// nal_unit_type value, or "DUNNO" for a value this package has no name for.
func ShortNALUnitTypeName(t uint8) string {
	if name, ok := shortNALUnitTypeNames[t]; ok {
		return name
	}
	return unknownTypeName
}

// SliceTypeName returns the tag for a slice_type value per Table 7-6,
// mapping values 5-9 (which repeat 0-4 per the standard's bitstream
// conformance note) the same as their base value.
func SliceTypeName(t uint32) string {
	if name, ok := sliceTypeNames[t%5]; ok {
		return name
	}
	return unknownTypeName
}
