/*
DESCRIPTION
  sps.go parses a sequence parameter set RBSP as specified in ISO/IEC
  14496-10 Section 7.3.2.1.1, trimmed to the fields that gate later syntax:
  scaling lists, pic_order_cnt_type == 1, and VUI parameters are recognized
  but not decoded.

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

import (
	"github.com/ausocean/mp4h264/codec/h264/h264dec/bits"
	"github.com/pkg/errors"
)

// profileIDCWithChromaInfo lists the profile_idc values for which the SPS
// chroma/bit-depth/scaling block of 7.3.2.1.1 is present.
var profileIDCWithChromaInfo = []int{100, 110, 122, 244, 44, 83, 86, 118, 128, 134, 138, 139}

// SPS describes a sequence parameter set as defined by section 7.3.2.1.1 of
// ISO/IEC 14496-10. Only the fields that gate PPS and slice header parsing
// are kept; scaling lists and the pic_order_cnt_type == 1 branch are out of
// scope and cause NewSPS to report ErrUnsupportedSyntax rather than continue.
// VUI parameters are not parsed either, but only their presence flag is
// recorded and parsing succeeds.
type SPS struct {
	ProfileIDC uint8

	// The six constraint_setN_flag bits, N in [0,5].
	Constraint0 bool
	Constraint1 bool
	Constraint2 bool
	Constraint3 bool
	Constraint4 bool
	Constraint5 bool

	LevelIDC uint8

	// seq_parameter_set_id, referenced by PPS.
	ID uint32

	// chroma_format_idc defaults to 1 when the profile guard is false.
	ChromaFormatIDC          uint32
	SeparateColourPlaneFlag  bool
	BitDepthLumaMinus8       uint32
	BitDepthChromaMinus8     uint32
	QPPrimeYZeroTransformBypassFlag bool

	// SeqScalingMatrixPresentFlag being true means this SPS could not be
	// fully parsed; NewSPS returns ErrUnsupportedSyntax in that case, so a
	// successfully returned SPS always has this false.
	SeqScalingMatrixPresentFlag bool

	Log2MaxFrameNumMinus4 uint32

	// PicOrderCntType == 1 is not supported; NewSPS returns
	// ErrUnsupportedSyntax rather than a *SPS in that case.
	PicOrderCntType               uint32
	Log2MaxPicOrderCntLsbMinus4   uint32

	MaxNumRefFrames                  uint32
	GapsInFrameNumValueAllowedFlag   bool
	PicWidthInMbsMinus1              uint32
	PicHeightInMapUnitsMinus1        uint32
	FrameMbsOnlyFlag                 bool
	MbAdaptiveFrameFieldFlag         bool
	Direct8x8InferenceFlag           bool

	FrameCroppingFlag     bool
	FrameCropLeftOffset   uint32
	FrameCropRightOffset  uint32
	FrameCropTopOffset    uint32
	FrameCropBottomOffset uint32

	// VUIParametersPresentFlag is recorded but the vui_parameters() syntax
	// structure itself is never parsed.
	VUIParametersPresentFlag bool
}

// ChromaArrayType derives the ChromaArrayType pseudo-variable per the
// semantics of separate_colour_plane_flag in 7.4.2.1.1.
func (sps *SPS) ChromaArrayType() uint32 {
	if sps.SeparateColourPlaneFlag {
		return 0
	}
	return sps.ChromaFormatIDC
}

// NewSPS parses a sequence parameter set RBSP following the syntax
// structure specified in section 7.3.2.1.1, and returns it as a new SPS.
// It returns an error wrapping ErrUnsupportedSyntax if the RBSP sets
// seq_scaling_matrix_present_flag or pic_order_cnt_type == 1, since neither
// is parsed.
func NewSPS(rbsp []byte) (*SPS, error) {
	sps := &SPS{ChromaFormatIDC: 1}
	br := bits.NewReader(rbsp)
	r := newFieldReader(br)

	sps.ProfileIDC = uint8(r.readBits(8, "profile_idc"))
	sps.Constraint0 = r.readFlag("constraint_set0_flag")
	sps.Constraint1 = r.readFlag("constraint_set1_flag")
	sps.Constraint2 = r.readFlag("constraint_set2_flag")
	sps.Constraint3 = r.readFlag("constraint_set3_flag")
	sps.Constraint4 = r.readFlag("constraint_set4_flag")
	sps.Constraint5 = r.readFlag("constraint_set5_flag")
	r.readBits(2, "reserved_zero_2bits")
	sps.LevelIDC = uint8(r.readBits(8, "level_idc"))
	sps.ID = r.readUe("seq_parameter_set_id")

	if isInList(profileIDCWithChromaInfo, int(sps.ProfileIDC)) {
		sps.ChromaFormatIDC = r.readUe("chroma_format_idc")
		if sps.ChromaFormatIDC == 3 {
			sps.SeparateColourPlaneFlag = r.readFlag("separate_colour_plane_flag")
		}
		sps.BitDepthLumaMinus8 = r.readUe("bit_depth_luma_minus8")
		sps.BitDepthChromaMinus8 = r.readUe("bit_depth_chroma_minus8")
		sps.QPPrimeYZeroTransformBypassFlag = r.readFlag("qpprime_y_zero_transform_bypass_flag")
		sps.SeqScalingMatrixPresentFlag = r.readFlag("seq_scaling_matrix_present_flag")
		if err := r.err(); err != nil {
			return nil, errors.Wrap(err, "sps: reading chroma info")
		}
		if sps.SeqScalingMatrixPresentFlag {
			return nil, errors.Wrap(ErrUnsupportedSyntax, "sps: seq_scaling_matrix_present_flag set")
		}
	}

	sps.Log2MaxFrameNumMinus4 = r.readUe("log2_max_frame_num_minus4")
	sps.PicOrderCntType = r.readUe("pic_order_cnt_type")
	if err := r.err(); err != nil {
		return nil, errors.Wrap(err, "sps: reading pic_order_cnt_type")
	}

	switch sps.PicOrderCntType {
	case 0:
		sps.Log2MaxPicOrderCntLsbMinus4 = r.readUe("log2_max_pic_order_cnt_lsb_minus4")
	case 1:
		return nil, errors.Wrap(ErrUnsupportedSyntax, "sps: pic_order_cnt_type == 1")
	}

	sps.MaxNumRefFrames = r.readUe("max_num_ref_frames")
	sps.GapsInFrameNumValueAllowedFlag = r.readFlag("gaps_in_frame_num_value_allowed_flag")
	sps.PicWidthInMbsMinus1 = r.readUe("pic_width_in_mbs_minus1")
	sps.PicHeightInMapUnitsMinus1 = r.readUe("pic_height_in_map_units_minus1")
	sps.FrameMbsOnlyFlag = r.readFlag("frame_mbs_only_flag")
	if !sps.FrameMbsOnlyFlag {
		sps.MbAdaptiveFrameFieldFlag = r.readFlag("mb_adaptive_frame_field_flag")
	}
	sps.Direct8x8InferenceFlag = r.readFlag("direct_8x8_inference_flag")
	sps.FrameCroppingFlag = r.readFlag("frame_cropping_flag")
	if sps.FrameCroppingFlag {
		sps.FrameCropLeftOffset = r.readUe("frame_crop_left_offset")
		sps.FrameCropRightOffset = r.readUe("frame_crop_right_offset")
		sps.FrameCropTopOffset = r.readUe("frame_crop_top_offset")
		sps.FrameCropBottomOffset = r.readUe("frame_crop_bottom_offset")
	}
	sps.VUIParametersPresentFlag = r.readFlag("vui_parameters_present_flag")

	if err := r.err(); err != nil {
		return nil, errors.Wrap(err, "sps")
	}
	debug("parsed sps", "id", sps.ID, "profile_idc", sps.ProfileIDC)
	return sps, nil
}

// isInList reports whether term is present in l.
func isInList(l []int, term int) bool {
	for _, m := range l {
		if m == term {
			return true
		}
	}
	return false
}
