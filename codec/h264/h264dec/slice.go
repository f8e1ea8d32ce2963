/*
DESCRIPTION
  slice.go provides parsing functionality for the slice header syntax
  structure defined in section 7.3.3 of ISO/IEC 14496-10. Only the header
  is parsed; macroblock_layer() data is left untouched by the caller.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
  Bruce McMoran <mcmoranbjr@gmail.com>

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

// Slice types as defined by table 7-6 in the specifications. slice_type
// itself ranges over [0,9]; values 5-9 carry the same meaning as 0-4 but
// additionally indicate that all slices of the current picture share the
// same type. Tag derivation always reduces mod 5.
const (
	sliceTypeP  = 0
	sliceTypeB  = 1
	sliceTypeI  = 2
	sliceTypeSP = 3
	sliceTypeSI = 4
)

// Chroma formats as defined in section 6.2, table 6-1.
const (
	chromaMonochrome = iota
	chroma420
	chroma422
	chroma444
)

// sliceTypeTag maps a raw slice_type value to the short tag used
// throughout this package and in CSV output, per table 7-6.
func sliceTypeTag(sliceType uint32) string {
	switch sliceType % 5 {
	case sliceTypeP:
		return "P"
	case sliceTypeB:
		return "B"
	case sliceTypeI:
		return "I"
	case sliceTypeSP:
		return "SP"
	case sliceTypeSI:
		return "SI"
	}
	return ""
}

// RefPicListMod is one element of a ref_pic_list_modification() loop, as
// defined in section 7.3.3.1.
type RefPicListMod struct {
	ModificationOfPicNumsIdc uint32
	AbsDiffPicNumMinus1      uint32
	LongTermPicNum           uint32
}

// PredWeight is one (weight, offset) pair read by pred_weight_table(), as
// defined in section 7.3.3.2.
type PredWeight struct {
	Weight int32
	Offset int32
}

// MMCO is one memory_management_control_operation loop iteration from
// dec_ref_pic_marking(), as defined in section 7.3.3.3.
type MMCO struct {
	Op                        uint32
	DifferenceOfPicNumsMinus1 uint32
	LongTermPicNum            uint32
	LongTermFrameIdx          uint32
	MaxLongTermFrameIdxPlus1  uint32
}

// SliceHeader describes a slice_header() syntax structure as defined in
// section 7.3.3 of ISO/IEC 14496-10.
type SliceHeader struct {
	FirstMbInSlice    uint32
	SliceType         uint32
	Tag               string // derived from SliceType mod 5, per table 7-6
	PicParameterSetID uint32
	ColourPlaneID     uint8
	FrameNum          uint32
	FieldPicFlag      bool
	BottomFieldFlag   bool
	IDRPicID          uint32

	PicOrderCntLsb         uint32
	DeltaPicOrderCntBottom int32

	RedundantPicCnt uint32

	DirectSpatialMvPredFlag     bool
	NumRefIdxActiveOverrideFlag bool
	NumRefIdxL0ActiveMinus1     uint32
	NumRefIdxL1ActiveMinus1     uint32

	RefPicListModificationFlagL0 bool
	RefPicListModificationsL0    []RefPicListMod
	RefPicListModificationFlagL1 bool
	RefPicListModificationsL1    []RefPicListMod

	LumaLog2WeightDenom   uint32
	ChromaLog2WeightDenom uint32
	LumaWeightL0Flag      bool
	LumaWeightL0          []PredWeight
	ChromaWeightL0Flag    bool
	ChromaWeightL0        [][2]PredWeight
	LumaWeightL1Flag      bool
	LumaWeightL1          []PredWeight
	ChromaWeightL1Flag    bool
	ChromaWeightL1        [][2]PredWeight

	NoOutputOfPriorPicsFlag       bool
	LongTermReferenceFlag         bool
	AdaptiveRefPicMarkingModeFlag bool
	MMCOs                         []MMCO

	CabacInitIdc uint32

	SliceQpDelta    int32
	SpForSwitchFlag bool
	SliceQsDelta    int32

	DisableDeblockingFilterIdc uint32
	SliceAlphaC0OffsetDiv2     int32
	SliceBetaOffsetDiv2        int32

	SliceGroupChangeCycle uint32
}

// parseRefPicListMods reads the body of one ref_pic_list_modification() l0
// or l1 loop: a sequence of (idc, operand) pairs terminated by idc == 3.
func parseRefPicListMods(r *fieldReader) []RefPicListMod {
	var mods []RefPicListMod
	for {
		m := RefPicListMod{ModificationOfPicNumsIdc: r.readUe("modification_of_pic_nums_idc")}
		if r.err() != nil || m.ModificationOfPicNumsIdc == 3 {
			break
		}
		switch m.ModificationOfPicNumsIdc {
		case 0, 1:
			m.AbsDiffPicNumMinus1 = r.readUe("abs_diff_pic_num_minus1")
		case 2:
			m.LongTermPicNum = r.readUe("long_term_pic_num")
		}
		mods = append(mods, m)
		if r.err() != nil {
			break
		}
	}
	return mods
}

// parsePredWeights reads one l0 or l1 half of pred_weight_table(): a luma
// weight/offset pair per active reference index, plus a Cb/Cr pair when
// chromaArrayType != 0.
func parsePredWeights(r *fieldReader, numRefIdxActiveMinus1 uint32, chromaArrayType uint32) (lumaFlag bool, luma []PredWeight, chromaFlag bool, chroma [][2]PredWeight) {
	for i := uint32(0); i <= numRefIdxActiveMinus1; i++ {
		f := r.readFlag("luma_weight_flag")
		if i == 0 {
			lumaFlag = f
		}
		w := PredWeight{}
		if f {
			w.Weight = r.readSe("luma_weight")
			w.Offset = r.readSe("luma_offset")
		}
		luma = append(luma, w)

		if chromaArrayType == 0 {
			continue
		}
		cf := r.readFlag("chroma_weight_flag")
		if i == 0 {
			chromaFlag = cf
		}
		var pair [2]PredWeight
		if cf {
			for j := 0; j < 2; j++ {
				pair[j].Weight = r.readSe("chroma_weight")
				pair[j].Offset = r.readSe("chroma_offset")
			}
		}
		chroma = append(chroma, pair)
	}
	return
}

// parseSliceHeader parses a slice_header() from br, which must be
// positioned at the start of the slice RBSP (i.e. after the NAL header
// byte). sps and pps are the most recently parsed SPS and PPS, resolved by
// the caller using "last parsed wins". nal is the enclosing NAL unit; its
// SliceTag and SliceHeaderSize fields are populated as a side effect of parsing.
func parseSliceHeader(br *bits.Reader, sps *SPS, pps *PPS, nal *NALUnit) (*SliceHeader, error) {
	sh := &SliceHeader{}
	r := newFieldReader(br)

	sh.FirstMbInSlice = r.readUe("first_mb_in_slice")
	sh.SliceType = r.readUe("slice_type")
	sh.Tag = sliceTypeTag(sh.SliceType)
	nal.SliceTag = sh.Tag

	sh.PicParameterSetID = r.readUe("pic_parameter_set_id")

	if sps.SeparateColourPlaneFlag {
		sh.ColourPlaneID = uint8(r.readBits(2, "colour_plane_id"))
	}

	sh.FrameNum = r.readBits(int(sps.Log2MaxFrameNumMinus4)+4, "frame_num")

	if !sps.FrameMbsOnlyFlag {
		sh.FieldPicFlag = r.readFlag("field_pic_flag")
		if sh.FieldPicFlag {
			sh.BottomFieldFlag = r.readFlag("bottom_field_flag")
		}
	}

	if nal.Type == naluTypeIDR {
		sh.IDRPicID = r.readUe("idr_pic_id")
	}

	// sps.PicOrderCntType == 1 SPS's are rejected by NewSPS, so that branch
	// of pic_order_cnt() can never be reached here.
	if sps.PicOrderCntType == 0 {
		sh.PicOrderCntLsb = r.readBits(int(sps.Log2MaxPicOrderCntLsbMinus4)+4, "pic_order_cnt_lsb")
		if pps.BottomFieldPicOrderInFramePresent && !sh.FieldPicFlag {
			sh.DeltaPicOrderCntBottom = r.readSe("delta_pic_order_cnt_bottom")
		}
	}

	if pps.RedundantPicCntPresent {
		sh.RedundantPicCnt = r.readUe("redundant_pic_cnt")
	}

	if sh.Tag == "B" {
		sh.DirectSpatialMvPredFlag = r.readFlag("direct_spatial_mv_pred_flag")
	}

	if sh.Tag == "P" || sh.Tag == "SP" || sh.Tag == "B" {
		sh.NumRefIdxActiveOverrideFlag = r.readFlag("num_ref_idx_active_override_flag")
		if sh.NumRefIdxActiveOverrideFlag {
			sh.NumRefIdxL0ActiveMinus1 = r.readUe("num_ref_idx_l0_active_minus1")
			if sh.Tag == "B" {
				sh.NumRefIdxL1ActiveMinus1 = r.readUe("num_ref_idx_l1_active_minus1")
			}
		}
	}

	if err := r.err(); err != nil {
		return nil, errors.Wrap(err, "slice header: reading prefix fields")
	}

	// ref_pic_list_modification(), 7.3.3.1. MVC variants (nal_unit_type 20,
	// 21) use ref_pic_list_mvc_modification() instead, which is not parsed.
	if nal.Type == 20 || nal.Type == 21 {
		return nil, errors.Wrap(ErrUnsupportedSyntax, "slice header: MVC nal unit type")
	}
	rawType := sh.SliceType % 5
	if rawType != sliceTypeI && rawType != sliceTypeSI {
		sh.RefPicListModificationFlagL0 = r.readFlag("ref_pic_list_modification_flag_l0")
		if r.err() == nil && sh.RefPicListModificationFlagL0 {
			sh.RefPicListModificationsL0 = parseRefPicListMods(&r)
		}
	}
	if rawType == sliceTypeB {
		sh.RefPicListModificationFlagL1 = r.readFlag("ref_pic_list_modification_flag_l1")
		if r.err() == nil && sh.RefPicListModificationFlagL1 {
			sh.RefPicListModificationsL1 = parseRefPicListMods(&r)
		}
	}
	if err := r.err(); err != nil {
		return nil, errors.Wrap(err, "slice header: ref_pic_list_modification")
	}

	// pred_weight_table(), 7.3.3.2.
	chromaArrayType := sps.ChromaArrayType()
	useWeightTable := (pps.WeightedPred && (rawType == sliceTypeP || rawType == sliceTypeSP)) ||
		(pps.WeightedBipredIDC == 1 && rawType == sliceTypeB)
	if useWeightTable {
		sh.LumaLog2WeightDenom = r.readUe("luma_log2_weight_denom")
		if chromaArrayType != 0 {
			sh.ChromaLog2WeightDenom = r.readUe("chroma_log2_weight_denom")
		}
		sh.LumaWeightL0Flag, sh.LumaWeightL0, sh.ChromaWeightL0Flag, sh.ChromaWeightL0 =
			parsePredWeights(&r, sh.NumRefIdxL0ActiveMinus1, chromaArrayType)
		if rawType == sliceTypeB {
			sh.LumaWeightL1Flag, sh.LumaWeightL1, sh.ChromaWeightL1Flag, sh.ChromaWeightL1 =
				parsePredWeights(&r, sh.NumRefIdxL1ActiveMinus1, chromaArrayType)
		}
	}
	if err := r.err(); err != nil {
		return nil, errors.Wrap(err, "slice header: pred_weight_table")
	}

	// dec_ref_pic_marking(), 7.3.3.3.
	if nal.RefIdc != 0 {
		if nal.Type == naluTypeIDR {
			sh.NoOutputOfPriorPicsFlag = r.readFlag("no_output_of_prior_pics_flag")
			sh.LongTermReferenceFlag = r.readFlag("long_term_reference_flag")
		} else {
			sh.AdaptiveRefPicMarkingModeFlag = r.readFlag("adaptive_ref_pic_marking_mode_flag")
			if sh.AdaptiveRefPicMarkingModeFlag {
				for {
					op := r.readUe("memory_management_control_operation")
					if r.err() != nil || op == 0 {
						break
					}
					m := MMCO{Op: op}
					switch op {
					case 1, 3:
						m.DifferenceOfPicNumsMinus1 = r.readUe("difference_of_pic_nums_minus1")
						if op == 3 {
							m.LongTermFrameIdx = r.readUe("long_term_frame_idx")
						}
					case 2:
						m.LongTermPicNum = r.readUe("long_term_pic_num")
					case 4:
						m.MaxLongTermFrameIdxPlus1 = r.readUe("max_long_term_frame_idx_plus1")
					case 6:
						m.LongTermFrameIdx = r.readUe("long_term_frame_idx")
					}
					sh.MMCOs = append(sh.MMCOs, m)
				}
			}
		}
	}
	if err := r.err(); err != nil {
		return nil, errors.Wrap(err, "slice header: dec_ref_pic_marking")
	}

	if pps.EntropyCodingModeFlag && sh.Tag != "I" && sh.Tag != "SI" {
		sh.CabacInitIdc = r.readUe("cabac_init_idc")
	}

	sh.SliceQpDelta = r.readSe("slice_qp_delta")
	if sh.Tag == "SP" || sh.Tag == "SI" {
		if sh.Tag == "SP" {
			sh.SpForSwitchFlag = r.readFlag("sp_for_switch_flag")
		}
		sh.SliceQsDelta = r.readSe("slice_qs_delta")
	}

	if pps.DeblockingFilterControlPresent {
		sh.DisableDeblockingFilterIdc = r.readUe("disable_deblocking_filter_idc")
		if sh.DisableDeblockingFilterIdc != 1 {
			sh.SliceAlphaC0OffsetDiv2 = r.readSe("slice_alpha_c0_offset_div2")
			sh.SliceBetaOffsetDiv2 = r.readSe("slice_beta_offset_div2")
		}
	}

	if pps.NumSliceGroupsMinus1 > 0 && pps.SliceGroupMapType >= 3 && pps.SliceGroupMapType <= 5 {
		units := ceilDiv(int(pps.PicSizeInMapUnitsMinus1)+1, int(pps.SliceGroupChangeRateMinus1)+1)
		width := ceilLog2(units + 1)
		sh.SliceGroupChangeCycle = r.readBits(width, "slice_group_change_cycle")
	}

	if err := r.err(); err != nil {
		return nil, errors.Wrap(err, "slice header: trailer")
	}

	bytesRead := br.ByteOffset()
	if br.BitOffset() > 0 {
		bytesRead++
	}
	nal.SliceHeaderSize = uint32(bytesRead)

	debug("parsed slice header", "tag", sh.Tag, "frame_num", sh.FrameNum, "header_size", nal.SliceHeaderSize)
	return sh, nil
}

// ceilDiv returns Ceil(a/b) for positive a, b.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
