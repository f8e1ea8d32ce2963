/*
DESCRIPTION
  slice_test.go provides testing for parsing functionality found in slice.go.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>
  Shawn Smith <shawn@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import (
	"testing"

	"github.com/ausocean/mp4h264/codec/h264/h264dec/bits"
)

func TestParseSliceHeaderIDR(t *testing.T) {
	in := "1" + // ue(v) first_mb_in_slice = 0
		"011" + // ue(v) slice_type = 2 (I)
		"1" + // ue(v) pic_parameter_set_id = 0
		"0000" + // u(4) frame_num = 0
		"1" + // ue(v) idr_pic_id = 0
		"0000" + // u(4) pic_order_cnt_lsb = 0
		"0" + // u(1) no_output_of_prior_pics_flag = 0
		"0" + // u(1) long_term_reference_flag = 0
		"1" // se(v) slice_qp_delta = 0

	bin, err := binToSlice(in)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	sps := &SPS{FrameMbsOnlyFlag: true, ChromaFormatIDC: 1}
	pps := &PPS{}
	nal := &NALUnit{Type: naluTypeIDR, RefIdc: 1}

	sh, err := parseSliceHeader(bits.NewReader(bin), sps, pps, nal)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if sh.Tag != "I" {
		t.Errorf("got Tag %q, want I", sh.Tag)
	}
	if nal.SliceTag != "I" {
		t.Errorf("got nal.SliceTag %q, want I", nal.SliceTag)
	}
	if sh.IDRPicID != 0 {
		t.Errorf("got IDRPicID %d, want 0", sh.IDRPicID)
	}
	if sh.SliceQpDelta != 0 {
		t.Errorf("got SliceQpDelta %d, want 0", sh.SliceQpDelta)
	}
	if nal.SliceHeaderSize == 0 {
		t.Error("expected non-zero SliceHeaderSize")
	}
}

func TestParseSliceHeaderP(t *testing.T) {
	in := "1" + // ue(v) first_mb_in_slice = 0
		"1" + // ue(v) slice_type = 0 (P)
		"1" + // ue(v) pic_parameter_set_id = 0
		"0000" + // u(4) frame_num = 0
		"0000" + // u(4) pic_order_cnt_lsb = 0
		"0" + // u(1) num_ref_idx_active_override_flag = 0
		"0" + // u(1) ref_pic_list_modification_flag_l0 = 0
		"0" + // u(1) adaptive_ref_pic_marking_mode_flag = 0
		"1" // se(v) slice_qp_delta = 0

	bin, err := binToSlice(in)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	sps := &SPS{FrameMbsOnlyFlag: true, ChromaFormatIDC: 1}
	pps := &PPS{}
	nal := &NALUnit{Type: naluTypeNonIDR, RefIdc: 1}

	sh, err := parseSliceHeader(bits.NewReader(bin), sps, pps, nal)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if sh.Tag != "P" {
		t.Errorf("got Tag %q, want P", sh.Tag)
	}
	if sh.NumRefIdxActiveOverrideFlag {
		t.Error("expected NumRefIdxActiveOverrideFlag false")
	}
	if sh.RefPicListModificationFlagL0 {
		t.Error("expected RefPicListModificationFlagL0 false")
	}
	if len(sh.RefPicListModificationsL0) != 0 {
		t.Errorf("expected no ref pic list modifications, got %d", len(sh.RefPicListModificationsL0))
	}
}

func TestParseSliceHeaderMVCRejected(t *testing.T) {
	in := "1" + "011" + "1" + "0000" + "1" + "0000" + "0" + "0" + "1"
	bin, err := binToSlice(in)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	sps := &SPS{FrameMbsOnlyFlag: true, ChromaFormatIDC: 1}
	pps := &PPS{}
	nal := &NALUnit{Type: 20, RefIdc: 1}

	_, err = parseSliceHeader(bits.NewReader(bin), sps, pps, nal)
	if err == nil {
		t.Fatal("expected error for MVC nal unit type")
	}
}
