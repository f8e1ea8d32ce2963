/*
DESCRIPTION
  read_test.go provides testing for utilities in read.go.

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

import "testing"

// buildNAL returns the AVC length-prefixed encoding of one NAL unit: a
// 4-byte big-endian length (header byte + payload), the header byte itself,
// and the payload.
func buildNAL(refIdc, typ uint8, payload []byte) []byte {
	length := uint32(1 + len(payload))
	out := []byte{
		byte(length >> 24), byte(length >> 16), byte(length >> 8), byte(length),
		(refIdc << 5) | (typ & 0x1f),
	}
	return append(out, payload...)
}

func TestWalkNALUnitsOpaqueUnits(t *testing.T) {
	unit1 := buildNAL(0, naluTypeSEI, []byte{0xaa, 0xbb})
	unit2 := buildNAL(0, naluTypeAccessUnitDelimiter, []byte{0xf0})
	data := append(append([]byte{}, unit1...), unit2...)

	const base = uint64(100)
	ctx := NewContext()
	if err := WalkNALUnits(data, base, ctx); err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if len(ctx.NALUnits) != 2 {
		t.Fatalf("got %d nal units, want 2", len(ctx.NALUnits))
	}

	n0 := ctx.NALUnits[0]
	if n0.Offset != base || n0.Size != uint64(len(unit1)) || n0.Type != naluTypeSEI {
		t.Errorf("unexpected first nal unit: %+v", n0)
	}

	n1 := ctx.NALUnits[1]
	wantOffset := base + uint64(len(unit1))
	if n1.Offset != wantOffset || n1.Size != uint64(len(unit2)) || n1.Type != naluTypeAccessUnitDelimiter {
		t.Errorf("unexpected second nal unit: %+v", n1)
	}
}

func TestWalkNALUnitsForbiddenZeroBitWarns(t *testing.T) {
	header := byte(1) << 7 // forbidden_zero_bit set
	unit := []byte{0x00, 0x00, 0x00, 0x02, header, 0x00}

	ctx := NewContext()
	if err := WalkNALUnits(unit, 0, ctx); err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if len(ctx.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(ctx.Warnings))
	}
}

func TestWalkNALUnitsTruncated(t *testing.T) {
	// Declares a length of 10 but only provides 2 bytes of payload.
	unit := []byte{0x00, 0x00, 0x00, 0x0a, 0x06, 0x01, 0x02}

	ctx := NewContext()
	if err := WalkNALUnits(unit, 0, ctx); err == nil {
		t.Fatal("expected error from truncated nal unit")
	}
}

func TestWalkNALUnitsSliceBeforeContext(t *testing.T) {
	unit := buildNAL(1, naluTypeIDR, []byte{0x80})

	ctx := NewContext()
	if err := WalkNALUnits(unit, 0, ctx); err == nil {
		t.Fatal("expected error from slice nal unit seen before sps/pps")
	}
}
