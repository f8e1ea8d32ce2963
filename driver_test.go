/*
DESCRIPTION
  driver_test.go provides testing for functionality in driver.go.

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

import "testing"

// box builds the byte encoding of an MP4 box header followed by body.
func box(tag string, body []byte) []byte {
	size := uint32(8 + len(body))
	out := []byte{
		byte(size >> 24), byte(size >> 16), byte(size >> 8), byte(size),
		tag[0], tag[1], tag[2], tag[3],
	}
	return append(out, body...)
}

// nal builds the AVC length-prefixed encoding of one NAL unit.
func nal(header byte, rbsp []byte) []byte {
	length := uint32(1 + len(rbsp))
	out := []byte{
		byte(length >> 24), byte(length >> 16), byte(length >> 8), byte(length),
		header,
	}
	return append(out, rbsp...)
}

func TestParseBytesSingleSegment(t *testing.T) {
	ftyp := box("ftyp", make([]byte, 8))

	sps := nal(0x67, []byte{0x42, 0x00, 0x1e, 0xf4, 0x16, 0x27, 0x00})
	pps := nal(0x68, []byte{0xef, 0x3c})
	slice := nal(0x45, []byte{0xb8, 0x40, 0xa0})

	payload := append(append(append([]byte{}, sps...), pps...), slice...)
	mdat := box("mdat", payload)

	data := append(append([]byte{}, ftyp...), mdat...)

	res, err := ParseBytes(data)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if len(res.Boxes) != 2 {
		t.Fatalf("got %d boxes, want 2", len(res.Boxes))
	}
	if res.Boxes[0].Tag != "ftyp" || res.Boxes[0].Offset != 0 || res.Boxes[0].Size != 16 {
		t.Errorf("unexpected ftyp box: %+v", res.Boxes[0])
	}
	if res.Boxes[1].Tag != "mdat" || res.Boxes[1].Offset != 16 || res.Boxes[1].Size != 35 {
		t.Errorf("unexpected mdat box: %+v", res.Boxes[1])
	}

	if len(res.NALUnits) != 3 {
		t.Fatalf("got %d nal units, want 3", len(res.NALUnits))
	}
	mdatPayloadStart := uint64(24)
	if res.NALUnits[0].Offset != mdatPayloadStart || res.NALUnits[0].Type != 7 {
		t.Errorf("unexpected sps nal unit: %+v", res.NALUnits[0])
	}
	if res.NALUnits[1].Type != 8 {
		t.Errorf("unexpected pps nal unit: %+v", res.NALUnits[1])
	}
	if res.NALUnits[2].Type != 5 || res.NALUnits[2].SliceTag != "I" {
		t.Errorf("unexpected slice nal unit: %+v", res.NALUnits[2])
	}

	if len(res.SPSs) != 1 || res.SPSs[0].ProfileIDC != 66 {
		t.Fatalf("unexpected sps list: %+v", res.SPSs)
	}
	if len(res.PPSs) != 1 {
		t.Fatalf("got %d pps, want 1", len(res.PPSs))
	}
	if len(res.SliceHeaders) != 1 || res.SliceHeaders[0].Tag != "I" {
		t.Fatalf("unexpected slice header list: %+v", res.SliceHeaders)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("got %d warnings, want 0", len(res.Warnings))
	}
}

func TestParseBytesUnsupportedBoxSizeStopsWalk(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x01, 'm', 'd', 'a', 't'}
	_, err := ParseBytes(data)
	if err == nil {
		t.Fatal("expected error for unsupported box size")
	}
}
