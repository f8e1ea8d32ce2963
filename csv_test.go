/*
DESCRIPTION
  csv_test.go provides testing for functionality in csv.go.

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
	"bytes"
	"strings"
	"testing"

	"github.com/ausocean/mp4h264/codec/h264/h264dec"
	"github.com/ausocean/mp4h264/container/mp4"
)

// testResult builds a Result with three slice NAL units with slice_type
// values 2, 0, 1 (I, P, B).
func testResult() *Result {
	return &Result{
		Boxes: []mp4.Box{{Offset: 0, Size: 24, Tag: "ftyp"}},
		NALUnits: []*h264dec.NALUnit{
			{Offset: 24, Size: 10, Type: 5, SliceTag: "I", SliceHeaderSize: 3},
			{Offset: 34, Size: 8, Type: 1, SliceTag: "P", SliceHeaderSize: 2},
			{Offset: 42, Size: 9, Type: 1, SliceTag: "B", SliceHeaderSize: 2},
		},
	}
}

func TestWriteFrameCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrameCSV(&buf, testResult()); err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	want := "type,num,size\nH,0,24\nI,1,10\nP,2,8\nB,3,9\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteFrameCSVMdatHeaderOnly(t *testing.T) {
	res := &Result{
		Boxes: []mp4.Box{
			{Offset: 0, Size: 20, Tag: "ftyp"},
			{Offset: 20, Size: 100, Tag: "moof"},
			{Offset: 120, Size: 33, Tag: "mdat"},
		},
		NALUnits: []*h264dec.NALUnit{
			{Offset: 128, Size: 10, Type: 5, SliceTag: "I", SliceHeaderSize: 3},
			{Offset: 138, Size: 15, Type: 1, SliceTag: "P", SliceHeaderSize: 2},
		},
	}
	var buf bytes.Buffer
	if err := WriteFrameCSV(&buf, res); err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	// Boxes and NAL units interleave in file-offset order; mdat contributes
	// only its 8-byte header, not its full (payload-duplicating) size.
	want := "type,num,size\nH,0,20\nH,0,100\nH,0,8\nI,1,10\nP,2,15\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteRangesCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRangesCSV(&buf, testResult()); err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	got := buf.String()
	if !strings.HasPrefix(got, "category,type,start,end\n") {
		t.Fatalf("unexpected header: %s", got)
	}
	if !strings.Contains(got, "mp4,ftyp,0,23\n") {
		t.Errorf("missing box row, got:\n%s", got)
	}
	// I-slice at offset 24, size 10, header size 3: header ends at
	// 24+4+3=31, content spans [32, 33].
	if !strings.Contains(got, "h264,I_header,24,31\n") {
		t.Errorf("missing I_header row, got:\n%s", got)
	}
	if !strings.Contains(got, "h264,I_content,32,33\n") {
		t.Errorf("missing I_content row, got:\n%s", got)
	}
}

func TestWriteRangesCSVOpaqueUnit(t *testing.T) {
	res := &Result{
		NALUnits: []*h264dec.NALUnit{
			{Offset: 100, Size: 20, Type: 7}, // SPS
		},
	}
	var buf bytes.Buffer
	if err := WriteRangesCSV(&buf, res); err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if !strings.Contains(buf.String(), "h264,SPS,100,119\n") {
		t.Errorf("missing opaque nal unit row, got:\n%s", buf.String())
	}
}
