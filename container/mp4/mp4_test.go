/*
DESCRIPTION
  mp4_test.go provides testing for functionality in mp4.go.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mp4

import "testing"

// box builds the byte encoding of a box header followed by body.
func box(tag string, body []byte) []byte {
	size := uint32(headerSize + len(body))
	out := []byte{
		byte(size >> 24), byte(size >> 16), byte(size >> 8), byte(size),
		tag[0], tag[1], tag[2], tag[3],
	}
	return append(out, body...)
}

func TestWalkTwoBoxes(t *testing.T) {
	ftyp := box("ftyp", make([]byte, 24-headerSize))
	mdat := box("mdat", make([]byte, 1000-headerSize))
	data := append(append([]byte{}, ftyp...), mdat...)

	var got []Box
	var mdatPayload []byte
	err := Walk(data, 0, func(b Box, payload []byte) error {
		got = append(got, b)
		if b.IsMdat() {
			mdatPayload = payload
		}
		return nil
	})
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d boxes, want 2", len(got))
	}
	if got[0].Tag != "ftyp" || got[0].Offset != 0 || got[0].Size != 24 {
		t.Errorf("unexpected first box: %+v", got[0])
	}
	if got[1].Tag != "mdat" || got[1].Offset != 24 || got[1].Size != 1000 {
		t.Errorf("unexpected second box: %+v", got[1])
	}
	if got[1].PayloadStart() != 32 || got[1].PayloadEnd() != 1024 {
		t.Errorf("got payload extent [%d, %d), want [32, 1024)", got[1].PayloadStart(), got[1].PayloadEnd())
	}
	if len(mdatPayload) != 1000-headerSize {
		t.Errorf("got mdat payload length %d, want %d", len(mdatPayload), 1000-headerSize)
	}
}

func TestWalkUnsupportedBoxSize(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x01, 'm', 'd', 'a', 't'}
	err := Walk(data, 0, func(b Box, payload []byte) error { return nil })
	if err == nil {
		t.Fatal("expected error for largesize box")
	}
}

func TestWalkMalformedBoxTooSmall(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x04, 'f', 't', 'y', 'p'}
	err := Walk(data, 0, func(b Box, payload []byte) error { return nil })
	if err == nil {
		t.Fatal("expected error for box smaller than header")
	}
}

func TestWalkMalformedBoxPastEnd(t *testing.T) {
	// Declares a size that runs past the end of the provided data.
	data := []byte{0x00, 0x00, 0x00, 0x20, 'f', 't', 'y', 'p'}
	err := Walk(data, 0, func(b Box, payload []byte) error { return nil })
	if err == nil {
		t.Fatal("expected error for box running past end of data")
	}
}

func TestWalkVisitorStopsWalk(t *testing.T) {
	b1 := box("ftyp", nil)
	b2 := box("free", nil)
	data := append(append([]byte{}, b1...), b2...)

	var calls int
	stop := errBoom
	err := Walk(data, 0, func(b Box, payload []byte) error {
		calls++
		return stop
	})
	if err != stop {
		t.Fatalf("got error %v, want %v", err, stop)
	}
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}

var errBoom = &boomError{}

type boomError struct{}

func (*boomError) Error() string { return "boom" }
