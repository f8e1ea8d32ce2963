/*
DESCRIPTION
  nalunit_test.go provides testing for functionality in nalunit.go.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import "testing"

func TestNALUnitIsSlice(t *testing.T) {
	tests := []struct {
		typ  uint8
		want bool
	}{
		{naluTypeNonIDR, true},
		{naluTypeIDR, true},
		{naluTypeSPS, false},
		{naluTypePPS, false},
		{naluTypeSEI, false},
		{naluTypeUnspecified, false},
	}

	for i, test := range tests {
		n := &NALUnit{Type: test.typ}
		if got := n.IsSlice(); got != test.want {
			t.Errorf("test %d: IsSlice() = %v, want %v", i, got, test.want)
		}
	}
}
