/*
DESCRIPTION
  rank.go assigns external weights to P/B frames produced by the segment
  correlator and orders them by weight, then by ascending start offset.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rank ranks a segment's frames by an externally supplied weight
// file, a feature present in the original tool but not carried by every
// deployment.
package rank

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedWeightFile indicates a weight file line could not be parsed
// as "frameNum weight".
var ErrMalformedWeightFile = errors.New("rank: malformed weight file")

// Frame is a ranked frame: the byte range of its NAL unit, its encounter
// order, and its assigned weight (0 if the weight file did not mention it).
type Frame struct {
	Offset   uint64
	Size     uint64
	FrameNum int
	Weight   uint32
}

// WeightFilePath returns the concrete weight file path for segment segNo
// given a prefix, mirroring assignWeights(weight_file_prefix, segment_no,
// ...) in the original tool: "<prefix><segNo>.txt".
func WeightFilePath(prefix string, segNo int) string {
	return fmt.Sprintf("%s%d.txt", prefix, segNo)
}

// LoadWeights parses a weight file of whitespace-separated "frameNum
// weight" lines, one per line, into a frameNum -> weight map. A missing
// file is treated as an empty weight set, not an error, since an absent
// weight file for a given segment is an expected case.
func LoadWeights(path string) (map[int]uint32, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return map[int]uint32{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	weights := map[int]uint32{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.Wrapf(ErrMalformedWeightFile, "rank: line %q", line)
		}
		frameNum, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedWeightFile, "rank: frame num %q", fields[0])
		}
		weight, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedWeightFile, "rank: weight %q", fields[1])
		}
		weights[frameNum] = uint32(weight)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return weights, nil
}

// Assign attaches a weight to each frame from weights, defaulting to 0 for
// frame numbers absent from the map.
func Assign(frames []Frame, weights map[int]uint32) {
	for i := range frames {
		frames[i].Weight = weights[frames[i].FrameNum]
	}
}

// Sort orders frames by descending weight, ties broken by ascending start
// offset, matching Frame::operator< in the original tool.
func Sort(frames []Frame) {
	sort.SliceStable(frames, func(i, j int) bool {
		if frames[i].Weight != frames[j].Weight {
			return frames[i].Weight > frames[j].Weight
		}
		return frames[i].Offset < frames[j].Offset
	})
}
