/*
DESCRIPTION
  mp4h264 is a command line tool that walks an MP4 file's box and NAL unit
  structure, optionally correlating the result against a DASH MPD's segment
  ranges and ranking frames by an external weight file.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main provides the mp4h264 command line tool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/mp4h264"
	"github.com/ausocean/mp4h264/codec/h264/h264dec"
	"github.com/ausocean/mp4h264/mpd"
	"github.com/ausocean/mp4h264/rank"
	"github.com/ausocean/utils/logging"
)

// Logging configuration.
const (
	logPath      = "mp4h264.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logSuppress  = true
)

// rangesSuffixTrim is the number of characters trimmed off the video
// basename (its extension, assumed 3 characters) before appending
// "-ranges.csv".
const rangesSuffixTrim = 3

// Exit codes.
const (
	exitOK       = 0
	exitArgError = 1
	exitParseErr = 2
)

const pkg = "mp4h264: "

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("mp4h264", flag.ContinueOnError)
	csvPath := fs.String("csv", "", "write per-frame CSV to this path")
	mpdPath := fs.String("mpd", "", "correlate against the DASH MPD at this path")
	ranges := fs.Bool("ranges", false, "write a ranges CSV next to the video")
	weights := fs.String("weights", "", "prefix of per-segment weight files")
	debug := fs.Bool("debug", false, "enable debug logging")
	// Flags may appear before or after the positional video path.
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return exitArgError
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(positional) != 1 {
		fmt.Fprintln(os.Stderr, "usage: mp4h264 <video> [--csv path] [--mpd path] [--ranges] [--weights prefix] [--debug]")
		return exitArgError
	}
	video := positional[0]

	fileLog := &lumberjack.Logger{Filename: logPath, MaxSize: logMaxSize, MaxBackups: logMaxBackup, MaxAge: logMaxAge}
	verbosity := logging.Info
	if *debug {
		verbosity = logging.Debug
	}
	log := logging.New(verbosity, fileLog, logSuppress)
	if *debug {
		h264dec.Log = log
		mp4h264.Log = log
		mpd.Log = log
	}

	log.Info("parsing video", "path", video)
	res, err := mp4h264.Parse(video)
	if err != nil {
		log.Error(pkg+"could not parse video", "error", err.Error())
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, mp4h264.ErrIO) {
			return exitArgError
		}
		return exitParseErr
	}
	for _, w := range res.Warnings {
		log.Warning(pkg+"anomaly during parse", "warning", string(w))
	}

	if *csvPath != "" {
		if err := writeFrameCSV(*csvPath, res); err != nil {
			log.Error(pkg+"could not write csv", "error", err.Error())
			fmt.Fprintln(os.Stderr, err)
			return exitArgError
		}
	}

	if *ranges {
		path := rangesPath(video)
		if err := writeRangesCSV(path, res); err != nil {
			log.Error(pkg+"could not write ranges csv", "error", err.Error())
			fmt.Fprintln(os.Stderr, err)
			return exitArgError
		}
	}

	if *mpdPath != "" {
		if err := correlate(video, *mpdPath, *weights, res, log); err != nil {
			log.Error(pkg+"could not correlate against mpd", "error", err.Error())
			fmt.Fprintln(os.Stderr, err)
			return exitParseErr
		}
	}

	return exitOK
}

func rangesPath(video string) string {
	base := filepath.Base(video)
	if len(base) > rangesSuffixTrim {
		base = base[:len(base)-rangesSuffixTrim]
	}
	return filepath.Join(filepath.Dir(video), base+"-ranges.csv")
}

func writeFrameCSV(path string, res *mp4h264.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return mp4h264.WriteFrameCSV(f, res)
}

func writeRangesCSV(path string, res *mp4h264.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return mp4h264.WriteRangesCSV(f, res)
}

// correlate loads the MPD at mpdPath, correlates res against it, optionally
// ranks each segment's P/B frames against a weight file, and logs the
// ranked order (the ranking itself does not change the saved MPD, which
// only ever carries the correlator's own pFrames/bFrames ordering).
func correlate(video, mpdPath, weightPrefix string, res *mp4h264.Result, log logging.Logger) error {
	doc, err := mpd.Load(mpdPath)
	if err != nil {
		return err
	}

	segs, err := mp4h264.Correlate(res, doc, filepath.Base(video))
	if err != nil {
		return err
	}

	if weightPrefix == "" {
		return nil
	}

	for i, seg := range segs {
		weights, err := rank.LoadWeights(rank.WeightFilePath(weightPrefix, i))
		if err != nil {
			return err
		}
		pFrames := toRankFrames(seg.PFrames)
		rank.Assign(pFrames, weights)
		rank.Sort(pFrames)
		log.Info("ranked p-frames", "segment", i, "frames", pFrames)

		bFrames := toRankFrames(seg.BFrames)
		rank.Assign(bFrames, weights)
		rank.Sort(bFrames)
		log.Info("ranked b-frames", "segment", i, "frames", bFrames)
	}
	return nil
}

func toRankFrames(frames []mp4h264.Frame) []rank.Frame {
	out := make([]rank.Frame, len(frames))
	for i, f := range frames {
		out[i] = rank.Frame{Offset: f.Offset, Size: f.Size, FrameNum: f.FrameNum}
	}
	return out
}
