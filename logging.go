/*
DESCRIPTION
  logging.go provides an optional package-level logger for low-volume
  warnings from the range emitter and segment correlator.

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

import "github.com/ausocean/utils/logging"

// Log is the package's optional debug logger. It is nil by default; the CLI
// sets it when --debug is passed.
var Log logging.Logger

func debug(msg string, kv ...interface{}) {
	if Log == nil {
		return
	}
	Log.Debug(msg, kv...)
}

func warn(msg string, kv ...interface{}) {
	if Log == nil {
		return
	}
	Log.Warning(msg, kv...)
}
