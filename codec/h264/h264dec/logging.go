/*
DESCRIPTION
  logging.go provides an optional package-level logger for low-volume debug
  diagnostics. This is independent of Context.Warnings, which is the
  structured record of parse-time anomalies returned to the caller; Log is
  for human-readable tracing only and may be left nil.

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

import "github.com/ausocean/utils/logging"

// Log is the package's optional debug logger. It is nil by default; the CLI
// sets it when --debug is passed.
var Log logging.Logger

// debug logs msg with the given key-value pairs if Log has been set.
func debug(msg string, kv ...interface{}) {
	if Log == nil {
		return
	}
	Log.Debug(msg, kv...)
}
