// SPDX-License-Identifier: EPL-2.0

// Package engine executes transport commands against an audio Device.
//
// The engine holds no authoritative position. Every EnginePlay stops the
// poller and the current region, carves a new Region out of the decoded
// track and schedules it. Elapsed time is the region's start offset plus
// the frames the device reports as played, published as Tick events
// roughly every 33ms.
//
// # Completion
//
// Devices may call the completion callback when a region is stopped. The
// engine marks its own stops with a restart flag and a region generation,
// and only a region that runs out on its own produces PlaybackFinished,
// exactly once.
//
// # Loading
//
// Load accepts a path or file:// URL, decodes the whole file with the
// decoder registered for its extension and resamples it to the device
// rate. Failures are *LoadError values matching ErrFileNotFound,
// ErrInvalidFormat or ErrLoadFailed.
package engine
