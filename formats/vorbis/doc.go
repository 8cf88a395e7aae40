// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams.
//
// Decoding is built on github.com/jfreymuth/oggvorbis, which already
// produces interleaved float32 samples, so ReadSamples decodes straight
// into the caller's slice without conversion.
//
// # Decoding Ogg Files
//
//	f, err := os.Open("take.ogg")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	buf, err := audio.ReadAll(ctx, src)
//
// Channel count and sample rate come from the identification header.
// Reads are trimmed to whole frames.
//
// # Length
//
// The frame count is taken from the stream's last granule position,
// which oggvorbis can only find on seekable input. Otherwise TotalFrames
// is zero.
//
// # Error Handling
//
// Header errors are wrapped as "decoding vorbis header: ...". Errors in
// later pages are wrapped and returned by ReadSamples.
package vorbis
