// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 and MPEG-2 Layer III streams.
//
// Decoding is built on github.com/hajimehoshi/go-mp3, which produces
// signed 16-bit little-endian stereo PCM.
//
// # Decoding MP3 Files
//
//	f, err := os.Open("take.mp3")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	buf, err := audio.ReadAll(ctx, src)
//
// The source is always two channels. Mono files come out with the same
// signal on both; audio.MonoMixer folds them back when needed.
//
// Samples are converted to float32 by dividing by 32768. A read that ends
// on an odd byte keeps that byte for the next call, so no sample is ever
// split.
//
// # Length
//
// go-mp3 can only measure a stream it can seek. For an io.ReadSeeker the
// source reports its frame count through audio.Sized; for other readers
// TotalFrames is zero and audio.ReadAll grows its buffer as it goes.
//
// # Error Handling
//
// Header errors are wrapped as "decoding mp3 header: ..." and keep the
// go-mp3 error reachable through errors.Unwrap.
package mp3
