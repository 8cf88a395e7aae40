// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF and AIFF-C files.
//
// Decoding is built on github.com/go-audio/aiff.
//
// # Supported Formats
//
//   - AIFF and AIFF-C with the NONE or sowt compression types
//   - Signed 8, 16, 24 and 32 bits per sample
//   - Any channel count and sample rate
//
// Compressed AIFF-C variants are not handled.
//
// # Decoding AIFF Files
//
//	f, err := os.Open("take.aiff")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	buf, err := audio.ReadAll(ctx, src)
//
// Samples are normalized to float32 in [-1, 1] by dividing by the full
// scale of their bit depth. The frame count comes from the COMM chunk and
// is reported through audio.Sized.
//
// The underlying decoder needs to seek, so an input that is not an
// io.ReadSeeker is read into memory first.
//
// # Error Handling
//
//	switch {
//	case errors.Is(err, aiff.ErrNotAiffFile):
//	    // missing FORM/AIFF header
//	case errors.Is(err, aiff.ErrUnsupportedBitDepth):
//	    // the message carries the depth found
//	case errors.Is(err, aiff.ErrMissingFormat):
//	    // no usable COMM chunk
//	}
//
// Read errors from the sound data are wrapped and returned by ReadSamples.
package aiff
