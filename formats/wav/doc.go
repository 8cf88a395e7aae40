// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes RIFF/WAVE files.
//
// Decoding is built on github.com/go-audio/wav. Writing is done by hand
// because region export only ever needs one fixed layout.
//
// # Supported Formats
//
//   - Integer PCM (format tag 1) and WAVE_FORMAT_EXTENSIBLE (0xFFFE)
//     carrying integer PCM
//   - 8, 16, 24 and 32 bits per sample
//   - Any channel count and sample rate
//
// Floating point, A-law, mu-law and compressed encodings are rejected.
// Chunks other than fmt and data (LIST, bext, cue and so on) are skipped.
//
// # Decoding WAV Files
//
//	f, err := os.Open("take.wav")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	buf, err := audio.ReadAll(ctx, src)
//
// Samples are normalized to float32 in [-1, 1] by dividing by the full
// scale of their bit depth. 8-bit data is unsigned and is re-centered
// around its 128 midpoint first.
//
// The decoder seeks to find the data chunk. An input that is not an
// io.ReadSeeker is read into memory before decoding. The source reports
// its frame count through audio.Sized, taken from the data chunk size.
//
// # Writing WAV Files
//
// WriteWAV16 writes interleaved int16 samples with a canonical 44 byte
// header:
//
//	pcm := []int16{0, 1200, -1200, 0}
//	err := wav.WriteWAV16(w, 22050, 1, pcm)
//
// Samples go out in chunks of 8192, so w does not need to be buffered. A
// trailing partial frame is dropped. Region export in the root package
// writes its output this way.
//
// # Error Handling
//
// Decode returns sentinel errors that can be checked with errors.Is:
//
//	src, err := wav.Decoder{}.Decode(f)
//	switch {
//	case errors.Is(err, wav.ErrNotWavFile):
//	    // missing RIFF/WAVE header
//	case errors.Is(err, wav.ErrUnsupportedEncoding):
//	    // not integer PCM
//	case errors.Is(err, wav.ErrUnsupportedBitDepth):
//	    // the message carries the depth found
//	case errors.Is(err, wav.ErrMissingPCM):
//	    // no data chunk
//	}
//
// WriteWAV16 returns ErrInvalidChannelCount for a channel count below one
// and wraps write errors from w.
//
// # File Format
//
// A WAV file is a RIFF container:
//
//	RIFF header (12 bytes)
//	  "RIFF" + size + "WAVE"
//	fmt chunk
//	  format tag, channels, sample rate, byte rate, block align, bits
//	data chunk
//	  little-endian interleaved samples
package wav
