// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample plumbing shared by the decoders, the
// playback engine and the peak computer.
//
// All audio moves through the package as interleaved float32 PCM in the
// range [-1, 1]. Decoders produce a Source, ReadAll drains a Source into a
// Buffer, and a Buffer hands out new Sources over any region of itself.
//
// # Source Interface
//
// A Source is a pull stream:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (n int, err error)
//	    BufSize() int
//	    Close() error
//	}
//
// Callers pass whole frames, so len(dst) is a multiple of Channels(); the
// Resampler rejects anything else with ErrInvalidDstSize. n counts float32
// values, not frames. BufSize is the read size the source prefers.
//
// Sources that know their length up front also implement Sized. ReadAll
// uses TotalFrames to allocate the decoded track in one go; a value of
// zero or less means the length is unknown and the buffer grows instead.
//
// # Format Registry
//
// A Registry maps lower case file extensions to decoders. The formats
// package builds the default one; custom decoders can be added next to
// it:
//
//	reg := formats.NewRegistry()
//	reg.Register(myDecoder{}, "flac")
//
//	dec, ok := reg.ForPath("Take 3.FLAC") // case and dot are ignored
//	if !ok {
//	    return fmt.Errorf("no decoder for %s (supported: %s)",
//	        path, strings.Join(reg.Formats(), ", "))
//	}
//
// Registering a format twice replaces the earlier decoder. A Registry is
// safe for concurrent use.
//
// # Decoding a Track
//
//	f, err := os.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	src, err := dec.Decode(f)
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	buf, err := audio.ReadAll(ctx, audio.NewResampler(src, 44100))
//
// ReadAll checks ctx between chunks, so a long decode can be abandoned
// when the user loads something else.
//
// # Buffers and Regions
//
// A Buffer is read-only once built. Playback and peak computation read it
// from different goroutines without locking.
//
// Frames and Duration describe the whole buffer; FrameAt converts seconds
// to a clamped frame index. Slice and SliceTime return views over the same
// storage, and nothing is copied:
//
//	loop := buf.SliceTime(10, 30) // seconds 10..30
//	src := loop.Source()          // plays only the region
//
// # Resampling
//
// Resampler converts between rates with Catmull-Rom cubic interpolation
// and keeps the channel count. When the target rate is lower, the input
// runs through a one-pole low-pass first to limit aliasing.
//
// # Channel Mixing
//
// MonoMixer averages every frame down to a single channel:
//
//	mono := audio.NewMonoMixer(src)
//
// Mono sources pass through unchanged.
//
// # End of Stream
//
// ReadSamples returns io.EOF once no more data is available, possibly
// together with the final samples:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // use buf[:n]
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// # Error Handling
//
// Decoder errors from Decode and ReadSamples wrap their cause and can be
// matched with errors.Is against the sentinels of each format package.
// ReadAll wraps source errors, returns ctx.Err() when cancelled and
// ErrInvalidChannels for a source that reports no channels.
package audio
