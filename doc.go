// SPDX-License-Identifier: EPL-2.0

// Package audpractice is a music practice player: load a track, loop a
// section between A and B, slow it down, drop markers and scrub.
//
// # Packages
//
//   - transport: the pure reducer that owns all practice state
//   - engine: the executor that decodes tracks and drives an output device
//   - session: the loop that connects the two
//   - output: the speaker device
//   - peaks: waveform overview computation
//   - audio and formats: decoding and sample plumbing
//
// The audpractice command under cmd/ puts them together for the terminal.
//
// # Running a Session
//
// Every user intent is a transport.Action. The session feeds it through
// transport.Reduce, publishes the new state and hands the resulting
// commands to the engine in order. Engine events (ticks, finished
// regions, loaded tracks, peaks) come back as actions too:
//
//	spk, err := output.NewSpeaker(44100, 100, 4, log)
//	if err != nil {
//	    return err
//	}
//	eng := engine.New(spk, engine.Config{SampleRate: 44100}, log)
//	defer eng.Close()
//
//	sess := session.New(eng, log)
//	go sess.Run(ctx)
//
//	states, unsubscribe := sess.Subscribe()
//	defer unsubscribe()
//
//	err = sess.Dispatch(ctx, transport.ImportPicked{URL: "file:///music/take.wav"})
//
// Each value on states is an independent snapshot that can be rendered
// without locking.
//
// # Exporting a Region
//
// This package adds helpers that work on decoded audio directly.
// ExportRegion bounces a stretch of a track to a mono 16-bit WAV:
//
//	src, err := wav.Decoder{}.Decode(in)
//	if err != nil {
//	    return err
//	}
//	buf, err := audio.ReadAll(ctx, src)
//	if err != nil {
//	    return err
//	}
//
//	f, err := os.Create("solo.wav")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	err = audpractice.ExportRegion(f, buf, 12.5, 31, 22050)
//
// Bounds are clamped to the track. A rate of zero keeps the track's own
// rate. A region with no frames returns ErrEmptyRegion.
//
// Mono16 is the rendering step on its own: it resamples any source, folds
// it to mono and converts it to int16 PCM.
package audpractice
