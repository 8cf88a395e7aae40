// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audpractice/audio"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// fullScale maps a bit depth to the magnitude of its most negative value.
var fullScale = map[int]float32{
	8:  128.0,
	16: 32768.0,
	24: 8388608.0,
	32: 2147483648.0,
}

// pcmReader is the part of gowav.Decoder the source needs, split out for tests.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int
	frames     int
	intBuf     *goaudio.IntBuffer
}

func (s *source) SampleRate() int  { return s.sampleRate }
func (s *source) Channels() int    { return s.channels }
func (s *source) Close() error     { return nil }
func (s *source) TotalFrames() int { return s.frames }

func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{Data: make([]int, len(dst))}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && n == 0 {
		return 0, fmt.Errorf("%w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	scale := fullScale[s.bitDepth]
	if s.bitDepth == 8 {
		// 8-bit WAV is unsigned with a 128 midpoint.
		for i := range n {
			dst[i] = float32(s.intBuf.Data[i]-128) / scale
		}
		return n, nil
	}

	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]) / scale
	}

	return n, nil
}

// Decoder reads RIFF/WAVE files with integer PCM data of 8, 16, 24 or 32
// bits. Chunks other than fmt and data are skipped.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	switch dec.WavAudioFormat {
	case formatPCM, formatExtensible:
	default:
		return nil, ErrUnsupportedEncoding
	}

	depth := int(dec.BitDepth)
	if _, ok := fullScale[depth]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, depth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingPCM, err)
	}

	channels := int(dec.NumChans)

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		bitDepth:   depth,
		frames:     dec.PCMSize / (depth / 8 * channels),
	}, nil
}
