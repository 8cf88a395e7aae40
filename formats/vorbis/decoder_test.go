// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type mockOggReader struct {
	rate     int
	channels int
	samples  []float32
	err      error
}

func (m *mockOggReader) SampleRate() int { return m.rate }
func (m *mockOggReader) Channels() int   { return m.channels }
func (m *mockOggReader) Length() int64   { return int64(len(m.samples) / m.channels) }

func (m *mockOggReader) Read(buf []float32) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if len(m.samples) == 0 {
		return 0, io.EOF
	}
	n := copy(buf, m.samples)
	m.samples = m.samples[n:]
	return n, nil
}

func newMockSource(channels int, samples ...float32) *source {
	return &source{
		dec:        &mockOggReader{rate: 48000, channels: channels, samples: samples},
		sampleRate: 48000,
		channels:   channels,
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("OggS but not really")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%q) error = nil, want error", data)
		}
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		samples  []float32
		dstLen   int
		wantN    int
	}{
		{"mono", 1, []float32{0.1, 0.2, 0.3}, 8, 3},
		{"stereo", 2, []float32{0.1, -0.1, 0.2, -0.2}, 8, 4},
		{"stereo trims odd dst", 2, []float32{0.1, -0.1, 0.2, -0.2}, 3, 2},
		{"six channels", 6, make([]float32, 12), 12, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newMockSource(tt.channels, tt.samples...)
			dst := make([]float32, tt.dstLen)

			n, err := src.ReadSamples(dst)
			if n != tt.wantN || err != nil {
				t.Fatalf("ReadSamples() = (%d, %v), want (%d, nil)", n, err, tt.wantN)
			}
			for i := range n {
				if dst[i] != tt.samples[i] {
					t.Errorf("sample %d = %v, want %v", i, dst[i], tt.samples[i])
				}
			}
		})
	}
}

func TestSource_EOFAndLength(t *testing.T) {
	t.Parallel()

	src := newMockSource(2, 0.5, 0.5, 0.25, 0.25)
	if src.TotalFrames() != 2 {
		t.Errorf("TotalFrames() = %d, want 2", src.TotalFrames())
	}

	dst := make([]float32, 16)
	if n, _ := src.ReadSamples(dst); n != 4 {
		t.Fatalf("first read n = %d, want 4", n)
	}
	if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("read past end = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := newMockSource(1)
	src.dec.(*mockOggReader).err = io.ErrUnexpectedEOF

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want ErrUnexpectedEOF", err)
	}
}
