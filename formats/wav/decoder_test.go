// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audpractice/audio"
)

// buildWAV assembles a WAV file around raw sample bytes. extra chunks are
// inserted between fmt and data.
func buildWAV(format, sampleRate, channels, bits int, data []byte, extra ...[]byte) []byte {
	body := new(bytes.Buffer)
	body.WriteString("WAVE")

	body.WriteString("fmt ")
	binary.Write(body, binary.LittleEndian, uint32(16))
	binary.Write(body, binary.LittleEndian, uint16(format))
	binary.Write(body, binary.LittleEndian, uint16(channels))
	binary.Write(body, binary.LittleEndian, uint32(sampleRate))
	binary.Write(body, binary.LittleEndian, uint32(sampleRate*channels*bits/8))
	binary.Write(body, binary.LittleEndian, uint16(channels*bits/8))
	binary.Write(body, binary.LittleEndian, uint16(bits))

	for _, chunk := range extra {
		body.Write(chunk)
	}

	body.WriteString("data")
	binary.Write(body, binary.LittleEndian, uint32(len(data)))
	body.Write(data)

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

func int16Bytes(samples ...int16) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, samples)
	return buf.Bytes()
}

func decodeAll(t *testing.T, data []byte) *audio.Buffer {
	t.Helper()

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	buf, err := audio.ReadAll(context.Background(), src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	return buf
}

func TestDecoder_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		channels int
		want     []float32
	}{
		{
			name:     "16-bit mono",
			data:     buildWAV(formatPCM, 8000, 1, 16, int16Bytes(0, 16384, -16384, -32768)),
			channels: 1,
			want:     []float32{0, 0.5, -0.5, -1},
		},
		{
			name:     "16-bit stereo",
			data:     buildWAV(formatPCM, 8000, 2, 16, int16Bytes(8192, -8192, 0, 16384)),
			channels: 2,
			want:     []float32{0.25, -0.25, 0, 0.5},
		},
		{
			name:     "8-bit unsigned",
			data:     buildWAV(formatPCM, 8000, 1, 8, []byte{128, 192, 64, 0}),
			channels: 1,
			want:     []float32{0, 0.5, -0.5, -1},
		},
		{
			name: "24-bit",
			data: buildWAV(formatPCM, 8000, 1, 24, []byte{
				0x00, 0x00, 0x40, // +0.5
				0x00, 0x00, 0xC0, // -0.5
			}),
			channels: 1,
			want:     []float32{0.5, -0.5},
		},
		{
			name:     "extensible header",
			data:     buildWAV(formatExtensible, 8000, 1, 16, int16Bytes(16384, 0)),
			channels: 1,
			want:     []float32{0.5, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := decodeAll(t, tt.data)
			if buf.Channels() != tt.channels || buf.SampleRate() != 8000 {
				t.Fatalf("format = %d ch @ %d Hz", buf.Channels(), buf.SampleRate())
			}

			got := buf.Samples()
			if len(got) != len(tt.want) {
				t.Fatalf("decoded %d samples, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(float64(got[i]-tt.want[i])) > 1e-6 {
					t.Errorf("sample %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecoder_SkipsUnknownChunks(t *testing.T) {
	t.Parallel()

	list := append([]byte("LIST"), 4, 0, 0, 0, 'I', 'N', 'F', 'O')
	data := buildWAV(formatPCM, 22050, 1, 16, int16Bytes(100, 200, 300), list)

	buf := decodeAll(t, data)
	if buf.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", buf.Frames())
	}
}

func TestDecoder_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"not riff", []byte("definitely not a wav file, just some text"), ErrNotWavFile},
		{"empty", nil, ErrNotWavFile},
		{"ieee float", buildWAV(3, 8000, 1, 32, make([]byte, 16)), ErrUnsupportedEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	data := buildWAV(formatPCM, 8000, 1, 16, int16Bytes(1, 2, 3, 4, 5))

	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if sized, ok := src.(audio.Sized); !ok || sized.TotalFrames() != 5 {
		t.Errorf("TotalFrames() not reported as 5")
	}
}

func TestDecoder_WriterRoundTrip(t *testing.T) {
	t.Parallel()

	in := []int16{0, 1000, -1000, 32767, -32768, 42}
	var file bytes.Buffer
	if err := WriteWAV16(&file, 16000, 2, in); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	buf := decodeAll(t, file.Bytes())
	if buf.Channels() != 2 || buf.SampleRate() != 16000 || buf.Frames() != 3 {
		t.Fatalf("decoded %d frames, %d ch @ %d Hz", buf.Frames(), buf.Channels(), buf.SampleRate())
	}
	for i, s := range buf.Samples() {
		if want := float32(in[i]) / 32768; s != want {
			t.Errorf("sample %d = %v, want %v", i, s, want)
		}
	}
}

// scriptedPCM replays fixed PCMBuffer results.
type scriptedPCM struct {
	chunks [][]int
	err    error
}

func (s *scriptedPCM) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if len(s.chunks) == 0 {
		return 0, s.err
	}
	n := copy(buf.Data, s.chunks[0])
	s.chunks = s.chunks[1:]
	return n, nil
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := &source{
		dec:        &scriptedPCM{chunks: [][]int{{16384, -16384}, {8192}}},
		sampleRate: 8000,
		channels:   1,
		bitDepth:   16,
	}
	dst := make([]float32, 4)

	// Short reads are not end of stream.
	n, err := src.ReadSamples(dst)
	if n != 2 || err != nil || dst[0] != 0.5 || dst[1] != -0.5 {
		t.Fatalf("first read = (%d, %v, %v)", n, err, dst[:n])
	}

	n, err = src.ReadSamples(dst)
	if n != 1 || err != nil || dst[0] != 0.25 {
		t.Fatalf("second read = (%d, %v, %v)", n, err, dst[:n])
	}

	n, err = src.ReadSamples(dst)
	if n != 0 || err != io.EOF {
		t.Errorf("final read = (%d, %v), want (0, EOF)", n, err)
	}

	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("empty dst read = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := &source{dec: &scriptedPCM{err: boom}, channels: 1, bitDepth: 16}

	if _, err := src.ReadSamples(make([]float32, 8)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func TestWriteWAV16_Header(t *testing.T) {
	t.Parallel()

	var file bytes.Buffer
	if err := WriteWAV16(&file, 44100, 2, []int16{1, 2, 3, 4, 5}); err != nil {
		t.Fatal(err)
	}

	data := file.Bytes()
	// Two full frames, the trailing sample is dropped.
	if len(data) != 44+8 {
		t.Fatalf("file length = %d, want 52", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[36:40]) != "data" {
		t.Errorf("bad chunk markers: %q", data[:40])
	}
	if got := binary.LittleEndian.Uint32(data[28:32]); got != 44100*4 {
		t.Errorf("byte rate = %d, want %d", got, 44100*4)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != 8 {
		t.Errorf("data size = %d, want 8", got)
	}
}

func TestWriteWAV16_InvalidChannels(t *testing.T) {
	t.Parallel()

	if err := WriteWAV16(io.Discard, 8000, 0, nil); !errors.Is(err, ErrInvalidChannelCount) {
		t.Errorf("WriteWAV16() error = %v, want ErrInvalidChannelCount", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWriteWAV16_WriterError(t *testing.T) {
	t.Parallel()

	if err := WriteWAV16(failingWriter{}, 8000, 1, []int16{1}); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("WriteWAV16() error = %v, want ErrClosedPipe", err)
	}
}

func BenchmarkDecoder_Decode(b *testing.B) {
	data := buildWAV(formatPCM, 44100, 2, 16, make([]byte, 44100*4))
	b.ReportAllocs()

	for b.Loop() {
		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		if _, err := audio.ReadAll(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWriteWAV16(b *testing.B) {
	samples := make([]int16, 44100*2)
	b.ReportAllocs()

	for b.Loop() {
		if err := WriteWAV16(io.Discard, 44100, 2, samples); err != nil {
			b.Fatal(err)
		}
	}
}
