// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidChannelCount = errors.New("channel count must be at least 1")

// header is the canonical 44 byte RIFF/WAVE header for integer PCM.
type header struct {
	RIFF          [4]byte
	RIFFSize      uint32
	WAVE          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

const writeChunk = 8192

// WriteWAV16 writes interleaved 16-bit PCM samples as a WAV file.
// A trailing partial frame is dropped.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels < 1 {
		return ErrInvalidChannelCount
	}
	samples = samples[:len(samples)-len(samples)%channels]

	dataSize := uint32(len(samples) * 2)
	h := header{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		RIFFSize:      36 + dataSize,
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   formatPCM,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * 2),
		BlockAlign:    uint16(channels * 2),
		BitsPerSample: 16,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataSize,
	}

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}

	buf := make([]byte, min(len(samples), writeChunk)*2)
	for len(samples) > 0 {
		n := min(len(samples), writeChunk)
		for i, s := range samples[:n] {
			binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
		}
		if _, err := w.Write(buf[:n*2]); err != nil {
			return fmt.Errorf("writing wav data: %w", err)
		}
		samples = samples[n:]
	}

	return nil
}
