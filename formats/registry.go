// SPDX-License-Identifier: EPL-2.0

// Package formats wires the bundled decoders into an audio.Registry.
package formats

import (
	"github.com/ik5/audpractice/audio"
	"github.com/ik5/audpractice/formats/aiff"
	"github.com/ik5/audpractice/formats/mp3"
	"github.com/ik5/audpractice/formats/vorbis"
	"github.com/ik5/audpractice/formats/wav"
)

// NewRegistry returns a registry that knows every bundled format, keyed by
// file extension.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(wav.Decoder{}, "wav", "wave")
	reg.Register(mp3.Decoder{}, "mp3")
	reg.Register(vorbis.Decoder{}, "ogg", "oga")
	reg.Register(aiff.Decoder{}, "aif", "aiff", "aifc")

	return reg
}
