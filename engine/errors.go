// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	ErrFileNotFound   = errors.New("file not found")
	ErrInvalidFormat  = errors.New("invalid audio format")
	ErrLoadFailed     = errors.New("load failed")
	ErrNotLoaded      = errors.New("no track loaded")
	ErrPlaybackFailed = errors.New("playback failed")
)

// LoadError is returned by Load. Kind is one of ErrFileNotFound,
// ErrInvalidFormat or ErrLoadFailed and matches with errors.Is.
type LoadError struct {
	Path string
	Kind error
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("loading %s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("loading %s: %v: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Message is the text shown to the user.
func (e *LoadError) Message() string {
	name := filepath.Base(e.Path)

	switch {
	case errors.Is(e.Kind, ErrFileNotFound):
		return "File not found: " + name
	case errors.Is(e.Kind, ErrInvalidFormat):
		return "Unsupported audio format: " + name
	default:
		return "Could not load " + name
	}
}

// FailureMessage turns an Execute error into toast text.
func FailureMessage(err error) string {
	var le *LoadError
	switch {
	case errors.As(err, &le):
		return le.Message()
	case errors.Is(err, ErrNotLoaded):
		return "No track loaded"
	case errors.Is(err, ErrPlaybackFailed):
		return "Playback failed"
	default:
		return "Something went wrong"
	}
}
