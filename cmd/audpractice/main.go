// SPDX-License-Identifier: EPL-2.0

// Command audpractice plays a track for practice with A/B looping, speed
// and pitch control, and markers. It can also print a waveform overview
// and export a region to WAV.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
