// SPDX-License-Identifier: EPL-2.0

// Package output plays engine regions on the system speaker through
// github.com/gopxl/beep/v2.
//
// The speaker is a process-wide resource; create one Speaker per process.
// Region buffers must already be at the speaker's sample rate.
package output
