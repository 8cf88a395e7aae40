// SPDX-License-Identifier: EPL-2.0

// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const prefix = "AUDPRACTICE_"

// Config holds all runtime settings.
type Config struct {
	// Output device
	SampleRate      int
	BufferDuration  time.Duration
	ResampleQuality int

	// Engine
	TickInterval time.Duration
	PeakBuckets  int

	// Key bindings of the play command
	SpeedStep float64
	PitchStep float64
	ScrubStep time.Duration

	Log Log
}

// Log configures the logger. An empty File logs to the console only.
type Log struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		SampleRate:      44100,
		BufferDuration:  100 * time.Millisecond,
		ResampleQuality: 4,
		TickInterval:    33 * time.Millisecond,
		PeakBuckets:     1024,
		SpeedStep:       0.05,
		PitchStep:       1,
		ScrubStep:       5 * time.Second,
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the given .env files (".env" when none are named) and then
// the environment. Variables already set win over the files. A missing
// file is not an error; a malformed one is. Invalid or out of range
// values fall back to their defaults.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var err error
	for _, f := range files {
		if lerr := godotenv.Load(f); lerr != nil && !errors.Is(lerr, fs.ErrNotExist) {
			err = errors.Join(err, lerr)
		}
	}

	return FromEnv(), err
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	d := Default()

	return Config{
		SampleRate:      envInt("SAMPLE_RATE", d.SampleRate),
		BufferDuration:  envMillis("BUFFER_MS", d.BufferDuration),
		ResampleQuality: envIntRange("RESAMPLE_QUALITY", d.ResampleQuality, 1, 64),
		TickInterval:    envMillis("TICK_MS", d.TickInterval),
		PeakBuckets:     envInt("PEAK_BUCKETS", d.PeakBuckets),
		SpeedStep:       envFloat("SPEED_STEP", d.SpeedStep),
		PitchStep:       envFloat("PITCH_STEP", d.PitchStep),
		ScrubStep:       envMillis("SCRUB_STEP_MS", d.ScrubStep),
		Log: Log{
			Level:      envStr("LOG_LEVEL", d.Log.Level),
			File:       envStr("LOG_FILE", d.Log.File),
			MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", d.Log.MaxSizeMB),
			MaxBackups: envIntRange("LOG_MAX_BACKUPS", d.Log.MaxBackups, 0, 1<<16),
			MaxAgeDays: envIntRange("LOG_MAX_AGE_DAYS", d.Log.MaxAgeDays, 0, 1<<16),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(prefix + key); v != "" {
		return v
	}
	return fallback
}

// envInt accepts positive values only.
func envInt(key string, fallback int) int {
	return envIntRange(key, fallback, 1, int(^uint(0)>>1))
}

func envIntRange(key string, fallback, lo, hi int) int {
	if v := os.Getenv(prefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= lo && n <= hi {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(prefix + key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func envMillis(key string, fallback time.Duration) time.Duration {
	ms := envInt(key, int(fallback/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}
