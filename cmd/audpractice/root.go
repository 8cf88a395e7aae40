// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/audpractice/audio"
	"github.com/ik5/audpractice/internal/config"
	"github.com/ik5/audpractice/internal/logger"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	envFiles []string
	cfg      config.Config
	log      *zap.Logger
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "audpractice",
		Short:         "Practice along with a recording",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}
	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "read settings from these .env files (default .env)")

	root.AddCommand(newPlayCmd(a), newPeaksCmd(a), newExportCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	logCfg, console := logOutputs(cmd.Name(), cfg.Log)
	log, closeLog, err := logger.New(logCfg, console)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	a.log = log.With(zap.String("command", cmd.Name()))
	a.closeLog = closeLog

	return nil
}

// logOutputs picks where a command logs. The play screen owns the
// terminal, so play logs to a file only, falling back to play.log in the
// user cache directory.
func logOutputs(command string, cfg config.Log) (config.Log, io.Writer) {
	if command != "play" {
		return cfg, os.Stderr
	}

	if cfg.File == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.File = filepath.Join(dir, "audpractice", "play.log")
	}
	return cfg, nil
}

func (a *app) teardown() error {
	if a.closeLog == nil {
		return nil
	}

	return a.closeLog()
}

// decodeFile reads the whole file at path into memory.
func decodeFile(ctx context.Context, reg *audio.Registry, path string) (*audio.Buffer, error) {
	dec, ok := reg.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported audio format: %s (supported: %s)", path, strings.Join(reg.Formats(), ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	return audio.ReadAll(ctx, src)
}
