// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ik5/audpractice/engine"
	"github.com/ik5/audpractice/output"
	"github.com/ik5/audpractice/session"
	"github.com/ik5/audpractice/transport"
)

// toastTTL is how long a toast stays on screen.
const toastTTL = 2 * time.Second

func newPlayCmd(a *app) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Open a track in the interactive practice player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd.Context(), args[0], width)
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "waveform columns (default terminal width)")

	return cmd
}

func (a *app) play(ctx context.Context, path string, width int) (err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("play needs an interactive terminal")
	}
	if width <= 0 {
		width = 80
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	spk, err := output.NewSpeaker(a.cfg.SampleRate, int(a.cfg.BufferDuration/time.Millisecond), a.cfg.ResampleQuality, a.log.Named("speaker"))
	if err != nil {
		return err
	}
	eng := engine.New(spk, engine.Config{
		SampleRate:   a.cfg.SampleRate,
		TickInterval: a.cfg.TickInterval,
		PeakBuckets:  a.cfg.PeakBuckets,
	}, a.log.Named("engine"))
	defer func() {
		err = errors.Join(err, eng.Close())
	}()

	sess := session.New(eng, a.log.Named("session"))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run(ctx) }()
	defer func() {
		cancel()
		if rerr := <-runErr; rerr != nil && !errors.Is(rerr, context.Canceled) {
			err = errors.Join(err, rerr)
		}
	}()

	states, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	fileURL := (&url.URL{Scheme: "file", Path: abs}).String()
	if err := sess.Dispatch(ctx, transport.ImportPicked{URL: fileURL}); err != nil {
		return err
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, old)
		fmt.Fprint(os.Stdout, "\r\n")
	}()

	a.log.Info("practice session started", zap.String("path", abs), zap.Int("width", width))

	keys := readKeys(ctx, os.Stdin)
	expiry := time.NewTicker(250 * time.Millisecond)
	defer expiry.Stop()

	st := sess.State()
	for {
		select {
		case <-ctx.Done():
			return nil
		case key, ok := <-keys:
			if !ok {
				return nil
			}
			action, quit := keyAction(key, st, a.cfg)
			if quit {
				return nil
			}
			if action == nil {
				continue
			}
			if err := sess.Dispatch(ctx, action); err != nil {
				return err
			}
		case st = <-states:
			fmt.Fprint(os.Stdout, render(st, width))
		case now := <-expiry.C:
			if st.Toast != nil && now.Sub(st.Toast.ShownAt) > toastTTL {
				if err := sess.Dispatch(ctx, transport.DismissToast{}); err != nil {
					return err
				}
			}
		}
	}
}

// readKeys delivers key presses from r until it fails or ctx is done. An
// escape sequence read in one chunk is one key.
func readKeys(ctx context.Context, r io.Reader) <-chan []byte {
	keys := make(chan []byte)

	go func() {
		defer close(keys)

		buf := make([]byte, 16)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case keys <- append([]byte(nil), buf[:n]...):
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	return keys
}
