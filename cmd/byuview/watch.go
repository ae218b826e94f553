package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		flags    renderFlags
		out      string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <scene>",
		Short: "Re-render whenever the scene, camera or light file changes",
		Long: "Render like the render command, then keep watching the input files and\n" +
			"render again after each change. A file that fails to parse is reported\n" +
			"and the last good image is left in place.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			rerender := func() {
				start := time.Now()
				if _, err := renderToFile(&flags, path, out); err != nil {
					slog.Error("render failed", slog.Any("err", err))
					return
				}
				slog.Debug("render time", slog.Duration("took", time.Since(start)))
			}

			rerender()
			inputs := []string{path, flags.cameraPath, flags.lightPath}
			return watchFiles(cmd.Context(), inputs, debounce, rerender)
		},
	}
	flags.bindSize(cmd, 640, 480)
	flags.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "out.png", "output image (.png, .bmp, .tif)")
	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "quiet period before re-rendering")
	return cmd
}

// watchFiles calls fn after any of paths is written, created or renamed
// over, once debounce has passed without further changes. Empty paths
// are ignored. It returns when ctx is done.
//
// Editors often replace a file rather than write it in place, so the
// parent directories are watched and events filtered by name.
func watchFiles(ctx context.Context, paths []string, debounce time.Duration, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
		slog.Debug("watching", slog.String("dir", dir))
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if abs, err := filepath.Abs(ev.Name); err != nil || !watched[abs] {
				continue
			}
			slog.Debug("input changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", slog.Any("err", err))
		case <-timer.C:
			fn()
		}
	}
}
