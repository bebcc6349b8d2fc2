package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// runWatch runs a script and then reruns it, on fresh globals, every time
// the file is written. It stops on interrupt.
func runWatch(args []string, opts cliOptions) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "lox watch expects exactly one script")
		return exitUsage
	}
	target, err := filepath.Abs(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve %s: %v\n", args[0], err)
		return exitIOErr
	}
	if _, err := os.Stat(target); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", args[0], err)
		return exitIOErr
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start watcher: %v\n", err)
		return exitSoftware
	}
	defer watcher.Close()
	// Editors often replace the file instead of writing it, so watch the
	// directory and filter by name.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to watch %s: %v\n", filepath.Dir(target), err)
		return exitSoftware
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	manifest := manifestForScript(target)
	rerun := func() {
		executeEntry(target, manifest, opts)
	}
	rerun()
	return watchLoop(ctx, watcher.Events, watcher.Errors, target, func() {
		fmt.Fprintf(os.Stderr, "--- %s changed, rerunning\n", args[0])
		rerun()
	})
}

func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, target string, rerun func()) int {
	for {
		select {
		case <-ctx.Done():
			return exitOK
		case event, ok := <-events:
			if !ok {
				return exitOK
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				rerun()
			}
		case err, ok := <-errs:
			if !ok {
				return exitOK
			}
			fmt.Fprintf(os.Stderr, "warning: watcher error: %v\n", err)
		}
	}
}
