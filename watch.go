// Completion: 100% - Watch mode complete
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/xyproto/bfjit/internal/watch"
)

// watchAndRerun runs path with action, then again every time the file
// changes, until interrupted. Errors of a single run are reported and
// watching continues.
func watchAndRerun(ctx *CommandContext, path string, action func(file, source string) error) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return usage("%w", err)
	}

	color := ctx.Runner.Config.Color
	rerun := func(trigger string) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", time.Now().Format("15:04:05"), trigger)
		if err := withSource(absPath, action); err != nil {
			fmt.Fprintln(os.Stderr, render(err, color))
		}
	}

	watcher, err := watch.New(func(changed string) {
		rerun("File changed: " + filepath.Base(changed))
	})
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(absPath); err != nil {
		return usage("failed to watch file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Watching %s, press Ctrl+C to stop\n", absPath)
	rerun("Initial run")

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		watcher.Close()
	}()

	watcher.Watch()
	return nil
}
